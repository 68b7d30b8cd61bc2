package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/open"
	"github.com/thrombe/kolekk/query"
	"github.com/thrombe/kolekk/searcher"
)

type (
	// sessionMsg carries the session built for search number seq.
	sessionMsg struct {
		seq     int
		session searcher.Dynamic
		err     error
	}

	// pageMsg reports a NextPage call on session.
	pageMsg struct {
		session searcher.Dynamic
		err     error
	}

	reloadedMsg struct {
		kind  searcher.Kind
		count int
		err   error
	}

	storeChangedMsg struct{}
)

// openSpec replaces the current factory with one for spec and searches q on it.
func (b *statefulBubble) openSpec(spec searcher.Spec, q string) tea.Cmd {
	factory, err := searcher.FactoryForKind(b.deps, spec)
	if err != nil {
		b.raiseError(err)
		return nil
	}

	b.spec = spec
	b.factory = factory
	b.session = nil
	b.fetching = false
	b.searchSuggestion = query.Suggest(string(spec.Kind), q)
	b.inputC.SetValue(q)
	b.inputC.CursorEnd()
	b.inputC.Focus()
	b.resultsC.Title = title(spec)
	b.resultsC.ResetSelected()
	b.newState(searchState)

	return tea.Batch(b.search(q), b.spinnerC.Tick)
}

// search asks the factory for a session over q. Only the latest request is applied.
func (b *statefulBubble) search(q string) tea.Cmd {
	b.seq++
	seq, factory, ctx := b.seq, b.factory, b.ctx
	b.fetching = true

	return func() tea.Msg {
		log.Debugf("tui search %d: %q", seq, q)
		session, err := factory.WithQuery(ctx, q)
		return sessionMsg{seq: seq, session: session, err: err}
	}
}

// nextPage fetches the next page of the current session.
func (b *statefulBubble) nextPage() tea.Cmd {
	if b.session == nil || b.fetching {
		return nil
	}
	if b.session.Valid() && !b.session.HasNextPage() {
		return nil
	}

	b.fetching = true
	session, ctx := b.session, b.ctx
	return func() tea.Msg {
		_, err := session.NextPage(ctx)
		return pageMsg{session: session, err: err}
	}
}

// refresh invalidates the current session and fetches its first page again.
// Remote kinds de-duplicate, so they search their query anew instead.
// Sessions are not safe for concurrent use, so a refresh during a fetch waits for it.
func (b *statefulBubble) refresh() tea.Cmd {
	if b.session == nil {
		return nil
	}
	if b.fetching {
		b.stale = true
		return nil
	}
	if !searcher.StoreBacked(b.spec.Kind) {
		return b.search(b.session.Query())
	}
	b.session.Invalidate()
	return b.nextPage()
}

func (b *statefulBubble) reloadMirror() tea.Cmd {
	spec, ctx, deps := b.spec, b.ctx, b.deps
	if !searcher.CanReload(spec.Kind) {
		return nil
	}

	return func() tea.Msg {
		n, err := searcher.ReloadKind(ctx, deps, spec)
		return reloadedMsg{kind: spec.Kind, count: n, err: err}
	}
}

func (b *statefulBubble) selectedEntry() (searcher.Entry, bool) {
	item, ok := b.resultsC.SelectedItem().(*listItem)
	if !ok {
		return searcher.Entry{}, false
	}
	entry, ok := item.internal.(searcher.Entry)
	return entry, ok
}

// rememberQuery ranks the query that led to a chosen entry.
func (b *statefulBubble) rememberQuery() {
	if b.session == nil {
		return
	}
	if err := query.Remember(string(b.spec.Kind), b.session.Query(), 1); err != nil {
		log.Warn(err)
	}
}

func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(url); err != nil {
			return fmt.Errorf("open %s: %w", url, err)
		}
		return nil
	}
}

func title(spec searcher.Spec) string {
	if spec.Binding == "" {
		return string(spec.Kind)
	}
	return fmt.Sprintf("%s - %s", spec.Kind, spec.Binding)
}
