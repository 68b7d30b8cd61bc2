package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/internal/ui"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/query"
	"github.com/thrombe/kolekk/searcher"
)

// prefetchMargin is how close to the end of the list the cursor gets before the next page is requested.
const prefetchMargin = 3

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// status line notices
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if !b.fetching {
			return b, cmd
		}
		var tick tea.Cmd
		b.spinnerC, tick = b.spinnerC.Update(msg)
		return b, tea.Batch(cmd, tick)
	case sessionMsg:
		return b, tea.Batch(cmd, b.onSession(msg))
	case pageMsg:
		return b, tea.Batch(cmd, b.onPage(msg))
	case reloadedMsg:
		return b, tea.Batch(cmd, b.onReloaded(msg))
	case storeChangedMsg:
		if b.state == searchState && searcher.StoreBacked(b.spec.Kind) {
			log.Debug("store changed, refreshing results")
			return b, tea.Batch(cmd, b.refresh())
		}
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	switch b.state {
	case kindsState:
		return b, tea.Batch(cmd, b.updateKinds(msg))
	case bindingState:
		return b, tea.Batch(cmd, b.updateBinding(msg))
	case searchState:
		return b, tea.Batch(cmd, b.updateSearch(msg))
	case errorState:
		return b, tea.Batch(cmd, b.updateError(msg))
	}

	return b, cmd
}

func (b *statefulBubble) updateKinds(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit, b.keymap.back):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.kindsC.SelectedItem().(*listItem)
			if !ok {
				return nil
			}
			spec := searcher.Spec{
				Kind:         item.internal.(searcher.Kind),
				IncludeAdult: viper.GetBool(key.TMDBIncludeAdult),
			}
			if searcher.NeedsBinding(spec.Kind) {
				return b.askBinding(spec)
			}
			return b.openSpec(spec, "")
		}
	}

	var cmd tea.Cmd
	b.kindsC, cmd = b.kindsC.Update(msg)
	return cmd
}

// askBinding prompts for the facet, source, manga or script spec is bound to.
func (b *statefulBubble) askBinding(spec searcher.Spec) tea.Cmd {
	b.spec = spec
	b.bindingC.SetValue(spec.Binding)
	b.bindingC.Placeholder = bindingPlaceholders[spec.Kind]
	b.bindingC.Prompt = string(spec.Kind) + ": "
	b.bindingC.Focus()
	b.newState(bindingState)
	return nil
}

var bindingPlaceholders = map[searcher.Kind]string{
	searcher.KindObjects:  "facet, e.g. bookmarks",
	searcher.KindTagged:   "tag id",
	searcher.KindMangas:   "tachidesk source id",
	searcher.KindChapters: "tachidesk manga id",
	searcher.KindScripted: "lua source name",
}

func (b *statefulBubble) updateBinding(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if b.spec.Kind == searcher.KindScripted {
				if name, ok := searcher.ClosestSource(b.bindingC.Value()); ok {
					b.bindingC.SetValue(name)
					b.bindingC.CursorEnd()
				}
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.bindingC.Value() == "" {
				return nil
			}
			spec := b.spec
			spec.Binding = b.bindingC.Value()
			b.bindingC.Blur()
			return b.openSpec(spec, "")
		}
	}

	var cmd tea.Cmd
	b.bindingC, cmd = b.bindingC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		b.inputC, cmd = b.inputC.Update(msg)
		return cmd
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.back):
		if b.trail.Len() > 0 {
			last := b.trail.Pop()
			return b.openSpec(last.spec, last.query)
		}
		b.inputC.Blur()
		b.session = nil
		b.previousState()
		return nil

	case bubblesKey.Matches(keyMsg, b.keymap.acceptSearchSuggestion):
		suggestion, ok := b.searchSuggestion.Get()
		if !ok || suggestion == b.inputC.Value() {
			return nil
		}
		b.inputC.SetValue(suggestion)
		b.inputC.CursorEnd()
		return b.search(suggestion)

	case bubblesKey.Matches(keyMsg, b.keymap.confirm):
		entry, ok := b.selectedEntry()
		if !ok {
			return nil
		}
		b.rememberQuery()
		if spec, ok := searcher.Drill(entry); ok {
			b.trail.Push(frame{spec: b.spec, query: b.inputC.Value()})
			cmd := b.openSpec(spec, "")
			if b.state == errorState {
				b.trail.Pop()
			}
			return cmd
		}
		if entry.URL != "" {
			return openURL(entry.URL)
		}
		return ui.Notify("%s has no url", entry.Title)

	case bubblesKey.Matches(keyMsg, b.keymap.openURL):
		entry, ok := b.selectedEntry()
		if !ok || entry.URL == "" {
			return nil
		}
		b.rememberQuery()
		return openURL(entry.URL)

	case bubblesKey.Matches(keyMsg, b.keymap.reload):
		if !searcher.CanReload(b.spec.Kind) {
			return ui.Notify("%s can not be reloaded", b.spec.Kind)
		}
		return tea.Batch(b.reloadMirror(), ui.Notify("reloading %s", b.spec.Kind))

	case bubblesKey.Matches(keyMsg, b.keymap.up, b.keymap.down, b.keymap.pageUp, b.keymap.pageDown, b.keymap.showHelp):
		var cmd tea.Cmd
		b.resultsC, cmd = b.resultsC.Update(msg)
		return tea.Batch(cmd, b.maybeNextPage())
	}

	before := b.inputC.Value()
	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)

	if after := b.inputC.Value(); after != before {
		if viper.GetBool(key.SearchShowQuerySuggestions) {
			b.searchSuggestion = query.Suggest(string(b.spec.Kind), after)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
		return tea.Batch(cmd, b.search(after), b.spinnerC.Tick)
	}

	return cmd
}

// maybeNextPage requests more results once the cursor nears the end of the list.
func (b *statefulBubble) maybeNextPage() tea.Cmd {
	if !b.hasMore || len(b.resultsC.Items())-b.resultsC.Index() > prefetchMargin {
		return nil
	}
	cmd := b.nextPage()
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, b.spinnerC.Tick)
}

func (b *statefulBubble) onSession(msg sessionMsg) tea.Cmd {
	if msg.seq != b.seq {
		log.Debugf("dropping results of search %d, %d is current", msg.seq, b.seq)
		return nil
	}
	b.fetching = false

	if msg.err != nil {
		log.Error(msg.err)
		return ui.Notify("search failed: %v", msg.err)
	}
	// superseded inside the debouncer
	if msg.session == nil {
		return nil
	}

	b.session = msg.session
	b.stale = false
	b.resultsC.ResetSelected()
	return tea.Batch(b.showResults(), b.maybeNextPage())
}

func (b *statefulBubble) onPage(msg pageMsg) tea.Cmd {
	if msg.session != b.session {
		return nil
	}
	b.fetching = false

	if b.stale {
		b.stale = false
		return b.refresh()
	}

	if msg.err != nil {
		log.Error(msg.err)
		return ui.Notify("fetching more failed: %v", msg.err)
	}

	return tea.Batch(b.showResults(), b.maybeNextPage())
}

func (b *statefulBubble) onReloaded(msg reloadedMsg) tea.Cmd {
	if msg.err != nil {
		log.Error(msg.err)
		return ui.Notify("reload of %s failed: %v", msg.kind, msg.err)
	}
	if msg.kind != b.spec.Kind {
		return ui.Notify("reloaded %d %s", msg.count, msg.kind)
	}
	return tea.Batch(b.refresh(), ui.Notify("reloaded %d %s", msg.count, msg.kind))
}

// showResults copies the session's results into the list. Only call it while no fetch is running.
func (b *statefulBubble) showResults() tea.Cmd {
	b.hasMore = b.session.HasNextPage()
	items := lo.Map(b.session.Results(), func(e searcher.Entry, _ int) list.Item {
		return &listItem{internal: e}
	})
	return b.resultsC.SetItems(items)
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.previousState()
		}
	}
	return nil
}
