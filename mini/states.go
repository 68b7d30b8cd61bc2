package mini

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/open"
	"github.com/thrombe/kolekk/provider"
	"github.com/thrombe/kolekk/query"
	"github.com/thrombe/kolekk/searcher"
)

type state int

const (
	kindSelectState state = iota + 1
	bindingInputState
	searchState
	resultsSelectState
	quitState
)

func (m *mini) handleKindSelectState() error {
	labels := kindLabels()
	choice, err := m.prompt.choose("Select kind", labels)
	if err != nil {
		return err
	}

	if choice >= len(searcher.Kinds) {
		m.setState(quitState)
		return nil
	}

	m.spec = searcher.Spec{
		Kind:         searcher.Kinds[choice],
		IncludeAdult: viper.GetBool(key.TMDBIncludeAdult),
	}
	m.trail.Clear()

	if searcher.NeedsBinding(m.spec.Kind) {
		m.setState(bindingInputState)
		return nil
	}

	m.setState(searchState)
	return nil
}

func (m *mini) handleBindingInputState() error {
	var suggest func(string) []string
	if m.spec.Kind == searcher.KindScripted {
		suggest = func(s string) []string {
			return lo.Filter(provider.Names(), func(name string, _ int) bool {
				return strings.HasPrefix(name, s)
			})
		}
	}

	binding, err := m.prompt.input(fmt.Sprintf("Binding for %s (empty to go back)", m.spec.Kind), suggest)
	if err != nil {
		return err
	}

	binding = strings.TrimSpace(binding)
	if binding == "" {
		m.setState(kindSelectState)
		return nil
	}

	if m.spec.Kind == searcher.KindScripted && !lo.Contains(provider.Names(), binding) {
		if closest, ok := searcher.ClosestSource(binding); ok {
			m.info(fmt.Sprintf("using script %q", closest))
			binding = closest
		}
	}

	m.spec.Binding = binding
	m.setState(searchState)
	return nil
}

func (m *mini) handleSearchState() error {
	kind := string(m.spec.Kind)
	m.title("Search " + kind)

	q, err := m.prompt.input("Query", func(s string) []string {
		return query.SuggestMany(kind, s)
	})
	if err != nil {
		return err
	}

	found, err := m.open(m.spec, strings.TrimSpace(q))
	if err != nil {
		return err
	}
	if !found {
		m.fail("No search results found")
		return nil
	}

	m.setState(resultsSelectState)
	return nil
}

// open starts a session for spec and fetches its first page.
func (m *mini) open(spec searcher.Spec, q string) (bool, error) {
	session, err := searcher.OpenKind(m.deps, spec)
	if err != nil {
		return false, err
	}

	entries, err := session.SetQuery(m.ctx, q)
	if err != nil {
		return false, err
	}

	m.spec = spec
	m.session = session
	return len(entries) > 0, nil
}

func (m *mini) handleResultsSelectState() error {
	entries := m.session.Results()
	actions := controls(m.session.HasNextPage(), m.trail.Len() > 0)

	m.title(fmt.Sprintf("%s results >>", m.spec.Kind))
	choice, err := m.prompt.choose("Select", options(entries, actions))
	if err != nil {
		return err
	}

	switch a, index := resolve(choice, len(entries), actions); a {
	case pickEntry:
		return m.pick(entries[index])
	case moreResults:
		page, err := m.session.NextPage(m.ctx)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			m.fail("No more results")
		}
	case searchAgain:
		m.setState(searchState)
	case goBack:
		f := m.trail.Pop()
		m.spec, m.session = f.spec, f.session
	case quit:
		m.setState(quitState)
	}

	return nil
}

func (m *mini) pick(e searcher.Entry) error {
	if err := query.Remember(string(m.spec.Kind), m.session.Query(), 1); err != nil {
		log.Warn(err)
	}

	if child, ok := searcher.Drill(e); ok {
		parent := frame{spec: m.spec, session: m.session}
		found, err := m.open(child, "")
		if err != nil {
			return err
		}
		if !found {
			m.spec, m.session = parent.spec, parent.session
			m.fail("Nothing found under " + e.Title)
			return nil
		}
		m.trail.Push(parent)
		return nil
	}

	if e.URL == "" {
		m.info(e.Title)
		return nil
	}

	yes, err := m.prompt.confirm("Open " + e.URL + "?")
	if err != nil || !yes {
		return err
	}

	return open.Start(e.URL)
}
