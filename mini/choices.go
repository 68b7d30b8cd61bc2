package mini

import (
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/thrombe/kolekk/searcher"
)

type action int

const (
	pickEntry action = iota
	moreResults
	searchAgain
	goBack
	quit
)

var actionLabels = map[action]string{
	moreResults: "~ more results",
	searchAgain: "~ search again",
	goBack:      "~ back",
	quit:        "~ quit",
}

// controls lists the actions offered below the entries, in order.
func controls(hasMore, canGoBack bool) []action {
	var actions []action
	if hasMore {
		actions = append(actions, moreResults)
	}
	actions = append(actions, searchAgain)
	if canGoBack {
		actions = append(actions, goBack)
	}
	return append(actions, quit)
}

func label(e searcher.Entry) string {
	s := e.Title
	if e.Subtitle != "" {
		s += " (" + e.Subtitle + ")"
	}
	return truncate.StringWithTail(s, uint(max(truncateAt-4, 10)), "...")
}

// options renders entries followed by the controls.
func options(entries []searcher.Entry, actions []action) []string {
	labels := lo.Map(entries, func(e searcher.Entry, _ int) string { return label(e) })
	return append(labels, lo.Map(actions, func(a action, _ int) string { return actionLabels[a] })...)
}

// resolve maps a chosen option index back to an entry index or a control.
func resolve(choice int, entries int, actions []action) (action, int) {
	if choice < entries {
		return pickEntry, choice
	}
	index := choice - entries
	if index >= len(actions) {
		return quit, -1
	}
	return actions[index], -1
}

func kindLabels() []string {
	return append(lo.Map(searcher.Kinds, func(k searcher.Kind, _ int) string { return string(k) }), actionLabels[quit])
}
