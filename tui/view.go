package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/style"
)

// searchHeaderHeight is the number of lines above the result list, padding included.
const searchHeaderHeight = 5

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case kindsState:
		output = b.viewKinds()
	case bindingState:
		output = b.viewBinding()
	case searchState:
		output = b.viewSearch()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewKinds() string {
	return listExtraPaddingStyle.Render(b.kindsC.View())
}

func (b *statefulBubble) viewBinding() string {
	return b.renderLines(true, []string{
		style.Title(fmt.Sprintf("Search %s", b.spec.Kind)),
		"",
		b.bindingC.View(),
	})
}

func (b *statefulBubble) viewSearch() string {
	status := ""
	switch {
	case b.fetching:
		status = b.spinnerC.View()
	case b.hasMore:
		status = style.Faint(fmt.Sprintf("%d+", len(b.resultsC.Items())))
	default:
		status = style.Faint(fmt.Sprint(len(b.resultsC.Items())))
	}

	suggestion := ""
	if s, ok := b.searchSuggestion.Get(); ok && s != b.inputC.Value() {
		suggestion = style.Faint(fmt.Sprintf("%s %s", icon.Get(icon.Search), s))
	}

	header := []string{
		b.inputC.View() + " " + status,
		suggestion,
		"",
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		paddingStyle.Render(strings.Join(header, "\n")),
		listExtraPaddingStyle.Render(b.resultsC.View()),
	)
}

func (b *statefulBubble) viewError() string {
	errorBody := lipgloss.NewStyle().Foreground(color.HiRed).Bold(true).Render(b.lastError.Error())
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			wrap.String(errorBody, b.width),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
