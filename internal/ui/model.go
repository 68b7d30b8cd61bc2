// Package ui holds the transient status line shown under the TUI list.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thrombe/kolekk/style"
)

// NoticeTTL is how long a notice stays on screen.
const NoticeTTL = 3 * time.Second

type noticeMsg string

// expireMsg carries the generation it was scheduled for, so an older
// timer never hides a newer notice.
type expireMsg int

// Notifier shows one notice at a time.
type Notifier struct {
	text string
	gen  int
}

// Notify returns a command that posts a formatted notice.
func Notify(format string, args ...any) tea.Cmd {
	text := noticeMsg(fmt.Sprintf(format, args...))
	return func() tea.Msg { return text }
}

// Update consumes notice messages and ignores everything else.
func (n *Notifier) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case noticeMsg:
		n.gen++
		n.text = string(msg)
		gen := expireMsg(n.gen)
		return tea.Tick(NoticeTTL, func(time.Time) tea.Msg { return gen })
	case expireMsg:
		if int(msg) == n.gen {
			n.text = ""
		}
	}
	return nil
}

// View appends the current notice, if any, to the last line of content.
func (n *Notifier) View(content string) string {
	if n.text == "" {
		return content
	}
	return content + "  " + style.Faint(n.text)
}
