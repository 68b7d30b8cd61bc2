package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thrombe/kolekk/searcher"
)

// Init opens the spec given on the command line, or waits on the kind picker.
func (b *statefulBubble) Init() tea.Cmd {
	spec, ok := b.pendingSpec.Get()
	if !ok {
		return textinput.Blink
	}

	if searcher.NeedsBinding(spec.Kind) && spec.Binding == "" {
		return b.askBinding(spec)
	}
	return tea.Batch(textinput.Blink, b.openSpec(spec, ""))
}
