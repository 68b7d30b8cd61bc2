// Package style renders text for the terminal frontends.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/thrombe/kolekk/color"
)

// Mocha-flavoured truecolor palette used by the full screen views.
const (
	Base     lipgloss.Color = "#1e1e2e"
	Text     lipgloss.Color = "#cdd6f4"
	Subtext  lipgloss.Color = "#a6adc8"
	Mauve    lipgloss.Color = "#cba6f7"
	Lavender lipgloss.Color = "#b4befe"
	HiRed    lipgloss.Color = "#f38ba8"

	AccentColor = Mauve
)

// New is a blank style to build on.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer that paints its input in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }

	Title      = badge(color.Cream, color.Indigo)
	ErrorTitle = badge(color.Cream, color.Red)
)

func badge(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}
