// Package color names the ANSI colors kolekk prints with, so output
// follows the user's terminal theme.
package color

import "github.com/charmbracelet/lipgloss"

const (
	Red    lipgloss.Color = "1"
	Green  lipgloss.Color = "2"
	Yellow lipgloss.Color = "3"
	Blue   lipgloss.Color = "4"
	Purple lipgloss.Color = "5"
	Cyan   lipgloss.Color = "6"

	HiRed    lipgloss.Color = "9"
	HiBlue   lipgloss.Color = "12"
	HiPurple lipgloss.Color = "13"

	// 256-color extras.
	Gray   lipgloss.Color = "244"
	Orange lipgloss.Color = "214"
	Cream  lipgloss.Color = "230"
	Indigo lipgloss.Color = "62"
)
