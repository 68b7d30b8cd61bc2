package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/thrombe/kolekk/auth"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/style"
)

// printMissingBackendError explains how to configure the backend err complains about.
func printMissingBackendError(err error) {
	service, hasCredential := lo.Find(auth.Services, func(s auth.Service) bool {
		return strings.HasSuffix(err.Error(), ": "+string(s))
	})

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Backend", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(err.Error())

	hint := style.New().Foreground(style.AccentColor).Bold(true).Render
	suggestion := ""
	switch {
	case hasCredential:
		suggestion = fmt.Sprintf("\n\nTo store a credential, try running:\n  %s", hint(fmt.Sprintf("%s auth set %s", constant.Kolekk, service)))
	case strings.HasSuffix(err.Error(), ": tachidesk"):
		suggestion = fmt.Sprintf("\n\nPoint %s at a running server:\n  %s", key.TachideskURL, hint(fmt.Sprintf("%s config set %s http://localhost:4567", constant.Kolekk, key.TachideskURL)))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
