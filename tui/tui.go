// Package tui is the interactive search view: type a query, scroll, and more pages load on demand.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/searcher"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Spec skips the kind picker when present.
	Spec mo.Option[searcher.Spec]
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(ctx context.Context, deps *searcher.Deps, options *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bubble := newBubble(ctx, deps)

	if spec, ok := options.Spec.Get(); ok {
		bubble.pendingSpec = mo.Some(spec)
	}

	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))

	if deps.Store != nil {
		err := deps.Store.Watch(ctx, func() {
			program.Send(storeChangedMsg{})
		})
		if err != nil {
			log.Warn(err)
		}
	}

	_, err := program.Run()
	return err
}
