// Package mini is a line-oriented alternative to the full screen interface,
// built from plain prompts.
package mini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/samber/mo"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/util"
)

var truncateAt = 100

// errQuit ends the prompt loop without an error.
var errQuit = errors.New("quit")

type Options struct {
	Spec mo.Option[searcher.Spec]
}

type frame struct {
	spec    searcher.Spec
	session searcher.Dynamic
}

type mini struct {
	ctx    context.Context
	deps   *searcher.Deps
	prompt prompter
	out    io.Writer

	state state

	spec    searcher.Spec
	session searcher.Dynamic
	trail   util.Stack[frame]
}

func newMini(ctx context.Context, deps *searcher.Deps, p prompter, out io.Writer) *mini {
	return &mini{
		ctx:    ctx,
		deps:   deps,
		prompt: p,
		out:    out,
		state:  kindSelectState,
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

// Run prompts on the terminal until the user quits or interrupts.
func Run(ctx context.Context, deps *searcher.Deps, options *Options) error {
	if w, _, err := util.TerminalSize(); err == nil {
		truncateAt = w
	}

	return run(newMini(ctx, deps, surveyPrompter{}, os.Stdout), options)
}

func run(m *mini, options *Options) error {
	if spec, ok := options.Spec.Get(); ok {
		m.spec = spec
		m.setState(searchState)
		if searcher.NeedsBinding(spec.Kind) && spec.Binding == "" {
			m.setState(bindingInputState)
		}
	}

	for {
		if err := m.ctx.Err(); err != nil {
			return err
		}

		err := m.handleState()
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, terminal.InterruptErr):
			return nil
		default:
			return err
		}
	}
}

func (m *mini) handleState() error {
	switch m.state {
	case kindSelectState:
		return m.handleKindSelectState()
	case bindingInputState:
		return m.handleBindingInputState()
	case searchState:
		return m.handleSearchState()
	case resultsSelectState:
		return m.handleResultsSelectState()
	case quitState:
		return errQuit
	}

	return fmt.Errorf("unknown state %d", m.state)
}
