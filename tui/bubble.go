package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/internal/ui"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/util"
)

// frame is a search left behind when drilling into an entry.
type frame struct {
	spec  searcher.Spec
	query string
}

// statefulBubble holds the whole TUI: the current search, its results and navigation.
type statefulBubble struct {
	ctx  context.Context
	deps *searcher.Deps

	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	bindingC  textinput.Model
	kindsC    list.Model
	resultsC  list.Model
	helpC     help.Model
	notifier  *ui.Notifier
	lastError error

	pendingSpec mo.Option[searcher.Spec]
	spec        searcher.Spec
	trail       util.Stack[frame]

	factory  searcher.DynamicFactory
	session  searcher.Dynamic
	seq      int
	fetching bool
	stale    bool
	hasMore  bool

	searchSuggestion mo.Option[string]

	width, height int
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering where it came from.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != errorState {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.kindsC.SetSize(listWidth, listHeight)
	b.kindsC.Help.Width = listWidth

	// the query and suggestion lines sit above the results
	b.resultsC.SetSize(listWidth, max(listHeight-searchHeaderHeight, 1))
	b.resultsC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func newBubble(ctx context.Context, deps *searcher.Deps) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		ctx:           ctx,
		deps:          deps,
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		notifier:      &ui.Notifier{},
	}

	makeList := func(title string, description bool, titleStyle lipgloss.Style) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = titleStyle
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetFilteringEnabled(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search (v%s)", constant.Version)
	bubble.inputC.CharLimit = 80
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.bindingC = textinput.New()
	bubble.bindingC.CharLimit = 80

	bubble.kindsC = makeList("Search", true,
		lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1))
	bubble.kindsC.SetItems(lo.Map(searcher.Kinds, func(k searcher.Kind, _ int) list.Item {
		return &listItem{internal: k}
	}))

	bubble.resultsC = makeList("Results", true,
		lipgloss.NewStyle().Foreground(style.Base).Background(style.Lavender).Padding(0, 1))
	bubble.resultsC.SetStatusBarItemName("result", "results")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
