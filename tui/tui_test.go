package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/store"
)

func init() {
	filesystem.SetMemMapFs()
}

// drain runs cmd and feeds every message it yields back into b.
// Commands that wait on a timer are dropped.
func drain(b *statefulBubble, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- next() }()

		var msg tea.Msg
		select {
		case msg = <-done:
		case <-time.After(100 * time.Millisecond):
			continue
		}

		switch msg := msg.(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, c := b.Update(msg)
			queue = append(queue, c)
		}
	}
}

func press(b *statefulBubble, msg tea.KeyMsg) {
	_, cmd := b.Update(msg)
	drain(b, cmd)
}

func typeText(b *statefulBubble, text string) {
	press(b, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func fixture(n int) (*searcher.Deps, *statefulBubble) {
	st, err := store.OpenMemory()
	So(err, ShouldBeNil)

	for i := range n {
		_, err := st.Put(context.Background(), store.Object{Facet: "bookmarks", Title: fmt.Sprintf("link %d", i)})
		So(err, ShouldBeNil)
	}

	deps := &searcher.Deps{Store: st, PageSize: 2}
	b := newBubble(context.Background(), deps)
	b.resize(80, 60)
	return deps, b
}

func TestSearch(t *testing.T) {
	Convey("Given a bubble over five bookmarks and a page size of 2", t, func() {
		deps, b := fixture(5)
		defer deps.Close()

		drain(b, b.openSpec(searcher.Spec{Kind: searcher.KindObjects, Binding: "bookmarks"}, ""))

		Convey("It should prefetch until the cursor is far from the end", func() {
			So(b.state, ShouldEqual, searchState)
			So(len(b.resultsC.Items()), ShouldEqual, 4)
			So(b.hasMore, ShouldBeTrue)
			So(b.fetching, ShouldBeFalse)

			Convey("And fetch the rest when scrolling down", func() {
				press(b, tea.KeyMsg{Type: tea.KeyDown})
				So(len(b.resultsC.Items()), ShouldEqual, 5)
				So(b.hasMore, ShouldBeFalse)
			})
		})

		Convey("Typing should start a new search", func() {
			typeText(b, "link 3")
			So(b.inputC.Value(), ShouldEqual, "link 3")
			So(b.session.Query(), ShouldEqual, "link 3")
			So(len(b.resultsC.Items()), ShouldEqual, 1)
			So(b.resultsC.Items()[0].FilterValue(), ShouldEqual, "link 3")
		})

		Convey("Results of an outdated search should be dropped", func() {
			old := b.session
			typeText(b, "nothing matches this")
			_, cmd := b.Update(sessionMsg{seq: b.seq - 1, session: old})
			drain(b, cmd)
			So(b.session, ShouldNotEqual, old)
			So(b.resultsC.Items(), ShouldBeEmpty)
		})

		Convey("A store change should refresh the results", func() {
			typeText(b, "zig")
			So(b.resultsC.Items(), ShouldBeEmpty)

			_, err := deps.Store.Put(context.Background(), store.Object{Facet: "bookmarks", Title: "zig"})
			So(err, ShouldBeNil)

			_, cmd := b.Update(storeChangedMsg{})
			drain(b, cmd)
			So(len(b.resultsC.Items()), ShouldEqual, 1)
		})

		Convey("Reload should be refused for objects", func() {
			So(b.reloadMirror(), ShouldBeNil)
		})

		Convey("Esc should go back to the kind picker", func() {
			press(b, tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, kindsState)
			So(b.session, ShouldBeNil)
		})
	})
}

func TestNavigation(t *testing.T) {
	Convey("Given a fresh bubble", t, func() {
		deps, b := fixture(3)
		defer deps.Close()

		Convey("Picking objects should ask for a facet first", func() {
			press(b, tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, bindingState)

			Convey("An empty facet should not be accepted", func() {
				press(b, tea.KeyMsg{Type: tea.KeyEnter})
				So(b.state, ShouldEqual, bindingState)
			})

			Convey("A facet should open the search", func() {
				typeText(b, "bookmarks")
				press(b, tea.KeyMsg{Type: tea.KeyEnter})
				So(b.state, ShouldEqual, searchState)
				So(b.spec.Binding, ShouldEqual, "bookmarks")
				So(b.resultsC.Title, ShouldEqual, "objects - bookmarks")
				So(len(b.resultsC.Items()), ShouldEqual, 3)
			})

			Convey("Esc should return to the kinds", func() {
				press(b, tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, kindsState)
			})
		})

		Convey("A kind without its backend should show an error", func() {
			drain(b, b.openSpec(searcher.Spec{Kind: searcher.KindMovies}, ""))
			So(b.state, ShouldEqual, errorState)
			So(b.lastError, ShouldNotBeNil)
			So(b.View(), ShouldContainSubstring, "An error occurred")

			press(b, tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, kindsState)
		})
	})
}
