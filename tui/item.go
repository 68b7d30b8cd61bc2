package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/style"
)

var kindDescriptions = map[searcher.Kind]string{
	searcher.KindObjects:    "Objects of one facet in the local store",
	searcher.KindTags:       "Tags in the local store",
	searcher.KindTagged:     "Objects carrying one tag",
	searcher.KindMovies:     "Movies and shows on TMDB",
	searcher.KindExtensions: "Tachidesk extensions",
	searcher.KindSources:    "Tachidesk sources",
	searcher.KindMangas:     "Mangas of one tachidesk source",
	searcher.KindChapters:   "Chapters of one tachidesk manga",
	searcher.KindAlbums:     "Albums on Last.fm",
	searcher.KindAnime:      "Anime on Anilist",
	searcher.KindMal:        "Anime on MyAnimeList",
	searcher.KindScripted:   "Results of a Lua source",
}

// listItem implements list.Item over a kind or a result entry.
type listItem struct {
	internal any
}

func (t *listItem) getMark() string {
	switch e := t.internal.(type) {
	case searcher.Kind:
		if searcher.StoreBacked(e) {
			return icon.Get(icon.Store)
		}
		return icon.Get(icon.Web)
	case searcher.Entry:
		if _, ok := searcher.Drill(e); ok {
			return lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Link))
		}
	}
	return ""
}

func (t *listItem) Title() (title string) {
	title = t.FilterValue()
	if mark := t.getMark(); title != "" && mark != "" {
		title = fmt.Sprintf("%s %s", title, mark)
	}
	return
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case searcher.Kind:
		return kindDescriptions[e]
	case searcher.Entry:
		parts := make([]string, 0, 2)
		if e.Subtitle != "" {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.Subtext).Render(e.Subtitle))
		}
		if e.URL != "" && viper.GetBool(key.TUIShowURLs) {
			parts = append(parts, style.Faint(e.URL))
		}
		return strings.Join(parts, " • ")
	default:
		return ""
	}
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case searcher.Kind:
		return string(e)
	case searcher.Entry:
		return e.Title
	default:
		return ""
	}
}
