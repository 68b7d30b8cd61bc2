package searcher

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"
	"github.com/thrombe/kolekk/anilist"
	"github.com/thrombe/kolekk/lastfm"
	"github.com/thrombe/kolekk/mal"
	"github.com/thrombe/kolekk/provider"
	"github.com/thrombe/kolekk/search"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/tachidesk"
	"github.com/thrombe/kolekk/tmdb"
)

// Kind names a family of targets on the command line.
type Kind string

const (
	KindObjects    Kind = "objects"
	KindTags       Kind = "tags"
	KindTagged     Kind = "tagged"
	KindMovies     Kind = "movies"
	KindExtensions Kind = "extensions"
	KindSources    Kind = "sources"
	KindMangas     Kind = "mangas"
	KindChapters   Kind = "chapters"
	KindAlbums     Kind = "albums"
	KindAnime      Kind = "anime"
	KindMal        Kind = "mal"
	KindScripted   Kind = "scripted"
)

// Kinds lists every kind in help order.
var Kinds = []Kind{
	KindObjects, KindTags, KindTagged, KindMovies, KindExtensions, KindSources,
	KindMangas, KindChapters, KindAlbums, KindAnime, KindMal, KindScripted,
}

// Entry is the kind independent view of a result, used for printing.
type Entry struct {
	Kind     Kind   `json:"kind"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	URL      string `json:"url,omitempty"`
	Cover    string `json:"cover,omitempty"`
	Value    any    `json:"value"`
}

// Target fixes the adapter, cursor, de-duplication and debounce of one kind.
// The set of targets is closed.
type Target[T any] interface {
	Kind() Kind
	adapter(d *Deps) (search.Adapter[T], error)
	cursor() search.Cursor
	layers() []search.Layer[T]
	remote() bool
	entry(T) Entry
}

// Objects searches one facet of the store.
type Objects struct {
	Facet store.Facet
}

func (Objects) Kind() Kind { return KindObjects }

func (t Objects) adapter(d *Deps) (search.Adapter[store.Object], error) {
	st, err := need(d.Store, "store")
	if err != nil {
		return nil, err
	}
	if t.Facet == "" || t.Facet == store.FacetTag {
		return nil, fmt.Errorf("objects need a facet other than %q", store.FacetTag)
	}
	return &objectsAdapter{store: st, facet: t.Facet, limit: d.pageSize()}, nil
}

func (Objects) cursor() search.Cursor                { return search.Offset() }
func (Objects) layers() []search.Layer[store.Object] { return nil }
func (Objects) remote() bool                         { return false }

func (Objects) entry(o store.Object) Entry {
	return Entry{Kind: KindObjects, ID: o.ID, Title: o.Title, Subtitle: string(o.Facet), URL: objectURL(o), Value: o}
}

// objectURL reads a top level "url" from the object's data, if it has one.
func objectURL(o store.Object) string {
	var link struct {
		URL string `json:"url"`
	}
	if len(o.Data) == 0 || json.Unmarshal(o.Data, &link) != nil {
		return ""
	}
	return link.URL
}

// Tags searches the tag list.
type Tags struct{}

func (Tags) Kind() Kind { return KindTags }

func (Tags) adapter(d *Deps) (search.Adapter[store.Tag], error) {
	st, err := need(d.Store, "store")
	if err != nil {
		return nil, err
	}
	return &tagsAdapter{store: st, limit: d.pageSize()}, nil
}

func (Tags) cursor() search.Cursor             { return search.Offset() }
func (Tags) layers() []search.Layer[store.Tag] { return nil }
func (Tags) remote() bool                      { return false }

func (Tags) entry(t store.Tag) Entry {
	e := Entry{Kind: KindTags, ID: t.ID, Title: t.Name, Value: t}
	if t.IsAlias() {
		e.Subtitle = "alias of " + t.AliasOf
	}
	return e
}

// Tagged searches the objects of every facet carrying one tag.
type Tagged struct {
	Tag string
}

func (Tagged) Kind() Kind { return KindTagged }

func (t Tagged) adapter(d *Deps) (search.Adapter[store.Object], error) {
	st, err := need(d.Store, "store")
	if err != nil {
		return nil, err
	}
	if t.Tag == "" {
		return nil, fmt.Errorf("tagged needs a tag id")
	}
	return &taggedAdapter{store: st, tag: t.Tag, limit: d.pageSize()}, nil
}

func (Tagged) cursor() search.Cursor                { return search.Offset() }
func (Tagged) layers() []search.Layer[store.Object] { return nil }
func (Tagged) remote() bool                         { return false }

func (Tagged) entry(o store.Object) Entry {
	e := Objects{}.entry(o)
	e.Kind = KindTagged
	return e
}

// Movies searches movies and tv shows on TMDB.
type Movies struct {
	IncludeAdult bool
}

func (Movies) Kind() Kind { return KindMovies }

func (t Movies) adapter(d *Deps) (search.Adapter[tmdb.MultiSearchResult], error) {
	client, err := need(d.TMDB, "tmdb")
	if err != nil {
		return nil, err
	}
	return &moviesAdapter{client: client, includeAdult: t.IncludeAdult}, nil
}

func (Movies) cursor() search.Cursor { return search.Pages(1) }

// Movie and show ids overlap, so the media type is part of the key.
func (Movies) layers() []search.Layer[tmdb.MultiSearchResult] {
	return []search.Layer[tmdb.MultiSearchResult]{
		search.Dedup[tmdb.MultiSearchResult, tmdb.ID](func(r tmdb.MultiSearchResult) mo.Option[tmdb.ID] {
			if r.ID == 0 {
				return mo.None[tmdb.ID]()
			}
			return mo.Some(tmdb.ID{Type: r.MediaType, ID: r.ID})
		}),
	}
}

func (Movies) remote() bool { return true }

func (Movies) entry(r tmdb.MultiSearchResult) Entry {
	return Entry{
		Kind:     KindMovies,
		ID:       fmt.Sprintf("%s/%d", r.MediaType, r.ID),
		Title:    r.DisplayTitle(),
		Subtitle: strings.TrimSpace(fmt.Sprintf("%s %s", r.MediaType, r.Year())),
		URL:      r.URL(),
		Cover:    r.PosterURL("w342"),
		Value:    r,
	}
}

// Extensions searches the mirrored tachidesk extension list.
type Extensions struct{}

func (Extensions) Kind() Kind { return KindExtensions }

func (Extensions) adapter(d *Deps) (search.Adapter[Stored[tachidesk.Extension]], error) {
	return storedTachidesk[tachidesk.Extension](d, FacetExtensions, extensionsMirror)
}

func (Extensions) cursor() search.Cursor                               { return search.Offset() }
func (Extensions) layers() []search.Layer[Stored[tachidesk.Extension]] { return nil }
func (Extensions) remote() bool                                        { return false }

func (Extensions) entry(s Stored[tachidesk.Extension]) Entry {
	e := s.Value
	status := "available"
	switch {
	case e.Installed && e.HasUpdate:
		status = "update available"
	case e.Installed:
		status = "installed"
	}
	return Entry{
		Kind:     KindExtensions,
		ID:       e.PkgName,
		Title:    e.Name,
		Subtitle: fmt.Sprintf("%s %s, %s", e.Lang, e.VersionName, status),
		Cover:    e.IconURL,
		Value:    e,
	}
}

// Sources searches the mirrored tachidesk source list.
type Sources struct{}

func (Sources) Kind() Kind { return KindSources }

func (Sources) adapter(d *Deps) (search.Adapter[Stored[tachidesk.Source]], error) {
	return storedTachidesk[tachidesk.Source](d, FacetSources, sourcesMirror)
}

func (Sources) cursor() search.Cursor                            { return search.Offset() }
func (Sources) layers() []search.Layer[Stored[tachidesk.Source]] { return nil }
func (Sources) remote() bool                                     { return false }

func (Sources) entry(s Stored[tachidesk.Source]) Entry {
	src := s.Value
	return Entry{Kind: KindSources, ID: src.ID, Title: src.DisplayName, Subtitle: src.Lang, Cover: src.IconURL, Value: src}
}

// Mangas searches one tachidesk source. An empty query lists its popular
// mangas, or its latest updates when Deps.LatestMangas is set and the source
// supports them.
type Mangas struct {
	Source string
}

func (Mangas) Kind() Kind { return KindMangas }

func (t Mangas) adapter(d *Deps) (search.Adapter[tachidesk.Manga], error) {
	client, err := need(d.Tachidesk, "tachidesk")
	if err != nil {
		return nil, err
	}
	if t.Source == "" {
		return nil, fmt.Errorf("mangas need a source id")
	}
	return &mangasAdapter{client: client, source: t.Source, latest: d.LatestMangas}, nil
}

func (Mangas) cursor() search.Cursor { return search.Pages(1) }

func (Mangas) layers() []search.Layer[tachidesk.Manga] {
	return []search.Layer[tachidesk.Manga]{
		search.Dedup[tachidesk.Manga, int](func(m tachidesk.Manga) mo.Option[int] {
			if m.ID == 0 {
				return mo.None[int]()
			}
			return mo.Some(m.ID)
		}),
	}
}

func (Mangas) remote() bool { return true }

func (Mangas) entry(m tachidesk.Manga) Entry {
	return Entry{
		Kind:     KindMangas,
		ID:       strconv.Itoa(m.ID),
		Title:    m.Title,
		Subtitle: m.Author,
		URL:      m.RealURL,
		Cover:    m.ThumbnailURL,
		Value:    m,
	}
}

// Chapters searches the mirrored chapter list of one manga.
type Chapters struct {
	Manga int
}

func (Chapters) Kind() Kind { return KindChapters }

func (t Chapters) adapter(d *Deps) (search.Adapter[Stored[tachidesk.Chapter]], error) {
	return storedTachidesk[tachidesk.Chapter](d, ChaptersFacet(t.Manga), func(c *tachidesk.Client) mirror {
		return chaptersMirror(c, t.Manga)
	})
}

func (Chapters) cursor() search.Cursor                             { return search.Offset() }
func (Chapters) layers() []search.Layer[Stored[tachidesk.Chapter]] { return nil }
func (Chapters) remote() bool                                      { return false }

func (Chapters) entry(s Stored[tachidesk.Chapter]) Entry {
	ch := s.Value
	return Entry{
		Kind:     KindChapters,
		ID:       strconv.Itoa(ch.Index),
		Title:    ch.Name,
		Subtitle: ch.Scanlator,
		URL:      ch.URL,
		Value:    ch,
	}
}

// Albums searches Last.fm albums. An empty query finds nothing.
type Albums struct{}

func (Albums) Kind() Kind { return KindAlbums }

func (Albums) adapter(d *Deps) (search.Adapter[lastfm.Album], error) {
	client, err := need(d.LastFM, "lastfm")
	if err != nil {
		return nil, err
	}
	return &albumsAdapter{client: client}, nil
}

func (Albums) cursor() search.Cursor { return search.Pages(1) }

func (Albums) layers() []search.Layer[lastfm.Album] {
	return []search.Layer[lastfm.Album]{search.Dedup(urlKey(func(a lastfm.Album) string { return a.URL }))}
}

func (Albums) remote() bool { return true }

func (Albums) entry(a lastfm.Album) Entry {
	return Entry{Kind: KindAlbums, ID: a.URL, Title: a.Name, Subtitle: a.Artist, URL: a.URL, Cover: a.Cover(), Value: a}
}

// Anime searches Anilist. An empty query lists anime by popularity.
type Anime struct{}

func (Anime) Kind() Kind { return KindAnime }

func (Anime) adapter(d *Deps) (search.Adapter[*anilist.Anime], error) {
	client, err := need(d.Anilist, "anilist")
	if err != nil {
		return nil, err
	}
	return &anilistAdapter{client: client}, nil
}

func (Anime) cursor() search.Cursor { return search.Pages(1) }

func (Anime) layers() []search.Layer[*anilist.Anime] {
	return []search.Layer[*anilist.Anime]{
		search.Dedup[*anilist.Anime, int](func(a *anilist.Anime) mo.Option[int] {
			if a == nil || a.ID == 0 {
				return mo.None[int]()
			}
			return mo.Some(a.ID)
		}),
	}
}

func (Anime) remote() bool { return true }

func (Anime) entry(a *anilist.Anime) Entry {
	return Entry{
		Kind:     KindAnime,
		ID:       strconv.Itoa(a.ID),
		Title:    a.Name(),
		Subtitle: strings.TrimSpace(a.Format + " " + a.Year()),
		URL:      a.SiteURL,
		Cover:    a.CoverImage.Large,
		Value:    a,
	}
}

// MalAnime searches MyAnimeList by offset.
type MalAnime struct{}

func (MalAnime) Kind() Kind { return KindMal }

func (MalAnime) adapter(d *Deps) (search.Adapter[mal.Anime], error) {
	client, err := need(d.MAL, "mal")
	if err != nil {
		return nil, err
	}
	return &malAdapter{client: client, limit: min(d.pageSize(), mal.MaxLimit)}, nil
}

func (MalAnime) cursor() search.Cursor { return search.Offset() }

func (MalAnime) layers() []search.Layer[mal.Anime] {
	return []search.Layer[mal.Anime]{
		search.Dedup[mal.Anime, int](func(a mal.Anime) mo.Option[int] {
			if a.ID == 0 {
				return mo.None[int]()
			}
			return mo.Some(a.ID)
		}),
	}
}

func (MalAnime) remote() bool { return true }

func (MalAnime) entry(a mal.Anime) Entry {
	return Entry{
		Kind:     KindMal,
		ID:       strconv.Itoa(a.ID),
		Title:    a.Name(),
		Subtitle: strings.TrimSpace(a.MediaType + " " + yearOf(a.StartDate)),
		URL:      a.URL(),
		Cover:    a.MainPicture.Large,
		Value:    a,
	}
}

// Scripted searches a Lua catalog script by name.
type Scripted struct {
	Provider string
}

func (Scripted) Kind() Kind { return KindScripted }

func (t Scripted) adapter(d *Deps) (search.Adapter[provider.Item], error) {
	src, err := d.script(t.Provider)
	if err != nil {
		return nil, err
	}
	return &scriptedAdapter{source: src}, nil
}

func (Scripted) cursor() search.Cursor { return search.Pages(1) }

func (Scripted) layers() []search.Layer[provider.Item] {
	return []search.Layer[provider.Item]{search.Dedup(urlKey(func(i provider.Item) string { return i.URL }))}
}

func (Scripted) remote() bool { return true }

func (t Scripted) entry(i provider.Item) Entry {
	return Entry{
		Kind:     KindScripted,
		ID:       i.ID,
		Title:    i.Title,
		Subtitle: t.Provider,
		URL:      i.URL,
		Cover:    i.Cover,
		Value:    i,
	}
}

func urlKey[T any](url func(T) string) search.KeyFunc[T, string] {
	return func(item T) mo.Option[string] {
		if u := url(item); u != "" {
			return mo.Some(u)
		}
		return mo.None[string]()
	}
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func storedTachidesk[T any](d *Deps, facet store.Facet, m func(*tachidesk.Client) mirror) (search.Adapter[Stored[T]], error) {
	st, err := need(d.Store, "store")
	if err != nil {
		return nil, err
	}
	a := &storedAdapter[T]{store: st, facet: facet, limit: d.pageSize()}
	if d.Tachidesk != nil {
		a.mirror = m(d.Tachidesk)
	}
	return a, nil
}
