// Package tachidesk is a client for the REST API of a Tachidesk (Suwayomi) server.
package tachidesk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maypok86/otter"
	"github.com/samber/lo"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/network"
)

// DefaultURL is where a local Tachidesk server listens by default.
const DefaultURL = "http://localhost:4567"

const cacheTTL = 10 * time.Minute

// otter turns small caches away entirely, so even the single source list
// gets room for a hundred entries.
const sourceCacheSize = 100

// Client talks to one Tachidesk server.
//
// Source lists and manga details change rarely, so they are cached in memory.
// Extension actions drop the cached source list.
type Client struct {
	base    string
	sources otter.Cache[string, []Source]
	mangas  otter.Cache[int, Manga]
}

// New returns a client for the server at baseURL.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	sources, err := otter.MustBuilder[string, []Source](sourceCacheSize).WithTTL(cacheTTL).Build()
	if err != nil {
		return nil, fmt.Errorf("build source cache: %w", err)
	}
	mangas, err := otter.MustBuilder[int, Manga](1000).WithTTL(cacheTTL).Build()
	if err != nil {
		return nil, fmt.Errorf("build manga cache: %w", err)
	}

	return &Client{
		base:    strings.TrimSuffix(baseURL, "/") + "/api/v1",
		sources: sources,
		mangas:  mangas,
	}, nil
}

// Close releases the caches.
func (c *Client) Close() {
	c.sources.Close()
	c.mangas.Close()
}

// Extensions lists every extension the server knows, installed or not.
func (c *Client) Extensions(ctx context.Context) ([]Extension, error) {
	var exts []Extension
	err := c.get(ctx, "/extension/list", &exts)
	return exts, err
}

// ExtensionAction installs, updates or uninstalls an extension.
// It returns once the server finished the action.
func (c *Client) ExtensionAction(ctx context.Context, pkgName string, action ExtensionAction) error {
	if !action.Valid() {
		return fmt.Errorf("unknown extension action %q", action)
	}

	if err := c.get(ctx, fmt.Sprintf("/extension/%s/%s", action, url.PathEscape(pkgName)), nil); err != nil {
		return err
	}

	c.sources.Clear()
	log.Infof("tachidesk: %s %s done", action, pkgName)
	return nil
}

// ExtensionIconURL returns the icon of an extension, addressed by apk name.
func (c *Client) ExtensionIconURL(apkName string) string {
	return c.base + "/extension/icon/" + url.PathEscape(apkName)
}

// Sources lists the sources of installed extensions.
func (c *Client) Sources(ctx context.Context) ([]Source, error) {
	if cached, ok := c.sources.Get("all"); ok {
		return cached, nil
	}

	var sources []Source
	if err := c.get(ctx, "/source/list", &sources); err != nil {
		return nil, err
	}
	c.sources.Set("all", sources)
	return sources, nil
}

// Source looks a source up by id.
func (c *Client) Source(ctx context.Context, id string) (Source, error) {
	sources, err := c.Sources(ctx)
	if err != nil {
		return Source{}, err
	}
	src, ok := lo.Find(sources, func(s Source) bool { return s.ID == id })
	if !ok {
		return Source{}, fmt.Errorf("tachidesk: no source with id %s", id)
	}
	return src, nil
}

// SourceFilters lists the search filters of a source.
func (c *Client) SourceFilters(ctx context.Context, sourceID string) ([]SourceFilter, error) {
	var filters []SourceFilter
	err := c.get(ctx, fmt.Sprintf("/source/%s/filters", url.PathEscape(sourceID)), &filters)
	return filters, err
}

// Popular returns a page of the source's popular listing. Pages start at 1.
func (c *Client) Popular(ctx context.Context, sourceID string, page int) (MangaListPage, error) {
	return c.listing(ctx, fmt.Sprintf("/source/%s/popular/%d", url.PathEscape(sourceID), page))
}

// Latest returns a page of the source's latest updates.
func (c *Client) Latest(ctx context.Context, sourceID string, page int) (MangaListPage, error) {
	return c.listing(ctx, fmt.Sprintf("/source/%s/latest/%d", url.PathEscape(sourceID), page))
}

// Search returns a page of the source's results for query.
func (c *Client) Search(ctx context.Context, sourceID, query string, page int) (MangaListPage, error) {
	params := url.Values{
		"searchTerm": {query},
		"pageNum":    {strconv.Itoa(page)},
	}
	return c.listing(ctx, fmt.Sprintf("/source/%s/search?%s", url.PathEscape(sourceID), params.Encode()))
}

func (c *Client) listing(ctx context.Context, path string) (MangaListPage, error) {
	var page MangaListPage
	if err := c.get(ctx, path, &page); err != nil {
		return MangaListPage{}, err
	}
	if page.MangaList == nil {
		page.MangaList = []Manga{}
	}
	for _, m := range page.MangaList {
		c.mangas.Set(m.ID, m)
	}
	return page, nil
}

// Manga returns a manga by id.
func (c *Client) Manga(ctx context.Context, id int) (Manga, error) {
	if cached, ok := c.mangas.Get(id); ok && cached.Initialized {
		return cached, nil
	}

	var m Manga
	if err := c.get(ctx, fmt.Sprintf("/manga/%d", id), &m); err != nil {
		return Manga{}, err
	}
	c.mangas.Set(id, m)
	return m, nil
}

// ThumbnailURL returns the cover of a manga as served by Tachidesk.
func (c *Client) ThumbnailURL(mangaID int) string {
	return fmt.Sprintf("%s/manga/%d/thumbnail", c.base, mangaID)
}

// Chapters lists the chapters of a manga.
func (c *Client) Chapters(ctx context.Context, mangaID int) ([]Chapter, error) {
	var chapters []Chapter
	err := c.get(ctx, fmt.Sprintf("/manga/%d/chapters", mangaID), &chapters)
	return chapters, err
}

// Chapter fetches one chapter by its index, which also tells the server to load its pages.
func (c *Client) Chapter(ctx context.Context, mangaID, index int) (Chapter, error) {
	var ch Chapter
	err := c.get(ctx, fmt.Sprintf("/manga/%d/chapter/%d", mangaID, index), &ch)
	return ch, err
}

// PageURL returns the image of one page of a chapter. Pages start at 0.
func (c *Client) PageURL(mangaID, chapterIndex, page int) string {
	return fmt.Sprintf("%s/manga/%d/chapter/%d/page/%d", c.base, mangaID, chapterIndex, page)
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	if err := network.GetJSON(ctx, c.base+path, http.Header{}, v); err != nil {
		return fmt.Errorf("tachidesk: %w", err)
	}
	return nil
}
