package anilist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/network"
)

// BaseURL is the GraphQL endpoint.
const BaseURL = "https://graphql.anilist.co"

// PerPage is how many entries one search page asks for.
const PerPage = 30

// ErrNotFound is returned by GetByID for unknown ids.
var ErrNotFound = errors.New("anilist: anime not found")

type graphqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type pageResponse struct {
	Data struct {
		Page Page `json:"Page"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type mediaResponse struct {
	Data struct {
		Media *Anime `json:"Media"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// Client queries one Anilist endpoint.
type Client struct {
	endpoint string
	cached   bool
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.endpoint = u
	}
}

// WithoutCache disables the on-disk page and id caches.
func WithoutCache() Option {
	return func(c *Client) {
		c.cached = false
	}
}

// New returns a client for the public API.
func New(opts ...Option) *Client {
	c := &Client{endpoint: BaseURL, cached: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func normalizedName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func pageKey(query string, page int) string {
	return fmt.Sprintf("%d:%s", page, normalizedName(query))
}

// SearchPage returns one page of anime matching query. An empty query lists
// anime by popularity. Pages start at 1.
func (c *Client) SearchPage(ctx context.Context, query string, page int) (Page, error) {
	query = normalizedName(query)
	page = max(page, 1)

	if c.cached {
		if p, ok := c.fromCache(query, page); ok {
			return p, nil
		}
	}

	variables := map[string]any{
		"page":    page,
		"perPage": PerPage,
		"sort":    []string{"POPULARITY_DESC"},
	}
	if query != "" {
		variables["search"] = query
		variables["sort"] = []string{"SEARCH_MATCH"}
	}

	log.Debugf("searching anilist for %q, page %d", query, page)
	var response pageResponse
	if err := c.post(ctx, searchPageQuery, variables, &response); err != nil {
		return Page{}, err
	}
	if err := responseError(response.Errors); err != nil {
		return Page{}, err
	}

	result := response.Data.Page
	result.Media = lo.Filter(result.Media, func(a *Anime, _ int) bool { return a != nil })
	log.Infof("anilist page %d for %q: %d entries", page, query, len(result.Media))

	if c.cached {
		for _, anime := range result.Media {
			_ = idCacher.Set(anime.ID, anime)
		}
		_ = pageCacher.Set(pageKey(query, page), cachedPage{
			IDs:  lo.Map(result.Media, func(a *Anime, _ int) int { return a.ID }),
			Info: result.PageInfo,
		})
	}
	return result, nil
}

// fromCache rebuilds a page from cached ids. Any missing entry makes the whole page a miss.
func (c *Client) fromCache(query string, page int) (Page, bool) {
	cached, ok := pageCacher.Get(pageKey(query, page)).Get()
	if !ok {
		return Page{}, false
	}

	media := make([]*Anime, 0, len(cached.IDs))
	for _, id := range cached.IDs {
		anime, ok := idCacher.Get(id).Get()
		if !ok {
			_ = pageCacher.Delete(pageKey(query, page))
			return Page{}, false
		}
		media = append(media, anime)
	}
	return Page{PageInfo: cached.Info, Media: media}, true
}

// GetByID returns the anime with the given id.
func (c *Client) GetByID(ctx context.Context, id int) (*Anime, error) {
	if c.cached {
		if anime, ok := idCacher.Get(id).Get(); ok {
			return anime, nil
		}
	}

	var response mediaResponse
	if err := c.post(ctx, searchByIDQuery, map[string]any{"id": id}, &response); err != nil {
		var status *network.StatusError
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}
	if err := responseError(response.Errors); err != nil {
		return nil, err
	}

	anime := response.Data.Media
	if anime == nil {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if c.cached {
		_ = idCacher.Set(id, anime)
	}
	return anime, nil
}

func (c *Client) post(ctx context.Context, query string, variables map[string]any, v any) error {
	body := map[string]any{
		"query":     query,
		"variables": variables,
	}
	if err := network.PostJSON(ctx, c.endpoint, nil, body, v); err != nil {
		return fmt.Errorf("anilist: %w", err)
	}
	return nil
}

func responseError(errs []graphqlError) error {
	if len(errs) == 0 {
		return nil
	}
	if lo.SomeBy(errs, func(e graphqlError) bool { return e.Status == http.StatusNotFound }) {
		return ErrNotFound
	}
	return fmt.Errorf("anilist: %s", errs[0].Message)
}
