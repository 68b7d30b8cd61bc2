package mal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/network"
)

// BaseURL is the v2 API root.
const BaseURL = "https://api.myanimelist.net/v2"

// MaxLimit is the largest page MAL serves for listings.
const MaxLimit = 100

// ErrNoClientID is returned by every call made without a client id.
var ErrNoClientID = errors.New("mal: no client id configured")

// Seasons in broadcast order.
var Seasons = []string{"winter", "spring", "summer", "fall"}

// Client reads public data with an app client id. No user token is needed.
type Client struct {
	baseURL  string
	clientID string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// New returns a client identified by clientID.
func New(clientID string, opts ...Option) *Client {
	c := &Client{baseURL: BaseURL, clientID: clientID}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns anime whose title matches q. MAL rejects queries shorter
// than three characters, so those fall back to the ranking.
func (c *Client) Search(ctx context.Context, q string, limit, offset int) (Page, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 3 {
		return c.Ranking(ctx, "bypopularity", limit, offset)
	}
	return c.list(ctx, "/anime", url.Values{"q": {q}}, limit, offset)
}

// Ranking lists anime by one of MAL's ranking types, e.g. "all" or "bypopularity".
func (c *Client) Ranking(ctx context.Context, rankingType string, limit, offset int) (Page, error) {
	return c.list(ctx, "/anime/ranking", url.Values{"ranking_type": {rankingType}}, limit, offset)
}

// Seasonal lists the anime of one broadcast season, most watched first.
func (c *Client) Seasonal(ctx context.Context, season Season, limit, offset int) (Page, error) {
	if !lo.Contains(Seasons, season.Season) {
		return Page{}, fmt.Errorf("mal: unknown season %q", season.Season)
	}
	path := fmt.Sprintf("/anime/season/%d/%s", season.Year, season.Season)
	return c.list(ctx, path, url.Values{"sort": {"anime_num_list_users"}}, limit, offset)
}

// Anime returns one anime, from the cache when it was listed recently.
func (c *Client) Anime(ctx context.Context, id int) (Anime, error) {
	if anime, ok := idCache.Get(id).Get(); ok {
		return anime, nil
	}

	var anime Anime
	if err := c.get(ctx, "/anime/"+strconv.Itoa(id), url.Values{"fields": {Fields}}, &anime); err != nil {
		return Anime{}, err
	}
	_ = idCache.Set(anime)
	return anime, nil
}

func (c *Client) list(ctx context.Context, path string, params url.Values, limit, offset int) (Page, error) {
	params.Set("limit", strconv.Itoa(min(max(limit, 1), MaxLimit)))
	params.Set("offset", strconv.Itoa(max(offset, 0)))
	params.Set("fields", Fields)

	var result ListResult
	if err := c.get(ctx, path, params, &result); err != nil {
		return Page{}, err
	}

	page := result.page()
	log.Debugf("mal %s offset %d: %d anime, more: %t", path, offset, len(page.Anime), page.HasNext)
	_ = idCache.Set(page.Anime...)
	return page, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if c.clientID == "" {
		return ErrNoClientID
	}

	header := http.Header{}
	header.Set("X-MAL-CLIENT-ID", c.clientID)
	if err := network.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), header, v); err != nil {
		return fmt.Errorf("mal %s: %w", path, err)
	}
	return nil
}

