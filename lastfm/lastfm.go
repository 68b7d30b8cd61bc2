// Package lastfm searches albums through the Last.fm web API.
package lastfm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/network"
)

// BaseURL is the production API endpoint.
const BaseURL = "https://ws.audioscrobbler.com/2.0/"

// ErrNoAPIKey is returned by every call made without an API key.
var ErrNoAPIKey = errors.New("lastfm: no api key configured")

// Image is one size of an album cover.
type Image struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

// Album is one album search match. Its URL is the only stable identity Last.fm gives.
type Album struct {
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	URL        string  `json:"url"`
	MBID       string  `json:"mbid,omitempty"`
	Streamable string  `json:"streamable,omitempty"`
	Images     []Image `json:"image,omitempty"`
}

// Cover returns the largest available cover, or "".
func (a Album) Cover() string {
	for _, size := range []string{"mega", "extralarge", "large", "medium", "small"} {
		if img, ok := lo.Find(a.Images, func(i Image) bool { return i.Size == size && i.URL != "" }); ok {
			return img.URL
		}
	}
	return ""
}

// AlbumResults is one page of an album search.
type AlbumResults struct {
	Matches      []Album
	Total        int
	StartIndex   int
	ItemsPerPage int
}

// HasNext reports whether a further page may hold more matches.
func (r AlbumResults) HasNext() bool {
	return r.ItemsPerPage > 0 && len(r.Matches) >= r.ItemsPerPage
}

// numbers arrive as strings
type albumSearchResponse struct {
	Results struct {
		Total        string `json:"opensearch:totalResults"`
		StartIndex   string `json:"opensearch:startIndex"`
		ItemsPerPage string `json:"opensearch:itemsPerPage"`
		AlbumMatches struct {
			Album []Album `json:"album"`
		} `json:"albummatches"`
	} `json:"results"`
}

// Client talks to the API with one key.
type Client struct {
	baseURL string
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// New returns a client using apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{baseURL: BaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchAlbum returns one page of albums matching album. Pages start at 1.
func (c *Client) SearchAlbum(ctx context.Context, album string, page int) (AlbumResults, error) {
	if c.apiKey == "" {
		return AlbumResults{}, ErrNoAPIKey
	}

	params := url.Values{
		"method":  {"album.search"},
		"album":   {album},
		"page":    {strconv.Itoa(page)},
		"api_key": {c.apiKey},
		"format":  {"json"},
	}

	var res albumSearchResponse
	if err := network.GetJSON(ctx, c.baseURL+"?"+params.Encode(), nil, &res); err != nil {
		return AlbumResults{}, fmt.Errorf("lastfm album.search: %w", err)
	}

	return AlbumResults{
		Matches:      lo.Ternary(res.Results.AlbumMatches.Album == nil, []Album{}, res.Results.AlbumMatches.Album),
		Total:        atoi(res.Results.Total),
		StartIndex:   atoi(res.Results.StartIndex),
		ItemsPerPage: atoi(res.Results.ItemsPerPage),
	}, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
