// Package tmdb is a small client for The Movie Database search API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/network"
)

// BaseURL is the production API root.
const BaseURL = "https://api.themoviedb.org/3/"

// ImageBaseURL prefixes poster and backdrop paths.
const ImageBaseURL = "https://image.tmdb.org/t/p/"

// ErrNoAPIKey is returned by every call made without an API key.
var ErrNoAPIKey = errors.New("tmdb: no api key configured")

// MediaType tells movies and tv shows apart.
type MediaType string

const (
	Movie  MediaType = "movie"
	TV     MediaType = "tv"
	Person MediaType = "person"
)

// MultiSearchResult is a movie or a tv show. Fields of the other kind stay empty.
type MultiSearchResult struct {
	ID               int       `json:"id"`
	MediaType        MediaType `json:"media_type"`
	Adult            bool      `json:"adult"`
	Title            string    `json:"title,omitempty"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	Name             string    `json:"name,omitempty"`
	OriginalName     string    `json:"original_name,omitempty"`
	FirstAirDate     string    `json:"first_air_date,omitempty"`
	Overview         string    `json:"overview"`
	OriginalLanguage string    `json:"original_language"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	GenreIDs         []int     `json:"genre_ids,omitempty"`
	Popularity       float64   `json:"popularity"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count"`
}

// DisplayTitle returns the title of a movie or the name of a show.
func (r MultiSearchResult) DisplayTitle() string {
	return lo.Ternary(r.MediaType == TV, r.Name, r.Title)
}

// Year returns the release or first air year, if known.
func (r MultiSearchResult) Year() string {
	date := lo.Ternary(r.MediaType == TV, r.FirstAirDate, r.ReleaseDate)
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// URL returns the public page of the result.
func (r MultiSearchResult) URL() string {
	return fmt.Sprintf("https://www.themoviedb.org/%s/%d", r.MediaType, r.ID)
}

// PosterURL returns the poster at the given size, e.g. "w342", or "" if there is none.
func (r MultiSearchResult) PosterURL(size string) string {
	if r.PosterPath == "" {
		return ""
	}
	return ImageBaseURL + size + r.PosterPath
}

// ListResults is one page of a paginated endpoint.
type ListResults[T any] struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Results      []T `json:"results"`
}

// ID addresses a movie or a show.
type ID struct {
	Type MediaType
	ID   int
}

// ExternalIDs links a title to other catalogs.
type ExternalIDs struct {
	ID          int    `json:"id"`
	IMDbID      string `json:"imdb_id,omitempty"`
	TVDBID      int    `json:"tvdb_id,omitempty"`
	WikidataID  string `json:"wikidata_id,omitempty"`
	FacebookID  string `json:"facebook_id,omitempty"`
	InstagramID string `json:"instagram_id,omitempty"`
	TwitterID   string `json:"twitter_id,omitempty"`
}

// Client talks to the API with one key.
type Client struct {
	baseURL string
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/") + "/"
	}
}

// New returns a client using apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{baseURL: BaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchMulti searches movies and tv shows at once. People are dropped from
// the results, so a page may hold fewer entries than TMDB's page size while
// more pages still follow. An empty query matches nothing.
func (c *Client) SearchMulti(ctx context.Context, query string, page int, includeAdult bool) (ListResults[MultiSearchResult], error) {
	if strings.TrimSpace(query) == "" {
		return ListResults[MultiSearchResult]{Page: page, Results: []MultiSearchResult{}}, nil
	}

	params := url.Values{
		"page":          {strconv.Itoa(page)},
		"include_adult": {strconv.FormatBool(includeAdult)},
		"query":         {query},
	}

	var raw ListResults[json.RawMessage]
	if err := c.get(ctx, "search/multi", params, &raw); err != nil {
		return ListResults[MultiSearchResult]{}, err
	}

	results := make([]MultiSearchResult, 0, len(raw.Results))
	for _, entry := range raw.Results {
		var r MultiSearchResult
		if err := json.Unmarshal(entry, &r); err != nil {
			return ListResults[MultiSearchResult]{}, fmt.Errorf("decode multi search result: %w", err)
		}
		if r.MediaType == "" || r.MediaType == Person {
			continue
		}
		results = append(results, r)
	}

	log.Debugf("tmdb page %d/%d for %q: %d titles", raw.Page, raw.TotalPages, query, len(results))
	return ListResults[MultiSearchResult]{
		Page:         raw.Page,
		TotalPages:   raw.TotalPages,
		TotalResults: raw.TotalResults,
		Results:      results,
	}, nil
}

// ExternalIDs returns the ids other catalogs use for the title.
func (c *Client) ExternalIDs(ctx context.Context, id ID) (ExternalIDs, error) {
	var ids ExternalIDs
	err := c.get(ctx, fmt.Sprintf("%s/%d/external_ids", id.Type, id.ID), url.Values{}, &ids)
	return ids, err
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	params.Set("api_key", c.apiKey)
	params.Set("language", "en-US")

	if err := network.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), nil, v); err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	return nil
}
