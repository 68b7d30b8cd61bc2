// Package anilist searches anime through the Anilist GraphQL API.
package anilist

import "fmt"

type date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Anime is one Anilist media entry of type ANIME.
type Anime struct {
	ID    int `json:"id" jsonschema:"description=ID of the anime on Anilist."`
	IDMal int `json:"idMal" jsonschema:"description=ID of the anime on MyAnimeList."`

	Title struct {
		Romaji  string `json:"romaji" jsonschema:"description=Romanized title of the anime."`
		English string `json:"english" jsonschema:"description=English title of the anime."`
		Native  string `json:"native" jsonschema:"description=Native title of the anime. Usually in kanji."`
	} `json:"title"`

	Description string `json:"description" jsonschema:"description=Description of the anime."`

	CoverImage struct {
		ExtraLarge string `json:"extraLarge" jsonschema:"description=URL of the extra large cover image."`
		Large      string `json:"large" jsonschema:"description=URL of the large cover image."`
		Medium     string `json:"medium" jsonschema:"description=URL of the medium cover image."`
		Color      string `json:"color" jsonschema:"description=Average color of the cover image."`
	} `json:"coverImage" jsonschema:"description=Cover image of the anime."`

	BannerImage string `json:"bannerImage" jsonschema:"description=Banner image of the anime."`

	Tags []struct {
		Name string `json:"name" jsonschema:"description=Name of the tag."`
		// Rank is how relevant the tag is, from 1 to 100.
		Rank int `json:"rank" jsonschema:"description=Rank of the tag from 1 to 100."`
	} `json:"tags"`

	Genres    []string `json:"genres" jsonschema:"description=Genres of the anime."`
	StartDate date     `json:"startDate" jsonschema:"description=Date the anime started airing."`
	Status    string   `json:"status" jsonschema:"enum=FINISHED,enum=RELEASING,enum=NOT_YET_RELEASED,enum=CANCELLED,enum=HIATUS"`
	Format    string   `json:"format" jsonschema:"description=TV, MOVIE, OVA and so on."`
	Synonyms  []string `json:"synonyms" jsonschema:"description=Alternative titles."`
	SiteURL   string   `json:"siteUrl" jsonschema:"description=URL of the anime on Anilist."`
	Episodes  int      `json:"episodes" jsonschema:"description=Total number of episodes when complete."`

	AverageScore int `json:"averageScore" jsonschema:"description=Average score of the anime on Anilist."`
}

// Name prefers the English title and falls back to Romaji.
func (m *Anime) Name() string {
	if m.Title.English == "" {
		return m.Title.Romaji
	}
	return m.Title.English
}

// Year returns the start year, or "" when unknown.
func (m *Anime) Year() string {
	if m.StartDate.Year == 0 {
		return ""
	}
	return fmt.Sprint(m.StartDate.Year)
}

// PageInfo is Anilist's pagination metadata.
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// Page is one page of search results.
type Page struct {
	PageInfo PageInfo `json:"pageInfo"`
	Media    []*Anime `json:"media"`
}
