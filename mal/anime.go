// Package mal reads public anime listings from the MyAnimeList v2 API.
package mal

import "fmt"

// Picture holds the cover variants MAL serves.
type Picture struct {
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Anime is a MyAnimeList anime node with the fields requested by Fields.
type Anime struct {
	ID                int     `json:"id"`
	Title             string  `json:"title"`
	MainPicture       Picture `json:"main_picture"`
	AlternativeTitles struct {
		Synonyms []string `json:"synonyms"`
		En       string   `json:"en"`
		Ja       string   `json:"ja"`
	} `json:"alternative_titles"`
	StartDate    string  `json:"start_date"`
	Synopsis     string  `json:"synopsis"`
	Mean         float64 `json:"mean"`
	MediaType    string  `json:"media_type"`
	Status       string  `json:"status"`
	NumEpisodes  int     `json:"num_episodes"`
	StartSeason  *Season `json:"start_season,omitempty"`
	Genres       []Genre `json:"genres"`
	Popularity   int     `json:"popularity"`
	NumListUsers int     `json:"num_list_users"`
}

// Genre is a MAL genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season is a broadcast season, e.g. 2024 spring.
type Season struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
}

// Fields lists the optional fields every request asks for.
const Fields = "alternative_titles,start_date,synopsis,mean,media_type,status,num_episodes,start_season,genres,popularity,num_list_users"

// URL returns the public page of the anime.
func (a Anime) URL() string {
	return fmt.Sprintf("https://myanimelist.net/anime/%d", a.ID)
}

// Name prefers the English title.
func (a Anime) Name() string {
	if a.AlternativeTitles.En != "" {
		return a.AlternativeTitles.En
	}
	return a.Title
}

// Paging holds the links to neighbouring pages.
type Paging struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// ListResult is one page of anime nodes.
type ListResult struct {
	Data []struct {
		Node    Anime `json:"node"`
		Ranking *struct {
			Rank int `json:"rank"`
		} `json:"ranking,omitempty"`
	} `json:"data"`
	Paging Paging `json:"paging"`
}

// Page is a decoded ListResult.
type Page struct {
	Anime   []Anime
	HasNext bool
}

func (r ListResult) page() Page {
	anime := make([]Anime, 0, len(r.Data))
	for _, entry := range r.Data {
		anime = append(anime, entry.Node)
	}
	return Page{Anime: anime, HasNext: r.Paging.Next != ""}
}
