// This file defines the catalog records served by the backend and the
// derived view models handed to the browse pages.

package models

import (
	"encoding/json"
	"strconv"

	"github.com/cineniche/cineniche/internal/genre"
)

// Content type discriminators used by the catalog.
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// catalogFields are the JSON keys that are not genre flags.
var catalogFields = map[string]bool{
	"show_id": true, "type": true, "title": true, "director": true, "cast": true,
	"country": true, "release_year": true, "rating": true, "duration": true,
	"description": true,
}

// CatalogItem is one movie or TV show record. On the wire the genre flags
// are flat top-level keys ("action": 1) next to the descriptive fields.
type CatalogItem struct {
	ShowID      string         `json:"show_id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Director    string         `json:"director,omitempty"`
	Cast        string         `json:"cast,omitempty"`
	Country     string         `json:"country,omitempty"`
	ReleaseYear int            `json:"release_year,omitempty"`
	Rating      string         `json:"rating,omitempty"`
	Duration    string         `json:"duration,omitempty"`
	Description string         `json:"description"`
	Genres      map[string]int `json:"-"`
}

// IsFilm reports whether the item is a movie rather than a series.
func (c *CatalogItem) IsFilm() bool {
	return c.Type == TypeMovie
}

// SetGenre sets or clears a single genre flag.
func (c *CatalogItem) SetGenre(key string, on bool) {
	if c.Genres == nil {
		c.Genres = make(map[string]int)
	}
	key = genre.Canonical(key)
	if on {
		c.Genres[key] = 1
	} else {
		delete(c.Genres, key)
	}
}

// MarshalJSON flattens the genre flags into the record.
func (c CatalogItem) MarshalJSON() ([]byte, error) {
	type base CatalogItem
	raw, err := json.Marshal(base(c))
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range c.Genres {
		if _, taken := out[k]; taken {
			continue
		}
		out[k] = json.RawMessage(strconv.Itoa(v))
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat wire form. Every numeric or boolean key that
// is not a descriptive field is taken as a genre flag.
func (c *CatalogItem) UnmarshalJSON(data []byte) error {
	type base CatalogItem
	var b base
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Genres = make(map[string]int)
	for k, v := range raw {
		if catalogFields[k] {
			continue
		}
		if flag, ok := parseFlag(v); ok {
			b.Genres[genre.Canonical(k)] = flag
		}
	}
	*c = CatalogItem(b)
	return nil
}

func parseFlag(v json.RawMessage) (int, bool) {
	var value any
	if err := json.Unmarshal(v, &value); err != nil {
		return 0, false
	}
	switch t := value.(type) {
	case float64:
		if t == 1 {
			return 1, true
		}
		return 0, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Title is the view model built from a CatalogItem for browse and detail
// pages.
type Title struct {
	ShowID          string `json:"show_id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Director        string `json:"director,omitempty"`
	Cast            string `json:"cast,omitempty"`
	Country         string `json:"country,omitempty"`
	ReleaseYear     int    `json:"release_year,omitempty"`
	Rating          string `json:"rating,omitempty"`
	Duration        string `json:"duration,omitempty"`
	Genre           string `json:"genre"`
	GenreName       string `json:"genre_name"`
	Slug            string `json:"slug"`
	PosterFile      string `json:"poster_file"`
	PosterAvailable bool   `json:"poster_available"`

	Item *CatalogItem `json:"-"`
}

// IsFilm reports whether the title is a movie rather than a series.
func (t *Title) IsFilm() bool {
	return t.Type == TypeMovie
}
