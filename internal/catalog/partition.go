// Package catalog turns raw catalog records into browse view models and
// keeps the in-memory snapshot served by the API.
package catalog

import (
	"strings"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/util"
)

// PosterIndex reports whether a poster file exists.
type PosterIndex interface {
	Has(file string) bool
}

// GenreBucket groups the titles that normalize to one genre.
type GenreBucket struct {
	Genre  string          `json:"genre"`
	Name   string          `json:"name"`
	Titles []*models.Title `json:"titles"`
}

// BuildTitles derives one view model per item, in catalog order.
func BuildTitles(items []*models.CatalogItem, priority genre.Priority, fallback string, posters PosterIndex) []*models.Title {
	titles := make([]*models.Title, 0, len(items))
	for _, item := range items {
		titles = append(titles, BuildTitle(item, priority, fallback, posters))
	}
	return titles
}

// BuildTitle derives the view model of a single item.
func BuildTitle(item *models.CatalogItem, priority genre.Priority, fallback string, posters PosterIndex) *models.Title {
	g := priority.Normalize(item.Genres, fallback)
	t := &models.Title{
		ShowID:      item.ShowID,
		Type:        item.Type,
		Title:       item.Title,
		Description: item.Description,
		Director:    item.Director,
		Cast:        item.Cast,
		Country:     item.Country,
		ReleaseYear: item.ReleaseYear,
		Rating:      item.Rating,
		Duration:    item.Duration,
		Genre:       g,
		GenreName:   genre.FormatName(g),
		Slug:        util.Slugify(item.Title),
		PosterFile:  util.PosterFile(item.Title),
		Item:        item,
	}
	if posters != nil {
		t.PosterAvailable = posters.Has(t.PosterFile)
	}
	return t
}

// ByGenre buckets titles by their normalized genre. Buckets follow the
// priority order with the fallback bucket last, empty buckets are left
// out, and titles keep their catalog order inside a bucket.
func ByGenre(titles []*models.Title, priority genre.Priority, fallback string) []GenreBucket {
	groups := make(map[string][]*models.Title)
	for _, t := range titles {
		groups[t.Genre] = append(groups[t.Genre], t)
	}

	order := append(priority.Keys(), fallback)
	buckets := make([]GenreBucket, 0, len(groups))
	seen := make(map[string]bool, len(order))
	for _, key := range order {
		if seen[key] || len(groups[key]) == 0 {
			continue
		}
		seen[key] = true
		buckets = append(buckets, GenreBucket{Genre: key, Name: genre.FormatName(key), Titles: groups[key]})
	}

	// Titles normalized under an older priority list still need a home.
	for _, t := range titles {
		if seen[t.Genre] {
			continue
		}
		seen[t.Genre] = true
		buckets = append(buckets, GenreBucket{Genre: t.Genre, Name: genre.FormatName(t.Genre), Titles: groups[t.Genre]})
	}
	return buckets
}

// ByType splits titles into films and series, keeping catalog order.
func ByType(titles []*models.Title) (films, series []*models.Title) {
	for _, t := range titles {
		if t.IsFilm() {
			films = append(films, t)
		} else {
			series = append(series, t)
		}
	}
	return films, series
}

// FindBySlug returns the first title in catalog order with the given slug.
func FindBySlug(titles []*models.Title, slug string) (*models.Title, bool) {
	for _, t := range titles {
		if t.Slug == slug {
			return t, true
		}
	}
	return nil, false
}

// FindByShowID returns the title with the given identifier.
func FindByShowID(titles []*models.Title, showID string) (*models.Title, bool) {
	for _, t := range titles {
		if t.ShowID == showID {
			return t, true
		}
	}
	return nil, false
}

// Search returns titles whose name contains query, ignoring case.
func Search(titles []*models.Title, query string) []*models.Title {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []*models.Title
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t.Title), query) {
			out = append(out, t)
		}
	}
	return out
}

// FilterGenre keeps the titles whose normalized genre is key.
func FilterGenre(titles []*models.Title, key string) []*models.Title {
	var out []*models.Title
	for _, t := range titles {
		if t.Genre == key {
			out = append(out, t)
		}
	}
	return out
}

// FilterCategory narrows titles to "films", "series" or anything else for all.
func FilterCategory(titles []*models.Title, category string) []*models.Title {
	films, series := ByType(titles)
	switch strings.ToLower(category) {
	case "films", "movies":
		return films
	case "series", "tv":
		return series
	}
	return titles
}
