package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/cineniche/cineniche/internal/catalog"
	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/pagination"
	"github.com/cineniche/cineniche/internal/recommend"
)

// recommendedGenres are the genres that get their own personalised row.
var recommendedGenres = []string{"action", "comedies", "dramas"}

type browseSection struct {
	Genre   string          `json:"genre"`
	Name    string          `json:"name"`
	Titles  []*models.Title `json:"titles"`
	Total   int             `json:"total"`
	HasMore bool            `json:"has_more"`
}

type recommendedRow struct {
	Heading string          `json:"heading"`
	Titles  []*models.Title `json:"titles"`
}

type browseResponse struct {
	Category        string           `json:"category"`
	Genre           string           `json:"genre,omitempty"`
	Featured        []*models.Title  `json:"featured"`
	Recommended     []recommendedRow `json:"recommended"`
	Sections        []browseSection  `json:"sections"`
	TotalSections   int              `json:"total_sections"`
	VisibleSections int              `json:"visible_sections"`
	HasMoreSections bool             `json:"has_more_sections"`
}

type titleDetails struct {
	Title       *models.Title    `json:"title"`
	Recommended []recommendedRow `json:"recommended"`
}

// rowRequest describes one recommendation row to fetch.
type rowRequest struct {
	heading string
	fetch   func(ctx context.Context) []*models.Title
}

// fetchRows runs every row request concurrently and returns the non-empty
// rows in request order. All calls share ctx, so a client disconnect
// cancels them together.
func fetchRows(ctx context.Context, requests []rowRequest) []recommendedRow {
	results := make([][]*models.Title, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req rowRequest) {
			defer wg.Done()
			results[i] = req.fetch(ctx)
		}(i, req)
	}
	wg.Wait()

	rows := []recommendedRow{}
	if ctx.Err() != nil {
		return rows
	}
	for i, titles := range results {
		if len(titles) == 0 {
			continue
		}
		rows = append(rows, recommendedRow{Heading: requests[i].heading, Titles: titles})
	}
	return rows
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	// The catalog must be loaded before any recommendation call is made.
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	cfg := s.app.Config()
	svc := s.app.Catalog()
	q := r.URL.Query()

	resp := browseResponse{Category: categoryName(q.Get("category"))}
	titles := catalog.FilterCategory(snap.Titles, resp.Category)

	if raw := strings.TrimSpace(q.Get("genre")); raw != "" {
		key := genre.Canonical(raw)
		if !svc.Priority().Contains(key) && key != genre.Canonical(svc.Fallback()) {
			RespondWithError(w, http.StatusBadRequest, "Unknown genre")
			return
		}
		resp.Genre = key
		if key == genre.Canonical(svc.Fallback()) {
			key = svc.Fallback()
		}
		titles = catalog.FilterGenre(titles, key)
	}

	featured := min(max(cfg.Browse.Featured, 0), len(titles))
	resp.Featured = nonNil(titles[:featured])

	buckets := catalog.ByGenre(titles, svc.Priority(), svc.Fallback())
	sections := &pagination.Window{Total: len(buckets), Step: cfg.Browse.SectionStep}
	sections.AdvanceTo(queryInt(r, "sections", cfg.Browse.InitialSections))
	itemsVisible := queryInt(r, "items", cfg.Browse.ItemStep)

	resp.Sections = make([]browseSection, 0, sections.Visible)
	for _, b := range pagination.Visible(sections, buckets) {
		items := pagination.NewWindow(len(b.Titles), cfg.Browse.ItemStep)
		items.AdvanceTo(itemsVisible)
		resp.Sections = append(resp.Sections, browseSection{
			Genre:   b.Genre,
			Name:    b.Name,
			Titles:  pagination.Visible(items, b.Titles),
			Total:   len(b.Titles),
			HasMore: items.HasMore(),
		})
	}
	resp.TotalSections = sections.Total
	resp.VisibleSections = sections.Visible
	resp.HasMoreSections = sections.HasMore()

	resp.Recommended = []recommendedRow{}
	if session := getSessionFromContext(r); session != nil {
		resp.Recommended = fetchRows(r.Context(), s.browseRows(titles, resp.Genre, session.UserID))
	}
	RespondWithJSON(w, http.StatusOK, resp)
}

// browseRows lists the recommendation rows for a browse page: the general
// row plus one per recommended genre when no genre is selected, or the
// selected genre's row.
func (s *Server) browseRows(titles []*models.Title, selected string, userID int64) []rowRequest {
	recs := s.app.Recommender()
	genreRow := func(key string) rowRequest {
		return rowRequest{
			heading: "Recommended " + genre.FormatName(key) + " For You",
			fetch: func(ctx context.Context) []*models.Title {
				return recs.GenreTitles(ctx, titles, key, userID)
			},
		}
	}

	if selected != "" {
		for _, key := range recommendedGenres {
			if key == selected {
				return []rowRequest{genreRow(key)}
			}
		}
		return nil
	}

	rows := []rowRequest{{
		heading: "Recommended For You",
		fetch: func(ctx context.Context) []*models.Title {
			return recs.BrowseTitles(ctx, titles, userID)
		},
	}}
	for _, key := range recommendedGenres {
		rows = append(rows, genreRow(key))
	}
	return rows
}

func (s *Server) handleGetTitle(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	title, ok := catalog.FindBySlug(snap.Titles, chi.URLParam(r, "slug"))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Title not found")
		return
	}

	recs := s.app.Recommender()
	detailsRow := func(heading, kind string) rowRequest {
		return rowRequest{
			heading: heading,
			fetch: func(ctx context.Context) []*models.Title {
				return recs.DetailsTitles(ctx, snap.Titles, kind, title.ShowID)
			},
		}
	}
	rows := []rowRequest{
		detailsRow("More Like This", recommend.KindContent),
		detailsRow("Others Also Liked", recommend.KindCollab),
	}
	switch title.Genre {
	case "action":
		rows = append(rows, detailsRow("More Action", recommend.KindAction))
	case "comedies":
		rows = append(rows, detailsRow("More Comedies", recommend.KindComedy))
	case "dramas":
		rows = append(rows, detailsRow("More Dramas", recommend.KindDrama))
	}

	RespondWithJSON(w, http.StatusOK, titleDetails{
		Title:       title,
		Recommended: fetchRows(r.Context(), rows),
	})
}
