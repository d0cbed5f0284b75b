package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/catalog"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/pagination"
	"github.com/cineniche/cineniche/internal/posters"
)

type genreSummary struct {
	Genre string `json:"genre"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Titles  []*models.Title `json:"titles"`
	Total   int             `json:"total"`
	HasMore bool            `json:"has_more"`
}

// snapshot loads the current catalog or writes a 500 and returns nil.
func (s *Server) snapshot(w http.ResponseWriter) *catalog.Snapshot {
	snap, err := s.app.Catalog().Snapshot()
	if err != nil {
		log.Errorf("Failed to load catalog: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to load catalog")
		return nil
	}
	return snap
}

// nonNil keeps empty lists from encoding as null.
func nonNil(titles []*models.Title) []*models.Title {
	if titles == nil {
		return []*models.Title{}
	}
	return titles
}

// queryInt reads a positive integer query parameter, or def when absent or invalid.
func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func (s *Server) handleGetMovieTitles(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	items := snap.Items
	if items == nil {
		items = []*models.CatalogItem{}
	}
	RespondWithJSON(w, http.StatusOK, items)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	titles := catalog.FilterCategory(snap.Titles, r.URL.Query().Get("category"))
	buckets := catalog.ByGenre(titles, s.app.Catalog().Priority(), s.app.Catalog().Fallback())
	out := make([]genreSummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, genreSummary{Genre: b.Genre, Name: b.Name, Count: len(b.Titles)})
	}
	RespondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	query := r.URL.Query().Get("query")
	matches := catalog.Search(snap.Titles, query)

	window := pagination.NewWindow(len(matches), s.app.Config().Browse.ItemStep)
	window.AdvanceTo(queryInt(r, "visible", 0))
	RespondWithJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Titles:  nonNil(pagination.Visible(window, matches)),
		Total:   len(matches),
		HasMore: window.HasMore(),
	})
}

func (s *Server) handleGetPoster(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	manifest := s.app.Posters()
	cfg := s.app.Config()

	file := ""
	if title, ok := catalog.FindBySlug(snap.Titles, chi.URLParam(r, "slug")); ok && manifest.Has(title.PosterFile) {
		file = title.PosterFile
	} else if cfg.Posters.Fallback != "" && manifest.Has(cfg.Posters.Fallback) {
		file = cfg.Posters.Fallback
	}
	path, ok := manifest.Path(file)
	if file == "" || !ok {
		RespondWithError(w, http.StatusNotFound, "Poster not found")
		return
	}

	widthParam := r.URL.Query().Get("w")
	if widthParam == "" {
		http.ServeFile(w, r, path)
		return
	}
	width, err := strconv.ParseUint(widthParam, 10, 32)
	if err != nil || width == 0 || width > posters.MaxThumbnailWidth {
		RespondWithError(w, http.StatusBadRequest, "Invalid thumbnail width")
		return
	}

	data, err := s.app.Thumbnails().Get(file, uint(width), func() ([]byte, error) {
		return os.ReadFile(path)
	})
	if err != nil {
		log.Warnf("Failed to render thumbnail for %s: %v", file, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to render poster")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int((24*time.Hour).Seconds())))
	w.Write(data)
}

// categoryName normalizes the browse category parameter.
func categoryName(raw string) string {
	switch strings.ToLower(raw) {
	case "films", "movies":
		return "films"
	case "series", "tv":
		return "series"
	}
	return "all"
}
