package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/metrics"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/pagination"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/util"
	"github.com/cineniche/cineniche/internal/validation"
)

type titlePage struct {
	Titles     []*models.CatalogItem `json:"titles"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	Total      int                   `json:"total"`
	TotalPages int                   `json:"total_pages"`
}

// pagerFromRequest builds a Pager from the page and page_size query
// parameters. page_size=-1 shows every row.
func (s *Server) pagerFromRequest(r *http.Request, total int) *pagination.Pager {
	size := s.app.Config().Admin.PageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && (v > 0 || v == pagination.All) {
			size = v
		}
	}
	p := pagination.NewPager(total, size)
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		p.Goto(page)
	}
	return p
}

func itemFromInput(in *validation.TitleInput) *models.CatalogItem {
	item := &models.CatalogItem{
		ShowID:      strings.TrimSpace(in.ShowID),
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Director:    in.Director,
		Cast:        in.Cast,
		Country:     in.Country,
		ReleaseYear: in.ReleaseYear,
		Rating:      in.Rating,
		Duration:    in.Duration,
		Description: in.Description,
	}
	for key, v := range in.Genres {
		item.SetGenre(key, v == 1)
	}
	return item
}

func decodeTitleInput(w http.ResponseWriter, r *http.Request) (*validation.TitleInput, bool) {
	var payload validation.TitleInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	if verr := validation.Struct(&payload); verr != nil {
		RespondWithErrors(w, http.StatusBadRequest, verr.Messages)
		return nil, false
	}
	return &payload, true
}

// catalogChanged drops the cached catalog after an admin write.
func (s *Server) catalogChanged() {
	s.app.Catalog().Invalidate()
	if titles, err := s.app.Catalog().Titles(); err == nil {
		metrics.CatalogTitles.Set(float64(len(titles)))
	}
}

// sortItems orders a copy of items by show id or title, in natural order
// so s2 comes before s10. Any other key keeps catalog order.
func sortItems(items []*models.CatalogItem, key string) []*models.CatalogItem {
	var field func(*models.CatalogItem) string
	switch key {
	case "show_id":
		field = func(i *models.CatalogItem) string { return i.ShowID }
	case "title":
		field = func(i *models.CatalogItem) string { return i.Title }
	default:
		return items
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *models.CatalogItem) int {
		switch {
		case util.NaturalSortLess(field(a), field(b)):
			return -1
		case util.NaturalSortLess(field(b), field(a)):
			return 1
		}
		return 0
	})
	return sorted
}

func (s *Server) handleAdminListTitles(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	all := sortItems(snap.Items, r.URL.Query().Get("sort"))
	p := s.pagerFromRequest(r, len(all))
	items := pagination.Page(p, all)
	if items == nil {
		items = []*models.CatalogItem{}
	}
	RespondWithJSON(w, http.StatusOK, titlePage{
		Titles:     items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	})
}

func (s *Server) handleAdminCreateTitle(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeTitleInput(w, r)
	if !ok {
		return
	}
	item := itemFromInput(payload)
	if item.ShowID == "" {
		id, err := s.store.NextShowID()
		if err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to allocate show id")
			return
		}
		item.ShowID = id
	}

	if err := s.store.CreateCatalogItem(item); err != nil {
		if errors.Is(err, store.ErrTitleExists) {
			RespondWithError(w, http.StatusConflict, "A title with this show id already exists")
			return
		}
		log.Errorf("Failed to create title: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to create title")
		return
	}
	s.catalogChanged()
	RespondWithJSON(w, http.StatusCreated, item)
}

func (s *Server) handleAdminUpdateTitle(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeTitleInput(w, r)
	if !ok {
		return
	}
	item := itemFromInput(payload)
	item.ShowID = chi.URLParam(r, "showId")

	if err := s.store.UpdateCatalogItem(item); err != nil {
		if errors.Is(err, store.ErrTitleNotFound) {
			RespondWithError(w, http.StatusNotFound, "Title not found")
			return
		}
		log.Errorf("Failed to update title %s: %v", item.ShowID, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to update title")
		return
	}
	s.catalogChanged()
	RespondWithJSON(w, http.StatusOK, item)
}

func (s *Server) handleAdminDeleteTitle(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "showId")
	if err := s.store.DeleteCatalogItem(showID); err != nil {
		if errors.Is(err, store.ErrTitleNotFound) {
			RespondWithError(w, http.StatusNotFound, "Title not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete title")
		return
	}
	s.catalogChanged()
	w.WriteHeader(http.StatusNoContent)
}
