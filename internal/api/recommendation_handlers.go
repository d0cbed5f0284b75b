package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/recommend"
)

// userIDParam parses the {userId} route parameter and checks that the
// session may act for that user. It writes the error response itself.
func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil || userID <= 0 {
		RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}
	if !canActFor(r, userID) {
		RespondWithError(w, http.StatusForbidden, "Forbidden")
		return 0, false
	}
	return userID, true
}

func (s *Server) handleBrowseRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	refs := s.app.Recommender().Browse(r.Context(), userID)
	RespondWithJSON(w, http.StatusOK, recommend.Titles(refs))
}

func (s *Server) handleBrowseGenreRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	key := genre.Canonical(chi.URLParam(r, "genre"))
	if key == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid genre")
		return
	}
	refs := s.app.Recommender().BrowseGenre(r.Context(), key, userID)
	RespondWithJSON(w, http.StatusOK, recommend.Titles(refs))
}

func (s *Server) handleDetailsRecommendation(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !recommend.ValidKind(kind) {
		RespondWithError(w, http.StatusBadRequest, "Unknown recommendation kind")
		return
	}
	refs := s.app.Recommender().Details(r.Context(), kind, chi.URLParam(r, "showId"))
	RespondWithJSON(w, http.StatusOK, recommend.Titles(refs))
}
