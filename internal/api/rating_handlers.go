package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/validation"
)

// handleGetMovieRatings lists every stored rating.
func (s *Server) handleGetMovieRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.store.ListRatings()
	if err != nil {
		log.Errorf("Failed to list ratings: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to load ratings")
		return
	}
	if ratings == nil {
		ratings = []*models.Rating{}
	}
	RespondWithJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	rating, err := s.store.GetRating(userID, chi.URLParam(r, "showId"))
	if err != nil {
		if errors.Is(err, store.ErrRatingNotFound) {
			RespondWithError(w, http.StatusNotFound, "Rating not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to load rating")
		return
	}
	RespondWithJSON(w, http.StatusOK, rating)
}

func (s *Server) handleSaveRating(w http.ResponseWriter, r *http.Request) {
	var payload validation.RatingInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.UserID == 0 {
		payload.UserID = getUserFromContext(r).ID
	}
	if verr := validation.Struct(&payload); verr != nil {
		RespondWithErrors(w, http.StatusBadRequest, verr.Messages)
		return
	}
	if !canActFor(r, payload.UserID) {
		RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	rating, err := s.store.UpsertRating(payload.UserID, payload.ShowID, payload.Rating)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTitleNotFound):
			RespondWithError(w, http.StatusNotFound, "Title not found")
		case errors.Is(err, store.ErrInvalidRating):
			RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
		default:
			log.Errorf("Failed to save rating: %v", err)
			RespondWithError(w, http.StatusInternalServerError, "Failed to save rating")
		}
		return
	}
	RespondWithJSON(w, http.StatusOK, rating)
}
