package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/pagination"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/validation"
)

type userPage struct {
	Users      []*models.User `json:"users"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	p := s.pagerFromRequest(r, len(users))
	page := pagination.Page(p, users)
	if page == nil {
		page = []*models.User{}
	}
	RespondWithJSON(w, http.StatusOK, userPage{
		Users:      page,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages(),
	})
}

func decodeUserInput(w http.ResponseWriter, r *http.Request) (*validation.UserInput, bool) {
	var payload validation.UserInput
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

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeUserInput(w, r)
	if !ok {
		return
	}
	if payload.Password == "" {
		RespondWithError(w, http.StatusBadRequest, "Password is required.")
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user, err := s.store.CreateUser(payload.Email, passwordHash, payload.Role)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			RespondWithError(w, http.StatusConflict, "Email already exists")
			return
		}
		log.Errorf("Failed to create user: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	RespondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	payload, ok := decodeUserInput(w, r)
	if !ok {
		return
	}

	if current := getUserFromContext(r); current.ID == userID && payload.Role != models.RoleAdministrator {
		RespondWithError(w, http.StatusBadRequest, "Cannot remove your own administrator role")
		return
	}

	if err := s.store.UpdateUser(userID, payload.Email, payload.Role); err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			RespondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrUserExists):
			RespondWithError(w, http.StatusConflict, "Email already exists")
		default:
			RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	// Update password if provided
	if payload.Password != "" {
		passwordHash, err := auth.HashPassword(payload.Password)
		if err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if err := s.store.UpdateUserPassword(userID, passwordHash); err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	currentUser := getUserFromContext(r)
	if currentUser.ID == userID {
		RespondWithError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := s.store.DeleteUser(userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
