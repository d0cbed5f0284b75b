package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/validation"
)

func (s *Server) sessionTTL() time.Duration {
	hours := s.app.Config().Session.TTLHours
	if hours <= 0 {
		hours = 7 * 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := s.store.GetUserByEmail(strings.TrimSpace(payload.Email))
	if err != nil {
		RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !auth.CheckPasswordHash(payload.Password, user.PasswordHash) {
		RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	ttl := s.sessionTTL()
	token, err := s.store.CreateSession(user.ID, ttl)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // Set secure flag if using HTTPS
		SameSite: http.SameSiteLaxMode,
	})

	RespondWithJSON(w, http.StatusOK, models.NewSessionInfo(user))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload validation.Registration
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if verr := validation.Struct(&payload); verr != nil {
		RespondWithErrors(w, http.StatusBadRequest, verr.Messages)
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user, err := s.store.CreateUser(payload.Email, passwordHash, models.RoleUser)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			RespondWithError(w, http.StatusConflict, "An account with this email already exists.")
			return
		}
		log.Errorf("Failed to register user: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	RespondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil {
		s.store.DeleteSession(cookie.Value)
	}

	// Expire the cookie on the client side
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	session := getSessionFromContext(r)
	if session == nil {
		RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	RespondWithJSON(w, http.StatusOK, session)
}
