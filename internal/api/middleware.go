package api

// This file contains the middleware for handling authentication and role-based authorization.

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cineniche/cineniche/internal/metrics"
	"github.com/cineniche/cineniche/internal/models"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const (
	userContextKey    = contextKey("user")
	sessionContextKey = contextKey("session")
)

const sessionCookieName = "session_token"

// SessionMiddleware resolves the session cookie once per request. A valid
// session puts the user and its SessionInfo into the request context;
// anonymous requests pass through untouched.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.store.GetUserFromSession(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, sessionContextKey, models.NewSessionInfo(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without a valid session.
// It must be chained after SessionMiddleware.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getUserFromContext(r) == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: Invalid session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnlyMiddleware ensures only users with the Administrator role can access a route.
// It must be chained *after* RequireAuth.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := getSessionFromContext(r)
		if session == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if !session.HasRole(models.RoleAdministrator) {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Administrator access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getUserFromContext returns the signed-in user, or nil for anonymous requests.
func getUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func getSessionFromContext(r *http.Request) *models.SessionInfo {
	session, ok := r.Context().Value(sessionContextKey).(*models.SessionInfo)
	if !ok {
		return nil
	}
	return session
}

// canActFor reports whether the current session may read or write data
// owned by userID.
func canActFor(r *http.Request, userID int64) bool {
	session := getSessionFromContext(r)
	if session == nil {
		return false
	}
	return session.UserID == userID || session.HasRole(models.RoleAdministrator)
}

// metricsMiddleware records request counts and latency by route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveRequest(r.Method, route, status, time.Since(start))
	})
}
