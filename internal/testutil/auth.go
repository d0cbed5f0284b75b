package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cineniche/cineniche/internal/api"
	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/models"
)

// CreateUser stores a user with the given plaintext password.
func CreateUser(t *testing.T, s *api.Server, email, password, role string) *models.User {
	t.Helper()
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password for test user: %v", err)
	}
	user, err := s.Store().CreateUser(email, passwordHash, role)
	if err != nil {
		t.Fatalf("Failed to create test user '%s': %v", email, err)
	}
	return user
}

// Login signs in through POST /login and returns the session cookie.
func Login(t *testing.T, s *api.Server, email, password string) *http.Cookie {
	t.Helper()
	payloadBytes, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, _ := http.NewRequest("POST", "/login", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("Login failed within test helper for user '%s': got status %d, want 200", email, status)
	}

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}

	t.Fatal("Failed to get session cookie after successful login for test user")
	return nil
}

// GetAuthCookie creates a user, logs them in, and returns a valid session cookie.
func GetAuthCookie(t *testing.T, s *api.Server, email, password, role string) *http.Cookie {
	t.Helper()
	CreateUser(t, s, email, password, role)
	return Login(t, s, email, password)
}
