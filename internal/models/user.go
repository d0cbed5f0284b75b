package models

import "time"

// Role names. The Administrator role gates the admin panel.
const (
	RoleAdministrator = "Administrator"
	RoleUser          = "User"
)

// User is an account that can sign in and rate titles.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the Administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// SessionInfo describes the signed-in user to the frontend. It is built
// once per request by the auth middleware.
type SessionInfo struct {
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// NewSessionInfo builds the session view of a user.
func NewSessionInfo(u *User) *SessionInfo {
	return &SessionInfo{UserID: u.ID, Email: u.Email, Roles: []string{u.Role}}
}

// HasRole reports whether the session carries the given role.
func (s *SessionInfo) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
