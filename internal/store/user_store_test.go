package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	passwordHash, _ := auth.HashPassword("Password1!")

	t.Run("Create User Success", func(t *testing.T) {
		user, err := s.CreateUser("viewer@example.com", passwordHash, models.RoleUser)
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.Email != "viewer@example.com" {
			t.Errorf("Expected email 'viewer@example.com', got '%s'", user.Email)
		}
	})

	t.Run("Create User with Duplicate Email", func(t *testing.T) {
		_, err := s.CreateUser("Viewer@Example.com", passwordHash, models.RoleUser)
		if !errors.Is(err, store.ErrUserExists) {
			t.Fatalf("Expected ErrUserExists for a case-insensitive duplicate, got %v", err)
		}
	})

	t.Run("Get User By Email", func(t *testing.T) {
		user, err := s.GetUserByEmail("VIEWER@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if user.Email != "viewer@example.com" {
			t.Errorf("Expected email 'viewer@example.com', got '%s'", user.Email)
		}
		if !auth.CheckPasswordHash("Password1!", user.PasswordHash) {
			t.Error("Password hash does not match")
		}
	})

	t.Run("Get Non-existent User", func(t *testing.T) {
		_, err := s.GetUserByEmail("nobody@example.com")
		if !errors.Is(err, store.ErrUserNotFound) {
			t.Fatalf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	passwordHash, _ := auth.HashPassword("Password1!")
	user, _ := s.CreateUser("update@example.com", passwordHash, models.RoleUser)
	s.CreateUser("taken@example.com", passwordHash, models.RoleUser)

	t.Run("Update User Info", func(t *testing.T) {
		if err := s.UpdateUser(user.ID, "renamed@example.com", models.RoleAdministrator); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		updated, _ := s.GetUserByID(user.ID)
		if updated.Email != "renamed@example.com" || !updated.IsAdmin() {
			t.Errorf("User info was not updated correctly. Got: %+v", updated)
		}
		n, _ := s.CountUsersWithRole(models.RoleAdministrator)
		if n != 1 {
			t.Errorf("Expected 1 administrator, got %d", n)
		}
	})

	t.Run("Update to an existing email", func(t *testing.T) {
		err := s.UpdateUser(user.ID, "taken@example.com", models.RoleUser)
		if !errors.Is(err, store.ErrUserExists) {
			t.Errorf("Expected ErrUserExists, got %v", err)
		}
	})

	t.Run("Update Password", func(t *testing.T) {
		newHash, _ := auth.HashPassword("Changed2@")
		if err := s.UpdateUserPassword(user.ID, newHash); err != nil {
			t.Fatalf("UpdateUserPassword failed: %v", err)
		}
		updated, _ := s.GetUserByID(user.ID)
		if !auth.CheckPasswordHash("Changed2@", updated.PasswordHash) {
			t.Error("Password was not updated")
		}
	})

	t.Run("Delete User", func(t *testing.T) {
		if err := s.DeleteUser(user.ID); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, err := s.GetUserByID(user.ID); !errors.Is(err, store.ErrUserNotFound) {
			t.Error("Expected error when getting deleted user, but got nil")
		}
		if err := s.DeleteUser(user.ID); !errors.Is(err, store.ErrUserNotFound) {
			t.Errorf("Deleting twice should report ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserStore_Sessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)

	passwordHash, _ := auth.HashPassword("Password1!")
	user, _ := s.CreateUser("session@example.com", passwordHash, models.RoleUser)

	t.Run("Create and Validate Session", func(t *testing.T) {
		token, err := s.CreateSession(user.ID, time.Hour)
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		sessionUser, err := s.GetUserFromSession(token)
		if err != nil {
			t.Fatalf("GetUserFromSession failed: %v", err)
		}
		if sessionUser.ID != user.ID {
			t.Errorf("Expected user ID %d from session, got %d", user.ID, sessionUser.ID)
		}
	})

	t.Run("Expired Session", func(t *testing.T) {
		token, _ := s.CreateSession(user.ID, -time.Minute)
		if _, err := s.GetUserFromSession(token); !errors.Is(err, store.ErrSessionExpired) {
			t.Fatalf("Expected ErrSessionExpired, got %v", err)
		}
		if _, err := s.GetUserFromSession(token); !errors.Is(err, store.ErrSessionInvalid) {
			t.Fatalf("Expired session should have been removed, got %v", err)
		}
	})

	t.Run("Prune and Delete Session", func(t *testing.T) {
		s.CreateSession(user.ID, -time.Hour)
		n, err := s.PruneExpiredSessions()
		if err != nil {
			t.Fatalf("PruneExpiredSessions failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 pruned session, got %d", n)
		}

		token, _ := s.CreateSession(user.ID, time.Hour)
		if err := s.DeleteSession(token); err != nil {
			t.Fatalf("DeleteSession failed: %v", err)
		}
		if _, err := s.GetUserFromSession(token); err == nil {
			t.Fatal("Expected error for deleted session token, but got nil")
		}
	})
}
