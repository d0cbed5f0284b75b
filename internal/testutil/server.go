// Shared test server setup, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"

	"github.com/cineniche/cineniche/internal/api"
	"github.com/cineniche/cineniche/internal/config"
	"github.com/cineniche/cineniche/internal/core"
)

// TestConfig returns the default configuration with login throttling
// disabled and posters read from a per-test directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Session.LoginRateLimit = 0
	cfg.Posters.Path = t.TempDir()
	cfg.Posters.Watch = false
	return cfg
}

// SetupTestApp builds a core.App on a fresh in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	return SetupTestAppWithConfig(t, TestConfig(t))
}

// SetupTestAppWithConfig builds a core.App from cfg on a fresh in-memory database.
func SetupTestAppWithConfig(t *testing.T, cfg *config.Config) *core.App {
	t.Helper()
	db := SetupTestDB(t)
	app := core.NewWithDB(cfg, db)
	app.Version = "test"
	go app.WsHub().Run()
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app.DB()
}
