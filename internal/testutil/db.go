package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/cineniche/cineniche/internal/assets"
	"github.com/cineniche/cineniche/internal/db"
)

// SetupTestDB creates an in-memory SQLite database and applies all migrations.
// It returns the database connection, ready for use in tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Every test gets its own named in-memory database. A single connection
	// keeps the database alive for the whole test.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := db.InitDB(dsn)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	database.SetMaxOpenConns(1)

	// Attach a cleanup function to automatically close the DB when the test completes.
	t.Cleanup(func() {
		database.Close()
	})

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	return database
}
