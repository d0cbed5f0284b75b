package db_test

import (
	"database/sql"
	"testing"
)

func assertCount(t *testing.T, database *sql.DB, query string, want int) {
	t.Helper()
	var got int
	if err := database.QueryRow(query).Scan(&got); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if got != want {
		t.Errorf("%s: got %d, want %d", query, got, want)
	}
}
