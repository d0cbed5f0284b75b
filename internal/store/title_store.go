package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
)

const titleColumns = "show_id, type, title, director, cast_members, country, release_year, rating, duration, description"

// SyncResult summarizes a ReplaceCatalog run.
type SyncResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}

func scanTitle(scanner interface{ Scan(...any) error }) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := scanner.Scan(&item.ShowID, &item.Type, &item.Title, &item.Director, &item.Cast,
		&item.Country, &item.ReleaseYear, &item.Rating, &item.Duration, &item.Description)
	if err != nil {
		return nil, err
	}
	item.Genres = make(map[string]int)
	return &item, nil
}

// ListCatalogItems returns every title with its genre flags, in catalog order.
func (s *Store) ListCatalogItems() ([]*models.CatalogItem, error) {
	rows, err := s.db.Query("SELECT " + titleColumns + " FROM titles ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	var items []*models.CatalogItem
	byID := make(map[string]*models.CatalogItem)
	for rows.Next() {
		item, err := scanTitle(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, item)
		byID[item.ShowID] = item
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Genres are read in a second pass so only one result set is open at a time.
	genreRows, err := s.db.Query("SELECT show_id, genre, flag FROM title_genres")
	if err != nil {
		return nil, err
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var showID, key string
		var flag int
		if err := genreRows.Scan(&showID, &key, &flag); err != nil {
			return nil, err
		}
		if item, ok := byID[showID]; ok {
			item.Genres[key] = flag
		}
	}
	return items, genreRows.Err()
}

// GetCatalogItem returns a single title by show id.
func (s *Store) GetCatalogItem(showID string) (*models.CatalogItem, error) {
	item, err := scanTitle(s.db.QueryRow("SELECT "+titleColumns+" FROM titles WHERE show_id = ?", showID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTitleNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT genre, flag FROM title_genres WHERE show_id = ?", showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var flag int
		if err := rows.Scan(&key, &flag); err != nil {
			return nil, err
		}
		item.Genres[key] = flag
	}
	return item, rows.Err()
}

// CountCatalogItems returns the number of titles.
func (s *Store) CountCatalogItems() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM titles").Scan(&count)
	return count, err
}

// NextShowID returns an unused show id of the form "s<n>".
func (s *Store) NextShowID() (string, error) {
	var next int64
	if err := s.db.QueryRow("SELECT COALESCE(MAX(position), 0) + 1 FROM titles").Scan(&next); err != nil {
		return "", err
	}
	for {
		id := "s" + strconv.FormatInt(next, 10)
		var exists int
		err := s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE show_id = ?", id).Scan(&exists)
		if err != nil {
			return "", err
		}
		if exists == 0 {
			return id, nil
		}
		next++
	}
}

// CreateCatalogItem appends a title to the end of the catalog.
func (s *Store) CreateCatalogItem(item *models.CatalogItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertTitle(tx, item, time.Now()); err != nil {
		if isUniqueViolation(err) {
			return ErrTitleExists
		}
		return err
	}
	if err := writeGenres(tx, item); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateCatalogItem replaces the fields and genre flags of an existing title.
// The title keeps its catalog position.
func (s *Store) UpdateCatalogItem(item *models.CatalogItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := updateTitle(tx, item, time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTitleNotFound
	}
	if err := writeGenres(tx, item); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteCatalogItem removes a title along with its genre flags and ratings.
func (s *Store) DeleteCatalogItem(showID string) error {
	res, err := s.db.Exec("DELETE FROM titles WHERE show_id = ?", showID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTitleNotFound
	}
	return nil
}

// ReplaceCatalog makes the stored catalog match items: existing titles are
// updated in place, new ones appended in the given order, and titles
// missing from items are removed.
func (s *Store) ReplaceCatalog(items []*models.CatalogItem) (*SyncResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing := make(map[string]bool)
	rows, err := tx.Query("SELECT show_id FROM titles")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		existing[id] = true
	}
	rows.Close()

	result := &SyncResult{}
	now := time.Now()
	keep := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ShowID == "" || keep[item.ShowID] {
			continue
		}
		keep[item.ShowID] = true
		if existing[item.ShowID] {
			if _, err := updateTitle(tx, item, now); err != nil {
				return nil, fmt.Errorf("failed to update %s: %w", item.ShowID, err)
			}
			result.Updated++
		} else {
			if err := insertTitle(tx, item, now); err != nil {
				return nil, fmt.Errorf("failed to insert %s: %w", item.ShowID, err)
			}
			result.Added++
		}
		if err := writeGenres(tx, item); err != nil {
			return nil, err
		}
	}

	for id := range existing {
		if keep[id] {
			continue
		}
		if _, err := tx.Exec("DELETE FROM titles WHERE show_id = ?", id); err != nil {
			return nil, err
		}
		result.Removed++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func insertTitle(tx *sql.Tx, item *models.CatalogItem, now time.Time) error {
	_, err := tx.Exec(`INSERT INTO titles (`+titleColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ShowID, item.Type, item.Title, item.Director, item.Cast, item.Country,
		item.ReleaseYear, item.Rating, item.Duration, item.Description, now, now)
	return err
}

func updateTitle(tx *sql.Tx, item *models.CatalogItem, now time.Time) (int64, error) {
	res, err := tx.Exec(`UPDATE titles SET type = ?, title = ?, director = ?, cast_members = ?, country = ?,
		release_year = ?, rating = ?, duration = ?, description = ?, updated_at = ?
		WHERE show_id = ?`,
		item.Type, item.Title, item.Director, item.Cast, item.Country,
		item.ReleaseYear, item.Rating, item.Duration, item.Description, now, item.ShowID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func writeGenres(tx *sql.Tx, item *models.CatalogItem) error {
	if _, err := tx.Exec("DELETE FROM title_genres WHERE show_id = ?", item.ShowID); err != nil {
		return err
	}
	for key, flag := range item.Genres {
		key = genre.Canonical(key)
		if key == "" {
			continue
		}
		_, err := tx.Exec("INSERT OR REPLACE INTO title_genres (show_id, genre, flag) VALUES (?, ?, ?)", item.ShowID, key, flag)
		if err != nil {
			return err
		}
	}
	return nil
}
