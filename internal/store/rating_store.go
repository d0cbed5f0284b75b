package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/cineniche/cineniche/internal/models"
)

// UpsertRating stores a user's rating for a title, replacing any earlier one.
func (s *Store) UpsertRating(userID int64, showID string, rating int) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	now := time.Now()
	query := `
		INSERT INTO ratings (user_id, show_id, rating, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, show_id) DO UPDATE SET
			rating = excluded.rating,
			updated_at = excluded.updated_at;
	`
	if _, err := s.db.Exec(query, userID, showID, rating, now); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return &models.Rating{UserID: userID, ShowID: showID, Rating: rating, UpdatedAt: now}, nil
}

// GetRating returns the rating a user gave a title.
func (s *Store) GetRating(userID int64, showID string) (*models.Rating, error) {
	r := models.Rating{UserID: userID, ShowID: showID}
	err := s.db.QueryRow("SELECT rating, updated_at FROM ratings WHERE user_id = ? AND show_id = ?", userID, showID).
		Scan(&r.Rating, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRatings returns every stored rating.
func (s *Store) ListRatings() ([]*models.Rating, error) {
	return s.queryRatings("SELECT user_id, show_id, rating, updated_at FROM ratings ORDER BY user_id, show_id")
}

// ListRatingsByUser returns the ratings a user has given, newest first.
func (s *Store) ListRatingsByUser(userID int64) ([]*models.Rating, error) {
	return s.queryRatings("SELECT user_id, show_id, rating, updated_at FROM ratings WHERE user_id = ? ORDER BY updated_at DESC", userID)
}

func (s *Store) queryRatings(query string, args ...any) ([]*models.Rating, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.ShowID, &r.Rating, &r.UpdatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, &r)
	}
	return ratings, rows.Err()
}
