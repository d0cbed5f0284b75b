package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/store"
	"github.com/cineniche/cineniche/internal/testutil"
)

func TestRatingStore(t *testing.T) {
	s := store.New(testutil.SetupTestDB(t))
	user, err := s.CreateUser("rater@example.com", "hash", models.RoleUser)
	require.NoError(t, err)
	require.NoError(t, s.CreateCatalogItem(newItem("s1", "Heat", nil)))

	_, err = s.GetRating(user.ID, "s1")
	assert.ErrorIs(t, err, store.ErrRatingNotFound)

	_, err = s.UpsertRating(user.ID, "s1", 6)
	assert.ErrorIs(t, err, store.ErrInvalidRating)

	_, err = s.UpsertRating(user.ID, "missing", 3)
	assert.ErrorIs(t, err, store.ErrTitleNotFound)

	_, err = s.UpsertRating(user.ID, "s1", 3)
	require.NoError(t, err)
	_, err = s.UpsertRating(user.ID, "s1", 5)
	require.NoError(t, err)

	r, err := s.GetRating(user.ID, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)

	all, err := s.ListRatings()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := s.ListRatingsByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "s1", mine[0].ShowID)
}
