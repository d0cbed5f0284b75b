package core_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineniche/cineniche/internal/auth"
	"github.com/cineniche/cineniche/internal/core"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/testutil"
)

func TestEnsureAdmin(t *testing.T) {
	cfg := testutil.TestConfig(t)
	cfg.Admin.Email = "owner@example.com"
	app := core.NewWithDB(cfg, testutil.SetupTestDB(t))

	password, err := app.EnsureAdmin()
	require.NoError(t, err)
	require.NotEmpty(t, password)

	user, err := app.Store().GetUserByEmail("owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, user.Role)
	assert.True(t, auth.CheckPasswordHash(password, user.PasswordHash))

	t.Run("only once", func(t *testing.T) {
		again, err := app.EnsureAdmin()
		require.NoError(t, err)
		assert.Empty(t, again)
	})
}

func TestPosterRefreshInvalidatesCatalog(t *testing.T) {
	cfg := testutil.TestConfig(t)
	app := core.NewWithDB(cfg, testutil.SetupTestDB(t))

	require.NoError(t, app.Store().CreateCatalogItem(&models.CatalogItem{
		ShowID: "s1", Type: "Movie", Title: "Heat", ReleaseYear: 1995,
	}))

	titles, err := app.Catalog().Titles()
	require.NoError(t, err)
	require.Len(t, titles, 1)
	assert.False(t, titles[0].PosterAvailable)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Posters.Path, "Heat.jpg"), []byte("jpeg"), 0o644))
	require.NoError(t, app.Posters().Refresh())

	titles, err = app.Catalog().Titles()
	require.NoError(t, err)
	assert.True(t, titles[0].PosterAvailable)
}

func TestBuiltInRecommenderWhenUnconfigured(t *testing.T) {
	cfg := testutil.TestConfig(t)
	cfg.Recommender.BaseURL = ""
	app := core.NewWithDB(cfg, testutil.SetupTestDB(t))

	require.NotNil(t, app.Recommender())
	assert.Nil(t, app.Upstream())
	assert.Empty(t, app.Recommender().Browse(context.Background(), 1))
}
