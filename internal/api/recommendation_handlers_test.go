package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/recommend"
	"github.com/cineniche/cineniche/internal/testutil"
)

func TestRecommendationPassThrough(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()
	seedCatalog(t, server)

	viewer := testutil.CreateUser(t, server, "viewer@example.com", "Secret1!", models.RoleUser)
	viewerCookie := testutil.Login(t, server, "viewer@example.com", "Secret1!")
	otherCookie := testutil.GetAuthCookie(t, server, "other@example.com", "Secret1!", models.RoleUser)
	adminCookie := testutil.GetAuthCookie(t, server, "admin@example.com", "Secret1!", models.RoleAdministrator)

	stub := &stubSource{
		browse:  []recommend.Ref{{ShowID: "s2", Title: "Ronin"}, {Title: "Heat"}},
		genres:  map[string][]recommend.Ref{"comedies": refs("Airplane!")},
		details: map[string][]recommend.Ref{recommend.KindCollab: refs("The Godfather")},
	}
	server.App().SetRecommender(stub)

	browsePath := fmt.Sprintf("/api/BrowseRecommendations/%d", viewer.ID)

	t.Run("browse returns title strings", func(t *testing.T) {
		rr := doRequest(t, router, "GET", browsePath, nil, viewerCookie)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `["Ronin","Heat"]`, rr.Body.String())
	})

	t.Run("browse genre", func(t *testing.T) {
		rr := doRequest(t, router, "GET", fmt.Sprintf("/api/BrowseRecommendations/genre/comedies/%d", viewer.ID), nil, viewerCookie)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `["Airplane!"]`, rr.Body.String())
	})

	t.Run("failures become an empty list", func(t *testing.T) {
		rr := doRequest(t, router, "GET", fmt.Sprintf("/api/BrowseRecommendations/genre/dramas/%d", viewer.ID), nil, viewerCookie)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("details", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/DetailsRecommendation/collab/s1", nil, viewerCookie)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `["The Godfather"]`, rr.Body.String())
	})

	t.Run("unknown kind is rejected without calling the service", func(t *testing.T) {
		before := stub.calls.Load()
		rr := doRequest(t, router, "GET", "/api/DetailsRecommendation/horror/s1", nil, viewerCookie)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, before, stub.calls.Load())
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		rr := doRequest(t, router, "GET", browsePath, nil, otherCookie)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("administrators may read any user", func(t *testing.T) {
		rr := doRequest(t, router, "GET", browsePath, nil, adminCookie)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		rr := doRequest(t, router, "GET", browsePath, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid user id", func(t *testing.T) {
		rr := doRequest(t, router, "GET", "/api/BrowseRecommendations/abc", nil, viewerCookie)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBuiltInRecommender(t *testing.T) {
	server, _ := testutil.SetupTestServer(t)
	router := server.Router()
	seedCatalog(t, server)

	viewer := testutil.CreateUser(t, server, "viewer@example.com", "Secret1!", models.RoleUser)
	cookie := testutil.Login(t, server, "viewer@example.com", "Secret1!")
	_, err := server.Store().UpsertRating(viewer.ID, "s1", 5)
	require.NoError(t, err)

	rr := doRequest(t, router, "GET", fmt.Sprintf("/api/BrowseRecommendations/%d", viewer.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	var titles []string
	titles = decodeBody[[]string](t, rr)
	require.NotEmpty(t, titles)
	assert.Equal(t, "Ronin", titles[0], "liked genre comes first")
	assert.NotContains(t, titles, "Heat", "rated titles are not recommended")
}
