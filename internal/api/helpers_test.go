package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cineniche/cineniche/internal/api"
	"github.com/cineniche/cineniche/internal/models"
	"github.com/cineniche/cineniche/internal/recommend"
)

func catalogItem(id, kind, title string, flags ...string) *models.CatalogItem {
	item := &models.CatalogItem{ShowID: id, Type: kind, Title: title, Description: title + " description"}
	for _, f := range flags {
		item.SetGenre(f, true)
	}
	return item
}

// seedCatalog stores a small catalog:
// action: Heat, Ronin; comedies: Airplane!; dramas: The Godfather;
// tv_dramas: Breaking Bad; other: Planet Earth.
func seedCatalog(t *testing.T, server *api.Server) {
	t.Helper()
	items := []*models.CatalogItem{
		catalogItem("s1", models.TypeMovie, "Heat", "action"),
		catalogItem("s2", models.TypeMovie, "Ronin", "action"),
		catalogItem("s3", models.TypeMovie, "The Godfather", "dramas"),
		catalogItem("s4", models.TypeTVShow, "Breaking Bad", "tv_dramas"),
		catalogItem("s5", models.TypeMovie, "Airplane!", "comedies"),
		catalogItem("s6", models.TypeTVShow, "Planet Earth"),
	}
	for _, it := range items {
		require.NoError(t, server.Store().CreateCatalogItem(it))
	}
	server.App().Catalog().Invalidate()
}

// doRequest sends a request through the router. body may be nil, a string
// or any value to be JSON encoded.
func doRequest(t *testing.T, router http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		buf = bytes.NewBuffer(data)
	}
	req, _ := http.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

// stubSource is a recommend.Source with canned answers. Genres and kinds
// without an entry fail.
type stubSource struct {
	browse  []recommend.Ref
	genres  map[string][]recommend.Ref
	details map[string][]recommend.Ref
	calls   atomic.Int32
}

func (s *stubSource) Browse(ctx context.Context, userID int64) ([]recommend.Ref, error) {
	s.calls.Add(1)
	if s.browse == nil {
		return nil, errors.New("recommender unavailable")
	}
	return s.browse, nil
}

func (s *stubSource) BrowseGenre(ctx context.Context, genre string, userID int64) ([]recommend.Ref, error) {
	s.calls.Add(1)
	refs, ok := s.genres[genre]
	if !ok {
		return nil, errors.New("recommender unavailable")
	}
	return refs, nil
}

func (s *stubSource) Details(ctx context.Context, kind, showID string) ([]recommend.Ref, error) {
	s.calls.Add(1)
	refs, ok := s.details[kind]
	if !ok {
		return nil, errors.New("recommender unavailable")
	}
	return refs, nil
}

func refs(titles ...string) []recommend.Ref {
	out := make([]recommend.Ref, 0, len(titles))
	for _, t := range titles {
		out = append(out, recommend.Ref{Title: t})
	}
	return out
}

func titleNames(titles []*models.Title) []string {
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		out = append(out, t.Title)
	}
	return out
}
