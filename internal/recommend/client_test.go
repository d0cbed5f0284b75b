package recommend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRequests(t *testing.T) {
	var path atomic.Value
	lastPath := func() string { return path.Load().(string) }
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path.Store(r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["Heat", {"show_id": "s2", "title": "Dark"}]`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL + "/", Timeout: time.Second})
	ctx := context.Background()

	refs, err := c.Browse(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "/api/BrowseRecommendations/7", lastPath())
	assert.Equal(t, []Ref{{Title: "Heat"}, {ShowID: "s2", Title: "Dark"}}, refs)

	_, err = c.BrowseGenre(ctx, "comedies", 7)
	require.NoError(t, err)
	assert.Equal(t, "/api/BrowseRecommendations/genre/comedies/7", lastPath())

	_, err = c.Details(ctx, KindCollab, "s 1")
	require.NoError(t, err)
	assert.Equal(t, "/api/DetailsRecommendation/collab/s%201", lastPath())

	_, err = c.Details(ctx, "horror", "s1")
	assert.Error(t, err)
}

func TestClientFailures(t *testing.T) {
	var hits atomic.Int32
	status := atomic.Int32{}
	status.Store(http.StatusInternalServerError)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(int(status.Load()))
		w.Write([]byte(`["Heat"]`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: time.Second, MaxFailures: 2, Cooldown: time.Hour})
	svc := NewService(c, 0)
	ctx := context.Background()

	t.Run("errors become empty lists", func(t *testing.T) {
		assert.Empty(t, svc.Browse(ctx, 1))
		assert.NotNil(t, svc.Browse(ctx, 1))
		assert.Equal(t, int32(2), hits.Load(), "failed requests are not retried")
	})

	t.Run("open breaker skips the service", func(t *testing.T) {
		status.Store(http.StatusOK)
		assert.Empty(t, svc.Browse(ctx, 1))
		assert.Equal(t, int32(2), hits.Load())
	})
}

func TestClientCanceledRequestsKeepBreakerClosed(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`["Heat"]`))
	}))
	defer srv.Close()

	c := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: time.Second, MaxFailures: 2, Cooldown: time.Hour})
	svc := NewService(c, 0)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		assert.Empty(t, svc.Browse(canceled, 1))
	}

	refs := svc.Browse(context.Background(), 2)
	assert.Equal(t, []Ref{{Title: "Heat"}}, refs)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	svc := NewService(NewClient(ClientOptions{BaseURL: srv.URL}), 0)
	assert.Empty(t, svc.Details(context.Background(), KindContent, "s1"))
}
