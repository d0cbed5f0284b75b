package recommend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"resty.dev/v3"

	"github.com/cineniche/cineniche/internal/metrics"
)

// ClientOptions configures the remote recommendation client.
type ClientOptions struct {
	BaseURL     string
	Timeout     time.Duration
	MaxFailures uint32        // consecutive failures that open the breaker
	Cooldown    time.Duration // how long the breaker stays open
}

// errCallerGone marks a request abandoned by its caller. It does not count
// against the breaker since it says nothing about the service.
var errCallerGone = errors.New("request canceled by caller")

// Client talks to an external recommendation service. Requests are never
// retried; after MaxFailures consecutive failures the breaker rejects calls
// until Cooldown has passed.
type Client struct {
	baseURL string
	http    *resty.Client
	cb      *gobreaker.CircuitBreaker[[]Ref]
}

func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	const name = "recommender"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	cb := gobreaker.NewCircuitBreaker[[]Ref](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Infof("Recommendation circuit breaker %s -> %s", from, to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		cb:      cb,
	}
}

func isRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) Browse(ctx context.Context, userID int64) ([]Ref, error) {
	return c.get(ctx, "/api/BrowseRecommendations/"+strconv.FormatInt(userID, 10))
}

func (c *Client) BrowseGenre(ctx context.Context, genre string, userID int64) ([]Ref, error) {
	return c.get(ctx, fmt.Sprintf("/api/BrowseRecommendations/genre/%s/%d", url.PathEscape(genre), userID))
}

func (c *Client) Details(ctx context.Context, kind, showID string) ([]Ref, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("unknown recommendation kind %q", kind)
	}
	return c.get(ctx, fmt.Sprintf("/api/DetailsRecommendation/%s/%s", kind, url.PathEscape(showID)))
}

func (c *Client) get(ctx context.Context, path string) ([]Ref, error) {
	refs, err := c.cb.Execute(func() ([]Ref, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			Get(c.baseURL + path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
			}
			return nil, fmt.Errorf("request to %s failed: %w", path, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("recommendation service returned %s for %s", resp.Status(), path)
		}
		return DecodeRefs([]byte(resp.String()))
	})
	if isRejected(err) {
		return nil, fmt.Errorf("recommendation service unavailable: %w", err)
	}
	return refs, err
}
