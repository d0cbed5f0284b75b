// Package upstream pulls the catalog from outside sources: a legacy REST
// endpoint serving /MovieTitles or a legacy PostgreSQL database.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/cineniche/cineniche/internal/models"
)

// Source yields a full catalog in catalog order.
type Source interface {
	FetchCatalog(ctx context.Context) ([]*models.CatalogItem, error)
}

// Fetcher reads the catalog from a REST endpoint that serves the flat
// /MovieTitles payload.
type Fetcher struct {
	baseURL string
	http    *resty.Client
}

func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second).
		SetHeader("Accept", "application/json")
	return &Fetcher{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// FetchCatalog downloads and decodes the catalog.
func (f *Fetcher) FetchCatalog(ctx context.Context) ([]*models.CatalogItem, error) {
	resp, err := f.http.R().
		SetContext(ctx).
		Get(f.baseURL + "/MovieTitles")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("catalog fetch cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog endpoint returned %s", resp.Status())
	}

	var items []*models.CatalogItem
	if err := json.Unmarshal([]byte(resp.String()), &items); err != nil {
		return nil, fmt.Errorf("malformed catalog payload: %w", err)
	}
	out := items[:0]
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	return f.http.Close()
}
