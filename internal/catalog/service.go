package catalog

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
)

// Loader supplies the raw catalog records, in catalog order.
type Loader interface {
	ListCatalogItems() ([]*models.CatalogItem, error)
}

// Snapshot is an immutable view of the catalog at one point in time.
type Snapshot struct {
	Items   []*models.CatalogItem
	Titles  []*models.Title
	Buckets []GenreBucket
}

// Service keeps the current catalog snapshot. It is rebuilt lazily on the
// first read after Invalidate.
type Service struct {
	loader   Loader
	priority genre.Priority
	fallback string
	posters  PosterIndex

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewService creates a catalog service. posters may be nil.
func NewService(loader Loader, priority genre.Priority, fallback string, posters PosterIndex) *Service {
	return &Service{loader: loader, priority: priority, fallback: fallback, posters: posters}
}

// Priority returns the genre ordering used by the service.
func (s *Service) Priority() genre.Priority { return s.priority }

// Fallback returns the genre given to titles without flags.
func (s *Service) Fallback() string { return s.fallback }

// Snapshot returns the current catalog, loading it if needed.
func (s *Service) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		return s.snapshot, nil
	}
	items, err := s.loader.ListCatalogItems()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	titles := BuildTitles(items, s.priority, s.fallback, s.posters)
	s.snapshot = &Snapshot{
		Items:   items,
		Titles:  titles,
		Buckets: ByGenre(titles, s.priority, s.fallback),
	}
	log.Debugf("Catalog snapshot built with %d titles in %d genres", len(titles), len(s.snapshot.Buckets))
	return s.snapshot, nil
}

// Titles returns the view models of the current snapshot.
func (s *Service) Titles() ([]*models.Title, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Titles, nil
}

// Invalidate drops the snapshot so the next read reloads it.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}
