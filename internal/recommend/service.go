package recommend

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/cineniche/cineniche/internal/metrics"
	"github.com/cineniche/cineniche/internal/models"
)

// Service wraps a Source so that recommendation failures never reach the
// caller. Every error becomes an empty list and a logged warning.
type Service struct {
	source Source
	limit  int
}

// NewService wraps source. limit caps every list; zero means no cap.
func NewService(source Source, limit int) *Service {
	return &Service{source: source, limit: limit}
}

func (s *Service) Browse(ctx context.Context, userID int64) []Ref {
	refs, err := s.source.Browse(ctx, userID)
	return s.settle(ctx, "browse", refs, err)
}

func (s *Service) BrowseGenre(ctx context.Context, genre string, userID int64) []Ref {
	refs, err := s.source.BrowseGenre(ctx, genre, userID)
	return s.settle(ctx, "browse_genre", refs, err)
}

func (s *Service) Details(ctx context.Context, kind, showID string) []Ref {
	if !ValidKind(kind) {
		return []Ref{}
	}
	refs, err := s.source.Details(ctx, kind, showID)
	return s.settle(ctx, "details_"+kind, refs, err)
}

// BrowseTitles resolves the user's browse recommendations against catalog.
func (s *Service) BrowseTitles(ctx context.Context, catalog []*models.Title, userID int64) []*models.Title {
	return MatchTitles(catalog, s.Browse(ctx, userID))
}

// GenreTitles resolves the user's recommendations for one genre.
func (s *Service) GenreTitles(ctx context.Context, catalog []*models.Title, genre string, userID int64) []*models.Title {
	return MatchTitles(catalog, s.BrowseGenre(ctx, genre, userID))
}

// DetailsTitles resolves "more like this" recommendations for a title.
func (s *Service) DetailsTitles(ctx context.Context, catalog []*models.Title, kind, showID string) []*models.Title {
	return MatchTitles(catalog, s.Details(ctx, kind, showID))
}

func (s *Service) settle(ctx context.Context, endpoint string, refs []Ref, err error) []Ref {
	if err != nil {
		outcome := "failure"
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			outcome = "canceled"
		} else if isRejected(err) {
			outcome = "rejected"
		}
		metrics.RecommendationRequests.WithLabelValues(endpoint, outcome).Inc()
		log.Warnf("Recommendations unavailable for %s: %v", endpoint, err)
		return []Ref{}
	}
	metrics.RecommendationRequests.WithLabelValues(endpoint, "success").Inc()
	if refs == nil {
		return []Ref{}
	}
	if s.limit > 0 && len(refs) > s.limit {
		refs = refs[:s.limit]
	}
	return refs
}
