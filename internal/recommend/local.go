package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
)

// likedThreshold is the lowest star rating counted as a positive signal.
const likedThreshold = 4

// TitleLister yields the catalog view models.
type TitleLister interface {
	Titles() ([]*models.Title, error)
}

// RatingLister yields every stored rating.
type RatingLister interface {
	ListRatings() ([]*models.Rating, error)
}

// Local recommends from the local catalog and ratings when no external
// service is configured. Browse lists favour the genres a user rated
// highly; details lists use shared genre or co-rating.
type Local struct {
	titles  TitleLister
	ratings RatingLister
	limit   int
}

func NewLocal(titles TitleLister, ratings RatingLister, limit int) *Local {
	if limit <= 0 {
		limit = 20
	}
	return &Local{titles: titles, ratings: ratings, limit: limit}
}

type ratingIndex struct {
	average map[string]float64
	byUser  map[int64]map[string]int
	byShow  map[string]map[int64]int
}

func (l *Local) load() ([]*models.Title, *ratingIndex, error) {
	titles, err := l.titles.Titles()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	ratings, err := l.ratings.ListRatings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	idx := &ratingIndex{
		average: make(map[string]float64),
		byUser:  make(map[int64]map[string]int),
		byShow:  make(map[string]map[int64]int),
	}
	sums := make(map[string]int)
	for _, r := range ratings {
		sums[r.ShowID] += r.Rating
		if idx.byUser[r.UserID] == nil {
			idx.byUser[r.UserID] = make(map[string]int)
		}
		idx.byUser[r.UserID][r.ShowID] = r.Rating
		if idx.byShow[r.ShowID] == nil {
			idx.byShow[r.ShowID] = make(map[int64]int)
		}
		idx.byShow[r.ShowID][r.UserID] = r.Rating
	}
	for show, sum := range sums {
		idx.average[show] = float64(sum) / float64(len(idx.byShow[show]))
	}
	return titles, idx, nil
}

// rank orders candidates by score, then average rating, keeping catalog
// order for ties, and returns at most limit refs.
func (l *Local) rank(candidates []*models.Title, score func(*models.Title) float64, idx *ratingIndex) []Ref {
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := score(candidates[i]), score(candidates[j])
		if si != sj {
			return si > sj
		}
		return idx.average[candidates[i].ShowID] > idx.average[candidates[j].ShowID]
	})
	if len(candidates) > l.limit {
		candidates = candidates[:l.limit]
	}
	refs := make([]Ref, 0, len(candidates))
	for _, t := range candidates {
		refs = append(refs, Ref{ShowID: t.ShowID, Title: t.Title})
	}
	return refs
}

func (l *Local) Browse(ctx context.Context, userID int64) ([]Ref, error) {
	titles, idx, err := l.load()
	if err != nil {
		return nil, err
	}
	rated := idx.byUser[userID]

	affinity := make(map[string]float64)
	genres := make(map[string]string, len(titles))
	for _, t := range titles {
		genres[t.ShowID] = t.Genre
	}
	for show, stars := range rated {
		if stars >= likedThreshold {
			affinity[genres[show]]++
		}
	}

	var candidates []*models.Title
	for _, t := range titles {
		if _, seen := rated[t.ShowID]; !seen {
			candidates = append(candidates, t)
		}
	}
	return l.rank(candidates, func(t *models.Title) float64 { return affinity[t.Genre] }, idx), ctx.Err()
}

func (l *Local) BrowseGenre(ctx context.Context, key string, userID int64) ([]Ref, error) {
	if g, ok := genre.ForKind(key); ok {
		key = g
	}
	key = genre.Canonical(key)

	titles, idx, err := l.load()
	if err != nil {
		return nil, err
	}
	rated := idx.byUser[userID]

	var candidates []*models.Title
	for _, t := range titles {
		if _, seen := rated[t.ShowID]; seen || t.Genre != key {
			continue
		}
		candidates = append(candidates, t)
	}
	return l.rank(candidates, func(*models.Title) float64 { return 0 }, idx), ctx.Err()
}

func (l *Local) Details(ctx context.Context, kind, showID string) ([]Ref, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("unknown recommendation kind %q", kind)
	}
	titles, idx, err := l.load()
	if err != nil {
		return nil, err
	}

	var source *models.Title
	for _, t := range titles {
		if t.ShowID == showID {
			source = t
			break
		}
	}
	if source == nil {
		return []Ref{}, nil
	}

	var candidates []*models.Title
	var score func(*models.Title) float64
	switch kind {
	case KindContent:
		for _, t := range titles {
			if t.ShowID != showID && t.Genre == source.Genre {
				candidates = append(candidates, t)
			}
		}
		score = func(t *models.Title) float64 {
			if t.Type == source.Type {
				return 1
			}
			return 0
		}
	case KindCollab:
		// Count how many fans of the source title also liked each other title.
		together := make(map[string]float64)
		for user, stars := range idx.byShow[showID] {
			if stars < likedThreshold {
				continue
			}
			for other, s := range idx.byUser[user] {
				if other != showID && s >= likedThreshold {
					together[other]++
				}
			}
		}
		for _, t := range titles {
			if together[t.ShowID] > 0 {
				candidates = append(candidates, t)
			}
		}
		score = func(t *models.Title) float64 { return together[t.ShowID] }
	default:
		key, _ := genre.ForKind(kind)
		for _, t := range titles {
			if t.ShowID != showID && t.Genre == key {
				candidates = append(candidates, t)
			}
		}
		score = func(*models.Title) float64 { return 0 }
	}
	return l.rank(candidates, score, idx), ctx.Err()
}
