// Package recommend fetches recommendation lists and splices them back
// into the local catalog.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cineniche/cineniche/internal/models"
)

// Details kinds accepted by Source.Details.
const (
	KindContent = "content"
	KindCollab  = "collab"
	KindAction  = "action"
	KindComedy  = "comedy"
	KindDrama   = "drama"
)

var kinds = map[string]bool{
	KindContent: true, KindCollab: true, KindAction: true, KindComedy: true, KindDrama: true,
}

// ValidKind reports whether kind is a known details kind.
func ValidKind(kind string) bool {
	return kinds[kind]
}

// Ref points at a recommended title. Services that only know display
// titles leave ShowID empty.
type Ref struct {
	ShowID string `json:"show_id,omitempty"`
	Title  string `json:"title"`
}

// UnmarshalJSON accepts either a bare title string or an object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		r.ShowID = ""
		return json.Unmarshal(data, &r.Title)
	}
	if len(data) > 0 && data[0] == '{' {
		type plain Ref
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*r = Ref(p)
		return nil
	}
	return fmt.Errorf("recommendation entry must be a string or an object, got %s", data)
}

// DecodeRefs parses a recommendation payload. A JSON null is an empty list.
func DecodeRefs(data []byte) ([]Ref, error) {
	var refs []Ref
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("malformed recommendation payload: %w", err)
	}
	return refs, nil
}

// Titles returns the display titles of refs.
func Titles(refs []Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Title)
	}
	return out
}

// Source produces recommendation lists.
type Source interface {
	Browse(ctx context.Context, userID int64) ([]Ref, error)
	BrowseGenre(ctx context.Context, genre string, userID int64) ([]Ref, error)
	Details(ctx context.Context, kind, showID string) ([]Ref, error)
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchTitles resolves refs against the catalog. Each ref yields at most
// one title: the one with its ShowID when set and present, otherwise the
// first title in catalog order whose trimmed, lower-cased name is equal.
// Duplicate refs yield duplicate titles.
func MatchTitles(catalog []*models.Title, refs []Ref) []*models.Title {
	byID := make(map[string]*models.Title, len(catalog))
	byName := make(map[string]*models.Title, len(catalog))
	for _, t := range catalog {
		if _, ok := byID[t.ShowID]; !ok {
			byID[t.ShowID] = t
		}
		key := normalizeTitle(t.Title)
		if _, ok := byName[key]; !ok {
			byName[key] = t
		}
	}

	out := make([]*models.Title, 0, len(refs))
	for _, ref := range refs {
		if ref.ShowID != "" {
			if t, ok := byID[ref.ShowID]; ok {
				out = append(out, t)
				continue
			}
		}
		if t, ok := byName[normalizeTitle(ref.Title)]; ok {
			out = append(out, t)
		}
	}
	return out
}
