// Package genre maps one-hot genre flags on catalog items to a single
// canonical genre label.
package genre

import (
	"regexp"
	"strings"
)

// DefaultFallback is the label given to titles with no genre flag set.
const DefaultFallback = "other"

// DefaultPriority is the genre ordering used when none is configured. It
// covers every flag column of the catalog schema, in schema order.
var DefaultPriority = NewPriority(
	"action",
	"adventure",
	"anime_series_international_tv_shows",
	"british_tv_shows_docuseries_international_tv_shows",
	"children",
	"comedies",
	"comedies_dramas_international_movies",
	"comedies_international_movies",
	"comedies_romantic_movies",
	"crime_tv_shows_docuseries",
	"documentaries",
	"documentaries_international_movies",
	"docuseries",
	"dramas",
	"dramas_international_movies",
	"dramas_romantic_movies",
	"family_movies",
	"fantasy",
	"horror_movies",
	"international_movies_thrillers",
	"international_tv_shows_romantic_tv_shows_tv_dramas",
	"kids_tv",
	"language_tv_shows",
	"musicals",
	"nature_tv",
	"reality_tv",
	"spirituality",
	"tv_action",
	"tv_comedies",
	"tv_dramas",
	"talk_shows_tv_comedies",
	"thrillers",
)

// kindGenres maps recommendation section kinds to the genre key they filter on.
var kindGenres = map[string]string{
	"action": "action",
	"comedy": "comedies",
	"drama":  "dramas",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Canonical lower-cases a genre key and joins its words with underscores,
// so "Kids' TV" and "kids_tv" name the same flag.
func Canonical(key string) string {
	key = nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(key)), "_")
	return strings.Trim(key, "_")
}

// Priority is an ordered list of genre keys. The first key whose flag is set
// on an item decides that item's genre.
type Priority struct {
	keys  []string
	index map[string]int
}

// NewPriority builds a Priority from keys in order. Keys are canonicalized
// and duplicates keep their first position.
func NewPriority(keys ...string) Priority {
	p := Priority{index: make(map[string]int, len(keys))}
	for _, k := range keys {
		k = Canonical(k)
		if k == "" {
			continue
		}
		if _, seen := p.index[k]; seen {
			continue
		}
		p.index[k] = len(p.keys)
		p.keys = append(p.keys, k)
	}
	return p
}

// Keys returns a copy of the ordered genre keys.
func (p Priority) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of genre keys.
func (p Priority) Len() int { return len(p.keys) }

// Contains reports whether key (in any spelling) is part of the priority list.
func (p Priority) Contains(key string) bool {
	_, ok := p.index[Canonical(key)]
	return ok
}

// Position returns the rank of key, or -1 when it is not listed.
func (p Priority) Position(key string) int {
	if i, ok := p.index[Canonical(key)]; ok {
		return i
	}
	return -1
}

// Normalize returns the first key, in priority order, whose flag equals 1.
// Items with several flags resolve to the earliest key; items with none
// resolve to fallback.
func (p Priority) Normalize(flags map[string]int, fallback string) string {
	for _, k := range p.keys {
		if flags[k] == 1 {
			return k
		}
	}
	return fallback
}

// ForKind resolves a recommendation kind ("action", "comedy", "drama") to
// its genre key.
func ForKind(kind string) (string, bool) {
	g, ok := kindGenres[strings.ToLower(kind)]
	return g, ok
}

// FormatName turns a genre key into a display label:
// "comedies_romantic_movies" becomes "Comedies Romantic Movies".
func FormatName(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		if w == "tv" {
			words[i] = "TV"
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
