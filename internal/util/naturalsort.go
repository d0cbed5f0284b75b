package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	titleChunks     = regexp.MustCompile(`\d+|\D+`)
	leadingArticles = []string{"the ", "a ", "an "}
)

// sortKey is one run of a title: either digits, compared by value, or
// lower-cased text.
type sortKey struct {
	text   string
	number int
	digits bool
}

// sortKeys lower-cases title, drops a leading article and splits the rest
// into digit and text runs.
func sortKeys(title string) []sortKey {
	s := strings.ToLower(strings.TrimSpace(title))
	for _, article := range leadingArticles {
		if rest, ok := strings.CutPrefix(s, article); ok && strings.TrimSpace(rest) != "" {
			s = strings.TrimSpace(rest)
			break
		}
	}

	chunks := titleChunks.FindAllString(s, -1)
	keys := make([]sortKey, 0, len(chunks))
	for _, c := range chunks {
		if n, err := strconv.Atoi(c); err == nil {
			keys = append(keys, sortKey{number: n, digits: true})
			continue
		}
		keys = append(keys, sortKey{text: c})
	}
	return keys
}

// NaturalSortLess orders titles the way a shelf would: "Ocean's 8" before
// "Ocean's 11", case ignored, and "The Godfather" filed under G. Show ids
// such as s2 and s10 sort by their number.
func NaturalSortLess(a, b string) bool {
	ka, kb := sortKeys(a), sortKeys(b)
	for i := range min(len(ka), len(kb)) {
		x, y := ka[i], kb[i]
		if x.digits != y.digits {
			return x.digits
		}
		if x.digits && x.number != y.number {
			return x.number < y.number
		}
		if !x.digits && x.text != y.text {
			return x.text < y.text
		}
	}
	return len(ka) < len(kb)
}
