package util

import (
	"regexp"
	"strings"
)

var (
	slugSeparators   = regexp.MustCompile(`[^a-z0-9]+`)
	posterDisallowed = regexp.MustCompile(`[^\w\s]`)
	posterSpaces     = regexp.MustCompile(`\s+`)
)

// Slugify derives a URL-safe identifier from a title: lower-case, every run
// of non-alphanumeric characters becomes one hyphen, and leading or trailing
// hyphens are dropped. Slugify(Slugify(x)) == Slugify(x). Distinct titles
// may share a slug.
func Slugify(title string) string {
	s := slugSeparators.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// PosterFile returns the poster image file name for a title. Punctuation is
// removed, whitespace collapsed, and ".jpg" appended. The file is not
// guaranteed to exist.
func PosterFile(title string) string {
	name := posterDisallowed.ReplaceAllString(title, "")
	name = posterSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name) + ".jpg"
}
