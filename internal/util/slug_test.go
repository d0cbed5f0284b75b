package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"The Dark Knight", "the-dark-knight"},
		{"  Ocean's 11  ", "ocean-s-11"},
		{"Spider-Man: Into the Spider-Verse", "spider-man-into-the-spider-verse"},
		{"---", ""},
		{"", ""},
		{"WALL·E", "wall-e"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	inputs := []string{
		"The Dark Knight",
		"Amélie",
		"  --Mixed__Case!!  ",
		"9",
		"a  b\tc\nd",
		"¿Qué?",
		"",
	}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "slugify not idempotent for %q", in)
	}
}

func TestPosterFile(t *testing.T) {
	assert.Equal(t, "Oceans 11.jpg", PosterFile("Ocean's 11"))
	assert.Equal(t, "Spider Man Homecoming.jpg", PosterFile("Spider  Man:  Homecoming"))
	assert.Equal(t, "Heat.jpg", PosterFile(" Heat "))
}
