package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := NewPriority("dramas", "comedies", "action")

	testCases := []struct {
		name  string
		flags map[string]int
		want  string
	}{
		{"single flag", map[string]int{"action": 1}, "action"},
		{"earlier key wins", map[string]int{"action": 1, "comedies": 1}, "comedies"},
		{"all set", map[string]int{"action": 1, "comedies": 1, "dramas": 1}, "dramas"},
		{"zero flags", map[string]int{"action": 0}, DefaultFallback},
		{"nil flags", nil, DefaultFallback},
		{"unlisted flag ignored", map[string]int{"horror_movies": 1}, DefaultFallback},
		{"non-one values ignored", map[string]int{"dramas": 2, "action": 1}, "action"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Normalize(tc.flags, DefaultFallback))
		})
	}
}

func TestNormalizeMatchesFirstSetKey(t *testing.T) {
	// Every item resolves to the first priority key with value 1.
	keys := DefaultPriority.Keys()
	for i := range keys {
		flags := map[string]int{}
		for _, k := range keys[i:] {
			flags[k] = 1
		}
		assert.Equal(t, keys[i], DefaultPriority.Normalize(flags, "unknown"))
	}
	assert.Equal(t, "unknown", DefaultPriority.Normalize(map[string]int{}, "unknown"))
}

func TestPriorityCanonicalizesAndDedupes(t *testing.T) {
	p := NewPriority("Kids' TV", "kids_tv", " Dramas ", "", "feel-good")

	assert.Equal(t, []string{"kids_tv", "dramas", "feel_good"}, p.Keys())
	assert.True(t, p.Contains("Kids TV"))
	assert.Equal(t, 1, p.Position("DRAMAS"))
	assert.Equal(t, -1, p.Position("horror_movies"))
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "Comedies Romantic Movies", FormatName("comedies_romantic_movies"))
	assert.Equal(t, "TV Dramas", FormatName("tv_dramas"))
	assert.Equal(t, "Feel Good", FormatName("feel-good"))
	assert.Equal(t, "", FormatName(""))
}

func TestForKind(t *testing.T) {
	g, ok := ForKind("Comedy")
	assert.True(t, ok)
	assert.Equal(t, "comedies", g)

	_, ok = ForKind("content")
	assert.False(t, ok)
}
