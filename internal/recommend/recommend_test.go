package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineniche/cineniche/internal/models"
)

func TestDecodeRefs(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		want    []Ref
		wantErr bool
	}{
		{"plain titles", `["Heat", "Dark"]`, []Ref{{Title: "Heat"}, {Title: "Dark"}}, false},
		{"objects", `[{"show_id":"s1","title":"Heat"}]`, []Ref{{ShowID: "s1", Title: "Heat"}}, false},
		{"mixed", `["Heat", {"title":"Dark"}]`, []Ref{{Title: "Heat"}, {Title: "Dark"}}, false},
		{"null", `null`, nil, false},
		{"empty", `[]`, []Ref{}, false},
		{"numbers", `[1, 2]`, nil, true},
		{"not an array", `{"title":"Heat"}`, nil, true},
		{"html error page", `<html>oops</html>`, nil, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			refs, err := DecodeRefs([]byte(tc.payload))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, refs)
		})
	}
}

func TestMatchTitles(t *testing.T) {
	catalog := []*models.Title{
		{ShowID: "s1", Title: "Heat"},
		{ShowID: "s2", Title: "Dark"},
		{ShowID: "s3", Title: "dark"},
	}

	t.Run("case and whitespace insensitive, not dedup aware", func(t *testing.T) {
		matched := MatchTitles(catalog, []Ref{{Title: "Heat"}, {Title: "heat "}})
		require.Len(t, matched, 2)
		assert.Same(t, catalog[0], matched[0])
		assert.Same(t, catalog[0], matched[1])
	})

	t.Run("first catalog title wins", func(t *testing.T) {
		matched := MatchTitles(catalog, []Ref{{Title: "DARK"}})
		require.Len(t, matched, 1)
		assert.Equal(t, "s2", matched[0].ShowID)
	})

	t.Run("identifier beats title", func(t *testing.T) {
		matched := MatchTitles(catalog, []Ref{{ShowID: "s3", Title: "Dark"}})
		require.Len(t, matched, 1)
		assert.Equal(t, "s3", matched[0].ShowID)
	})

	t.Run("unknown identifier falls back to title", func(t *testing.T) {
		matched := MatchTitles(catalog, []Ref{{ShowID: "s99", Title: "Heat"}})
		require.Len(t, matched, 1)
		assert.Equal(t, "s1", matched[0].ShowID)
	})

	t.Run("unmatched refs are dropped", func(t *testing.T) {
		assert.Empty(t, MatchTitles(catalog, []Ref{{Title: "Ronin"}}))
		assert.Empty(t, MatchTitles(catalog, nil))
	})
}

func TestValidKind(t *testing.T) {
	for _, k := range []string{"content", "collab", "action", "comedy", "drama"} {
		assert.True(t, ValidKind(k), k)
	}
	assert.False(t, ValidKind("horror"))
	assert.False(t, ValidKind("Content"))
}
