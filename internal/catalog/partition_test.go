package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineniche/cineniche/internal/genre"
	"github.com/cineniche/cineniche/internal/models"
)

type posterSet map[string]bool

func (p posterSet) Has(file string) bool { return p[file] }

func item(id, kind, title string, flags ...string) *models.CatalogItem {
	it := &models.CatalogItem{ShowID: id, Type: kind, Title: title}
	for _, f := range flags {
		it.SetGenre(f, true)
	}
	return it
}

func sampleItems() []*models.CatalogItem {
	return []*models.CatalogItem{
		item("s1", models.TypeMovie, "Heat", "action", "dramas"),
		item("s2", models.TypeTVShow, "Dark", "tv_dramas"),
		item("s3", models.TypeMovie, "Airplane!", "comedies"),
		item("s4", models.TypeMovie, "Untagged"),
		item("s5", models.TypeMovie, "Die Hard", "action"),
		item("s6", models.TypeTVShow, "The Office", "tv_comedies", "comedies"),
	}
}

func TestBuildTitles(t *testing.T) {
	p := genre.NewPriority("dramas", "comedies", "action", "tv_dramas")
	titles := BuildTitles(sampleItems(), p, "other", posterSet{"Airplane.jpg": true})

	require.Len(t, titles, 6)
	assert.Equal(t, "dramas", titles[0].Genre)
	assert.Equal(t, "Dramas", titles[0].GenreName)
	assert.Equal(t, "other", titles[3].Genre)
	assert.Equal(t, "comedies", titles[5].Genre)

	assert.Equal(t, "airplane", titles[2].Slug)
	assert.Equal(t, "Airplane.jpg", titles[2].PosterFile)
	assert.True(t, titles[2].PosterAvailable)
	assert.False(t, titles[0].PosterAvailable)

	noPosters := BuildTitles(sampleItems(), p, "other", nil)
	assert.False(t, noPosters[2].PosterAvailable)
}

func TestByGenre(t *testing.T) {
	p := genre.NewPriority("dramas", "comedies", "action", "horror_movies", "tv_dramas")
	titles := BuildTitles(sampleItems(), p, "other", nil)
	buckets := ByGenre(titles, p, "other")

	var keys []string
	for _, b := range buckets {
		keys = append(keys, b.Genre)
		assert.NotEmpty(t, b.Titles, "empty buckets are omitted")
	}
	assert.Equal(t, []string{"dramas", "comedies", "action", "tv_dramas", "other"}, keys)

	// catalog order inside a bucket
	assert.Equal(t, "Airplane!", buckets[1].Titles[0].Title)
	assert.Equal(t, "The Office", buckets[1].Titles[1].Title)

	// union of buckets is the input multiset
	counts := map[string]int{}
	for _, b := range buckets {
		for _, t := range b.Titles {
			counts[t.ShowID]++
		}
	}
	assert.Len(t, counts, len(titles))
	for _, n := range counts {
		assert.Equal(t, 1, n)
	}
}

func TestByGenreKeepsDuplicates(t *testing.T) {
	p := genre.NewPriority("action")
	items := []*models.CatalogItem{
		item("s1", models.TypeMovie, "Heat", "action"),
		item("s1", models.TypeMovie, "Heat", "action"),
	}
	buckets := ByGenre(BuildTitles(items, p, "other", nil), p, "other")
	require.Len(t, buckets, 1)
	assert.Len(t, buckets[0].Titles, 2)
}

func TestByType(t *testing.T) {
	titles := BuildTitles(sampleItems(), genre.DefaultPriority, genre.DefaultFallback, nil)
	films, series := ByType(titles)

	assert.Len(t, films, 4)
	assert.Len(t, series, 2)
	assert.Equal(t, "Heat", films[0].Title)
	assert.Equal(t, "Die Hard", films[3].Title)
	assert.Equal(t, "Dark", series[0].Title)

	assert.Equal(t, films, FilterCategory(titles, "films"))
	assert.Equal(t, series, FilterCategory(titles, "series"))
	assert.Equal(t, titles, FilterCategory(titles, "all"))
}

func TestFindAndSearch(t *testing.T) {
	items := append(sampleItems(), item("s7", models.TypeMovie, "heat", "thrillers"))
	titles := BuildTitles(items, genre.DefaultPriority, genre.DefaultFallback, nil)

	found, ok := FindBySlug(titles, "heat")
	require.True(t, ok)
	assert.Equal(t, "s1", found.ShowID, "first title in catalog order wins a slug collision")

	_, ok = FindBySlug(titles, "missing")
	assert.False(t, ok)

	byID, ok := FindByShowID(titles, "s7")
	require.True(t, ok)
	assert.Equal(t, "heat", byID.Title)

	assert.Len(t, Search(titles, "HEA"), 2)
	assert.Empty(t, Search(titles, "   "))
	assert.Len(t, FilterGenre(titles, "action"), 2)
}
