package tmdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitYear(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantTitle string
		wantYear  int
	}{
		{name: "title with year", query: "Star Wars (1977)", wantTitle: "Star Wars", wantYear: 1977},
		{name: "no year", query: "Star Wars", wantTitle: "Star Wars"},
		{name: "year too early", query: "Roundhay (1885)", wantTitle: "Roundhay (1885)"},
		{name: "year too late", query: "Future (2050)", wantTitle: "Future (2050)"},
		{name: "not a number", query: "Film (abcd)", wantTitle: "Film (abcd)"},
		{name: "only a year", query: "(1977)", wantTitle: "(1977)"},
		{name: "number in title", query: "Blade Runner 2049 (2017)", wantTitle: "Blade Runner 2049", wantYear: 2017},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, year := splitYear(tt.query)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}

func TestSearchMovieWithYear(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)

	results := c.SearchMovieWithYear("Star Wars (1977)", false)
	assert.Equal(t, "Search for 'Star Wars'", results.Name())
	n, err := results.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	q := f.last("search/movie").Query
	assert.Equal(t, "Star Wars", q.Get("query"))
	assert.Equal(t, "1977", q.Get("year"))
}

func TestSearchOmitsUnsetParameters(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)

	_, err := c.SearchMovies("Star Wars", MovieSearch{}).Len(context.Background())
	require.NoError(t, err)
	q := f.last("search/movie").Query
	assert.False(t, q.Has("year"))
	assert.True(t, q.Has("include_adult"))
}

func TestDiscoverMovieParams(t *testing.T) {
	q := DiscoverMovieQuery{
		SortBy:                "popularity.desc",
		WithGenres:            []int{878, 12},
		PrimaryReleaseDateGTE: time.Date(1977, 1, 1, 0, 0, 0, 0, time.UTC),
		VoteAverageGTE:        7.5,
	}
	params := q.params()

	assert.Equal(t, "popularity.desc", params["sort_by"])
	assert.Equal(t, []int{878, 12}, params["with_genres"])
	assert.Equal(t, 7.5, params["vote_average.gte"])
	assert.Nil(t, params["year"])
	assert.Nil(t, params["with_cast"])

	f := newFakeTMDB(t, map[string]string{"discover/movie": "search_movie_star_wars.json"})
	c := f.client(t, nil)
	results := c.DiscoverMovies(q)
	first, err := results.At(context.Background(), 0)
	require.NoError(t, err)
	title, err := first.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Star Wars", title)

	sent := f.last("discover/movie").Query
	assert.Equal(t, "878,12", sent.Get("with_genres"))
	assert.Equal(t, "1977-01-01", sent.Get("primary_release_date.gte"))
	assert.Equal(t, "7.5", sent.Get("vote_average.gte"))
	assert.Equal(t, "en", sent.Get("language"))
	assert.False(t, sent.Has("region"))
}

func TestSimilarMovies(t *testing.T) {
	f := newFakeTMDB(t, map[string]string{"movie/11/similar_movies": "search_movie_star_wars.json"})
	c := f.client(t, nil)

	similar := c.Movie(11).Similar()
	last, err := similar.At(context.Background(), -1)
	require.NoError(t, err)
	id, err := last.ID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 778442, id)
	assert.Equal(t, "1", f.last("movie/11/similar_movies").Query.Get("page"))
}
