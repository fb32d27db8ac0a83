package tmdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tmdb3/cache"
	"github.com/s0up4200/tmdb3/locale"
	"github.com/s0up4200/tmdb3/request"
)

func TestStarWarsEndToEnd(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	ctx := context.Background()

	results := c.SearchMovies("Star Wars", MovieSearch{Year: 1977})
	n, err := results.Len(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)

	first, err := results.At(ctx, 0)
	require.NoError(t, err)
	title, err := first.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Star Wars", title)
	id, err := first.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, id)

	// title and id come with the search result
	assert.Equal(t, 1, f.total())
	q := f.last("search/movie").Query
	assert.Equal(t, "Star Wars", q.Get("query"))
	assert.Equal(t, "1977", q.Get("year"))
	assert.Equal(t, "false", q.Get("include_adult"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "<Movie 'Star Wars' (1977)>", first.Describe())

	tagline, err := first.Tagline(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A long time ago in a galaxy far, far away...", tagline)
	runtime, err := first.Runtime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 121, runtime)
	released, err := first.ReleaseDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1977, 5, 25, 0, 0, 0, 0, time.UTC), released)

	assert.Equal(t, 1, f.hits("movie/11"))
	assert.Equal(t, "en", f.last("movie/11").Query.Get("language"))
}

func TestMovieGroups(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	ctx := context.Background()
	m := c.Movie(11)

	t.Run("posters prefer locale language", func(t *testing.T) {
		posters, err := m.Posters(ctx)
		require.NoError(t, err)
		var langs []string
		for _, p := range posters {
			lang, err := p.Language(ctx)
			require.NoError(t, err)
			langs = append(langs, lang)
		}
		assert.Equal(t, []string{"en", "en", "de", "fr"}, langs)

		name, err := posters[0].Filename(ctx)
		require.NoError(t, err)
		assert.Equal(t, "6FfCtAuVAW8XJjZ7eWeLibRLWTw.jpg", name)
		assert.Equal(t, KindPoster, posters[0].Kind())
		assert.Equal(t, "en", f.last("movie/11/images").Query.Get("language"))

		backdrops, err := m.Backdrops(ctx)
		require.NoError(t, err)
		lang, err := backdrops[0].Language(ctx)
		require.NoError(t, err)
		assert.Equal(t, "en", lang)
		assert.Equal(t, 1, f.hits("movie/11/images"))
	})

	t.Run("cast in billing order", func(t *testing.T) {
		cast, err := m.Cast(ctx)
		require.NoError(t, err)
		require.Len(t, cast, 3)
		want := []string{"Mark Hamill", "Harrison Ford", "Carrie Fisher"}
		for i, p := range cast {
			name, err := p.Name(ctx)
			require.NoError(t, err)
			assert.Equal(t, want[i], name)
		}
		character, err := cast[0].Character(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Luke Skywalker", character)

		crew, err := m.Crew(ctx)
		require.NoError(t, err)
		require.Len(t, crew, 1)
		job, err := crew[0].Job(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Director", job)

		assert.Equal(t, 1, f.hits("movie/11/casts"))
		assert.Zero(t, f.hits("person/2"))
	})

	t.Run("trailers and releases", func(t *testing.T) {
		trailers, err := m.Trailers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"http://www.youtube.com/watch?v=vZ734NWnAHA"}, trailers)

		cert, err := m.Certification(ctx, "us")
		require.NoError(t, err)
		assert.Equal(t, "PG", cert)
		cert, err = m.Certification(ctx, "FR")
		require.NoError(t, err)
		assert.Empty(t, cert)
		assert.Equal(t, 1, f.hits("movie/11/releases"))
	})

	t.Run("nested entities come with the movie", func(t *testing.T) {
		genres, err := m.Genres(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Adventure", "Action", "Science Fiction"}, genres)

		coll, err := m.Collection(ctx)
		require.NoError(t, err)
		require.NotNil(t, coll)
		name, err := coll.Name(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Star Wars Collection", name)
		assert.Zero(t, f.hits("collection/10"))
		assert.Equal(t, 1, f.hits("movie/11"))
	})
}

func TestImageLanguageFallthrough(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil, WithLocale(locale.New("en", "US", true)))

	_, err := c.Movie(11).Posters(context.Background())
	require.NoError(t, err)
	assert.False(t, f.last("movie/11/images").Query.Has("language"))
}

func TestClientIn(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)

	_, err := c.In(locale.New("de", "DE", false)).Movie(11).Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "de", f.last("movie/11").Query.Get("language"))
	assert.Equal(t, "en", c.Locale().Language)
}

func TestImageURL(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	ctx := context.Background()

	poster, err := c.Movie(11).Poster(ctx)
	require.NoError(t, err)
	require.NotNil(t, poster)

	url, err := c.ImageURL(ctx, poster, "w500")
	require.NoError(t, err)
	assert.Equal(t, "http://image.tmdb.org/t/p/w500/6FfCtAuVAW8XJjZ7eWeLibRLWTw.jpg", url)

	_, err = c.ImageURL(ctx, poster, "w9999")
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "size", verr.Field)
	assert.True(t, errors.Is(err, ErrInvalid))

	backdrop, err := c.Movie(11).Backdrop(ctx)
	require.NoError(t, err)
	_, err = c.ImageURL(ctx, backdrop, "w92")
	assert.True(t, errors.Is(err, ErrInvalid), "w92 is a poster size only")

	assert.Equal(t, 1, f.hits("configuration"))
}

func TestSharedCache(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	ctx := context.Background()

	store := cache.New(zerolog.Nop())
	require.NoError(t, store.Configure(ctx, "file", cache.Options{Path: filepath.Join(t.TempDir(), "cache.db")}))
	t.Cleanup(func() { _ = store.Close() })

	reg := prometheus.NewRegistry()
	first := f.client(t, store, WithMetrics(request.NewMetrics(reg, "tmdb3")))
	tagline, err := first.Movie(11).Tagline(ctx)
	require.NoError(t, err)

	second := f.client(t, store)
	cached, err := second.Movie(11).Tagline(ctx)
	require.NoError(t, err)
	assert.Equal(t, tagline, cached)
	budget, err := second.Movie(11).GetInt(ctx, "budget")
	require.NoError(t, err)
	assert.Equal(t, 11000000, budget)

	assert.Equal(t, 1, f.hits("movie/11"))

	assert.Equal(t, "file", activeEngine(t, reg))
}

func activeEngine(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "tmdb3_cache_engine_info" {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetLabel()[0].GetValue()
		}
	}
	return ""
}

func TestEngineMetricFollowsConfigure(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	ctx := context.Background()
	store := cache.New(zerolog.Nop())

	reg := prometheus.NewRegistry()
	f.client(t, store, WithMetrics(request.NewMetrics(reg, "tmdb3")))
	assert.Equal(t, "none", activeEngine(t, reg))

	require.NoError(t, store.Configure(ctx, "file", cache.Options{Path: filepath.Join(t.TempDir(), "cache.db")}))
	assert.Equal(t, "file", activeEngine(t, reg))

	require.NoError(t, store.Close())
	assert.Equal(t, "none", activeEngine(t, reg))
}

func TestFetchErrorsSurface(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	ctx := context.Background()

	m := c.Movie(999)
	_, err := m.Title(ctx)
	require.Error(t, err)
	assert.True(t, request.IsNotFound(err))
	var fe *request.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "The resource you requested could not be found.", fe.Message)
	assert.NotContains(t, fe.Error(), testAPIKey)

	// a failed fetch is retried on the next read
	_, err = m.Title(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, f.hits("movie/999"))
}

func TestUnauthorized(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c, err := NewClient("wrong", nil, zerolog.Nop(), WithBaseURL(f.server.URL+"/3"))
	require.NoError(t, err)

	_, err = c.Movie(11).Title(context.Background())
	var fe *request.FetchError
	require.True(t, errors.As(err, &fe))
	assert.True(t, fe.IsUnauthorized())
}

func TestMovieFromIMDB(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "tt0076759", want: "tt0076759"},
		{in: "TT0076759", want: "tt0076759"},
		{in: "76759", want: "tt0076759"},
		{in: " 0076759 ", want: "tt0076759"},
		{in: "tt12345678", want: "tt12345678"},
		{in: "abc", want: "ttabc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeIMDB(tt.in))
		})
	}

	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	m, err := c.MovieFromIMDB(context.Background(), "76759")
	require.NoError(t, err)
	title, err := m.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Star Wars", title)
	assert.Equal(t, 1, f.hits("movie/tt0076759"))
	assert.Equal(t, 1, f.total())
}

func TestPersonCredits(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	ctx := context.Background()

	roles, err := c.Person(2).Roles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	title, err := roles[1].Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The Empire Strikes Back", title)
	character, err := roles[1].Character(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Luke Skywalker", character)
	job, err := roles[1].Job(ctx)
	require.NoError(t, err)
	assert.Empty(t, job)

	assert.Equal(t, "en", f.last("person/2/credits").Query.Get("language"))
	assert.Equal(t, 1, f.total())
}
