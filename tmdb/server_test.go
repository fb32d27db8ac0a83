package tmdb

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tmdb3/cache"
	"github.com/s0up4200/tmdb3/locale"
)

const testAPIKey = "test-key"

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// fakeTMDB serves fixtures from testdata keyed by API path
type fakeTMDB struct {
	t      *testing.T
	server *httptest.Server
	routes map[string]string

	mu    sync.Mutex
	calls []call
}

func newFakeTMDB(t *testing.T, routes map[string]string) *fakeTMDB {
	t.Helper()
	f := &fakeTMDB{t: t, routes: routes}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTMDB) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/3/")
	c := call{Method: r.Method, Path: path, Query: r.URL.Query()}
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &c.Body)
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json;charset=utf-8")
	if r.URL.Query().Get("api_key") != testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`))
		return
	}
	fixture, ok := f.routes[path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
		return
	}
	data, err := os.ReadFile(filepath.Join("testdata", fixture))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if r.Method == http.MethodPost {
		w.WriteHeader(http.StatusCreated)
	}
	_, _ = w.Write(data)
}

// hits counts calls to path
func (f *fakeTMDB) hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeTMDB) last(path string) call {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Path == path {
			return f.calls[i]
		}
	}
	f.t.Fatalf("no call to %s", path)
	return call{}
}

func (f *fakeTMDB) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeTMDB) client(t *testing.T, store *cache.Cache, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithBaseURL(f.server.URL + "/3"),
		WithLocale(locale.New("en", "US", false)),
	}, opts...)
	c, err := NewClient(testAPIKey, store, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return c
}

var starWarsRoutes = map[string]string{
	"search/movie":                            "search_movie_star_wars.json",
	"movie/11":                                "movie_11.json",
	"movie/tt0076759":                         "movie_11.json",
	"movie/11/images":                         "movie_11_images.json",
	"movie/11/casts":                          "movie_11_casts.json",
	"movie/11/trailers":                       "movie_11_trailers.json",
	"movie/11/releases":                       "movie_11_releases.json",
	"configuration":                           "configuration.json",
	"account":                                 "account.json",
	"movie/11/rating":                         "status_success.json",
	"account/548/favorite":                    "status_success.json",
	"account/548/movie_watchlist":             "status_success.json",
	"account/548/favorite_movies":             "search_movie_star_wars.json",
	"person/2/credits":                        "person_2_credits.json",
	"tv/1399":                                 "tv_1399.json",
	"tv/1399/season/1":                        "tv_1399_season_1.json",
	"tv/1399/season/1/episode/1/external_ids": "tv_1399_season_1_episode_1_external_ids.json",
}
