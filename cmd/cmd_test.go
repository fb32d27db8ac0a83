package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const searchResults = `{
  "page": 1,
  "total_pages": 1,
  "total_results": 3,
  "results": [
    {"id": 11, "title": "Star Wars", "release_date": "1977-05-25", "vote_average": 8.2, "genre_ids": [12, 28, 878]},
    {"id": 1893, "title": "Star Wars: Episode I - The Phantom Menace", "release_date": "1999-05-19", "vote_average": 6.5, "genre_ids": [12, 28, 878]},
    {"id": 1000000, "title": "Star Wars Documentary", "release_date": "", "vote_average": 0, "genre_ids": [99]}
  ]
}`

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: float64(11), want: "11"},
		{in: float64(1000000), want: "1000000"},
		{in: 7.5, want: "7.5"},
		{in: 42, want: "42"},
		{in: nil, want: ""},
		{in: "tt0076759", want: "tt0076759"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, number(tt.in))
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]any
		want string
	}{
		{name: "movie", rec: map[string]any{"title": "Star Wars", "release_date": "1977-05-25"}, want: "Star Wars (1977)"},
		{name: "series", rec: map[string]any{"name": "Game of Thrones", "first_air_date": "2011-04-17"}, want: "Game of Thrones (2011)"},
		{name: "no date", rec: map[string]any{"name": "Lucasfilm", "release_date": ""}, want: "Lucasfilm"},
		{name: "empty", rec: map[string]any{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, label(tt.rec))
		})
	}
}

func TestField(t *testing.T) {
	var buf bytes.Buffer
	field(&buf, "Title", "Star Wars")
	field(&buf, "Runtime", 0)
	field(&buf, "Released", time.Time{})
	field(&buf, "Genres", []string{"Adventure", "Action"})
	field(&buf, "Tagline", "")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title:         Star Wars", lines[0])
	assert.Equal(t, "Genres:        Adventure, Action", lines[1])
}

func TestRender(t *testing.T) {
	value := map[string]any{"id": 11, "title": "Star Wars"}
	text := func(w io.Writer) error {
		_, err := w.Write([]byte("text\n"))
		return err
	}

	defer func(prev string) { output = prev }(output)

	tests := []struct {
		format string
		check  func(t *testing.T, out []byte)
	}{
		{format: "text", check: func(t *testing.T, out []byte) {
			assert.Equal(t, "text\n", string(out))
		}},
		{format: "json", check: func(t *testing.T, out []byte) {
			var got map[string]any
			require.NoError(t, json.Unmarshal(out, &got))
			assert.Equal(t, "Star Wars", got["title"])
		}},
		{format: "yaml", check: func(t *testing.T, out []byte) {
			var got map[string]any
			require.NoError(t, yaml.Unmarshal(out, &got))
			assert.Equal(t, 11, got["id"])
		}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			output = tt.format
			var buf bytes.Buffer
			require.NoError(t, render(&buf, value, text))
			tt.check(t, buf.Bytes())
		})
	}
}

func writeConfig(t *testing.T, baseURL, engine string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "tmdb:\n" +
		"  api_key: test-key\n" +
		"  base_url: " + baseURL + "\n" +
		"cache:\n" +
		"  engine: " + engine + "\n" +
		"  file:\n" +
		"    path: " + filepath.Join(t.TempDir(), "cache.db") + "\n" +
		"logging:\n" +
		"  level: error\n" +
		"filter:\n" +
		"  Classics: \"yearOf(release_date) < 1990\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	client = nil
	filterExpr, preset = "", ""
	t.Cleanup(func() { client = nil })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCommand(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/search/movie" {
			http.NotFound(w, r)
			return
		}
		queries = append(queries, r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResults))
	}))
	defer server.Close()
	cfgPath := writeConfig(t, server.URL+"/3", "none")

	t.Run("filter expression", func(t *testing.T) {
		out, err := execute(t, "--config", cfgPath, "-o", "json",
			"search", "movie", "Star", "Wars", "--filter", "vote_average > 7 && hasGenre(878)")
		require.NoError(t, err)

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Star Wars", records[0]["title"])
		assert.Equal(t, "Star Wars", queries[len(queries)-1])
	})

	t.Run("preset from config", func(t *testing.T) {
		out, err := execute(t, "--config", cfgPath, "-o", "text",
			"search", "movie", "Star Wars (1977)", "--preset", "classics")
		require.NoError(t, err)
		assert.Contains(t, out, "       11  Star Wars (1977)")
		assert.NotContains(t, out, "Phantom Menace")
		assert.Equal(t, "Star Wars", queries[len(queries)-1])
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := execute(t, "--config", cfgPath, "search", "movie", "Star Wars", "--preset", "missing")
		assert.ErrorContains(t, err, "preset 'missing' not found")
	})

	t.Run("bad output format", func(t *testing.T) {
		_, err := execute(t, "--config", cfgPath, "-o", "xml", "search", "movie", "Star Wars")
		assert.ErrorContains(t, err, "invalid output format")
	})
}

func TestCacheInfoCommand(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1/3", "file")

	out, err := execute(t, "--config", cfgPath, "-o", "yaml", "cache", "info")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, "file", info["engine"])
	assert.Equal(t, false, info["remote"])
	assert.Equal(t, "1h", info["default_lifetime"])
}

// fixtureServer serves tmdb/testdata by API path and counts requests per path
func fixtureServer(t *testing.T, routes map[string]string) (*httptest.Server, func(path string) int) {
	t.Helper()
	var mu sync.Mutex
	hits := make(map[string]int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/3/")
		mu.Lock()
		hits[path]++
		mu.Unlock()
		fixture, ok := routes[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
			return
		}
		data, err := os.ReadFile(filepath.Join("..", "tmdb", "testdata", fixture))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server, func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return hits[path]
	}
}

func TestCacheExpireCommand(t *testing.T) {
	server, hits := fixtureServer(t, map[string]string{
		"movie/11":          "movie_11.json",
		"movie/11/casts":    "movie_11_casts.json",
		"movie/11/releases": "movie_11_releases.json",
		"configuration":     "configuration.json",
	})
	cfgPath := writeConfig(t, server.URL+"/3", "file")

	_, err := execute(t, "--config", cfgPath, "-o", "json", "movie", "11")
	require.NoError(t, err)
	require.Equal(t, 1, hits("movie/11/casts"))

	_, err = execute(t, "--config", cfgPath, "-o", "json", "movie", "11")
	require.NoError(t, err)
	assert.Equal(t, 1, hits("movie/11/casts"), "second run is served from the file cache")

	t.Run("language added by default", func(t *testing.T) {
		_, err := execute(t, "--config", cfgPath, "cache", "expire", "movie/11")
		require.NoError(t, err)
		_, err = execute(t, "--config", cfgPath, "-o", "json", "movie", "11")
		require.NoError(t, err)
		assert.Equal(t, 2, hits("movie/11"))
		assert.Equal(t, 1, hits("movie/11/casts"))
	})

	t.Run("empty language addresses unlocalized endpoints", func(t *testing.T) {
		_, err := execute(t, "--config", cfgPath, "cache", "expire", "/movie/11/casts", "language=")
		require.NoError(t, err)
		_, err = execute(t, "--config", cfgPath, "-o", "json", "movie", "11")
		require.NoError(t, err)
		assert.Equal(t, 2, hits("movie/11/casts"))
		assert.Equal(t, 2, hits("movie/11"))
	})

	t.Run("malformed parameter", func(t *testing.T) {
		_, err := execute(t, "--config", cfgPath, "cache", "expire", "movie/11", "language")
		assert.ErrorContains(t, err, "expected name=value")
	})
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "2026-01-01")
	defer SetVersion("dev", "unknown")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tmdb3 1.2.3 (built 2026-01-01"))
}
