package tmdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/pager"
	"github.com/s0up4200/tmdb3/request"
)

// latestLifetime keeps "latest movie" lookups short lived
const latestLifetime request.Lifetime = 600

// Movie is a lazily loaded movie record
type Movie struct {
	*element.Element
}

// AsMovie wraps a movie element, including reverse credits. Other elements yield nil.
func AsMovie(e *element.Element) *Movie {
	if e == nil || !e.Type().Is(MovieType) {
		return nil
	}
	return &Movie{e}
}

// Movie returns a handle on movie id. Nothing is fetched until a field is read.
func (c *Client) Movie(id int) *Movie {
	return &Movie{c.element(MovieType, element.Args{"id": id})}
}

// MovieFromIMDB resolves a movie through its IMDb id. "tt" is added and the
// number padded to seven digits when missing.
func (c *Client) MovieFromIMDB(ctx context.Context, imdbID string) (*Movie, error) {
	id := normalizeIMDB(imdbID)
	value, err := c.pipeline.Execute(ctx, request.New("movie/"+id, request.Params{
		"language": nonEmpty(c.locale.Language),
	}))
	if err != nil {
		return nil, err
	}
	raw, err := object(value, "movie/"+id)
	if err != nil {
		return nil, err
	}
	return &Movie{c.fromRaw(MovieType, raw)}, nil
}

// LatestMovie returns the most recently added movie
func (c *Client) LatestMovie(ctx context.Context) (*Movie, error) {
	value, err := c.pipeline.Execute(ctx, request.New("movie/latest", nil).WithLifetime(latestLifetime))
	if err != nil {
		return nil, err
	}
	raw, err := object(value, "movie/latest")
	if err != nil {
		return nil, err
	}
	return &Movie{c.fromRaw(MovieType, raw)}, nil
}

// NowPlayingMovies lists movies currently in theatres
func (c *Client) NowPlayingMovies() *pager.Pager[*Movie] {
	return c.moviePager("Now Playing", request.New("movie/now_playing", nil))
}

// PopularMovies lists movies by popularity
func (c *Client) PopularMovies() *pager.Pager[*Movie] {
	return c.moviePager("Popular", request.New("movie/popular", nil))
}

// TopRatedMovies lists movies by rating
func (c *Client) TopRatedMovies() *pager.Pager[*Movie] {
	return c.moviePager("Top Rated", request.New("movie/top_rated", nil))
}

// UpcomingMovies lists movies about to be released
func (c *Client) UpcomingMovies() *pager.Pager[*Movie] {
	return c.moviePager("Upcoming", request.New("movie/upcoming", nil))
}

func (m *Movie) ID(ctx context.Context) (int, error) {
	return m.GetInt(ctx, "id")
}

func (m *Movie) Title(ctx context.Context) (string, error) {
	return m.GetString(ctx, "title")
}

func (m *Movie) OriginalTitle(ctx context.Context) (string, error) {
	return m.GetString(ctx, "originaltitle")
}

func (m *Movie) Tagline(ctx context.Context) (string, error) {
	return m.GetString(ctx, "tagline")
}

func (m *Movie) Overview(ctx context.Context) (string, error) {
	return m.GetString(ctx, "overview")
}

// Runtime is the running time in minutes
func (m *Movie) Runtime(ctx context.Context) (int, error) {
	return m.GetInt(ctx, "runtime")
}

// ReleaseDate is zero when unknown
func (m *Movie) ReleaseDate(ctx context.Context) (time.Time, error) {
	return m.GetTime(ctx, "releasedate")
}

func (m *Movie) IMDB(ctx context.Context) (string, error) {
	return m.GetString(ctx, "imdb")
}

func (m *Movie) UserRating(ctx context.Context) (float64, error) {
	return m.GetFloat(ctx, "userrating")
}

func (m *Movie) Poster(ctx context.Context) (*Image, error) {
	e, err := m.GetChild(ctx, "poster")
	return AsImage(e), err
}

func (m *Movie) Backdrop(ctx context.Context) (*Image, error) {
	e, err := m.GetChild(ctx, "backdrop")
	return AsImage(e), err
}

// Posters lists the poster images, locale language first
func (m *Movie) Posters(ctx context.Context) ([]*Image, error) {
	return images(ctx, m.Element, "posters")
}

// Backdrops lists the backdrop images, locale language first
func (m *Movie) Backdrops(ctx context.Context) ([]*Image, error) {
	return images(ctx, m.Element, "backdrops")
}

// Genres returns the genre names
func (m *Movie) Genres(ctx context.Context) ([]string, error) {
	return names(ctx, m.Element, "genres")
}

// Collection is nil when the movie is not part of one
func (m *Movie) Collection(ctx context.Context) (*Collection, error) {
	e, err := m.GetChild(ctx, "collection")
	if err != nil || e == nil {
		return nil, err
	}
	return &Collection{e}, nil
}

// Cast lists the credited actors in billing order
func (m *Movie) Cast(ctx context.Context) ([]*Person, error) {
	return people(ctx, m.Element, "cast")
}

func (m *Movie) Crew(ctx context.Context) ([]*Person, error) {
	return people(ctx, m.Element, "crew")
}

// Keywords returns the keyword names
func (m *Movie) Keywords(ctx context.Context) ([]string, error) {
	return names(ctx, m.Element, "keywords")
}

// Certification is the release certification in country, "" when unknown
func (m *Movie) Certification(ctx context.Context, country string) (string, error) {
	releases, err := m.GetMapping(ctx, "releases")
	if err != nil {
		return "", err
	}
	release, ok := releases[strings.ToUpper(country)]
	if !ok {
		return "", nil
	}
	return release.GetString(ctx, "certification")
}

// Trailers lists the YouTube trailer URLs
func (m *Movie) Trailers(ctx context.Context) ([]string, error) {
	items, err := m.GetChildren(ctx, "youtube_trailers")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, t := range items {
		source, err := t.GetString(ctx, "source")
		if err != nil {
			return nil, err
		}
		out = append(out, YouTubeURL(source))
	}
	return out, nil
}

// AlternateTitles lists the titles used in other countries, locale country first
func (m *Movie) AlternateTitles(ctx context.Context) ([]*element.Element, error) {
	return m.GetChildren(ctx, "alternate_titles")
}

// Similar lists movies related to this one
func (m *Movie) Similar() *pager.Pager[*Movie] {
	return envMoviePager(m.Env(), "Similar", request.New(fmt.Sprintf("movie/%s/similar_movies", request.FormatValue(m.Arg("id"))), nil))
}

// Lists returns the user lists containing this movie
func (m *Movie) Lists() *pager.Pager[*List] {
	env := m.Env()
	req := request.New(fmt.Sprintf("movie/%s/lists", request.FormatValue(m.Arg("id"))), nil)
	return pager.New(env.Fetcher, req, func(raw map[string]any) *List {
		return &List{element.FromRaw(env, ListType, raw, nil)}
	})
}

// YouTubeURL is the watch address of a YouTube trailer source
func YouTubeURL(source string) string {
	return "http://www.youtube.com/watch?v=" + source
}

func (c *Client) moviePager(name string, req *request.Request) *pager.Pager[*Movie] {
	return envMoviePager(c.Env(), name, req)
}

// envMoviePager injects the locale language and builds movies from results
func envMoviePager(env element.Env, name string, req *request.Request) *pager.Pager[*Movie] {
	req = req.With(request.Params{"language": nonEmpty(env.Locale.Language)})
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *Movie {
		return &Movie{element.FromRaw(env, MovieType, raw, nil)}
	})
	p.SetName(name)
	return p
}

func normalizeIMDB(id string) string {
	id = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(id)), "tt")
	if n, err := strconv.Atoi(id); err == nil {
		return fmt.Sprintf("tt%07d", n)
	}
	return "tt" + id
}

func object(value any, endpoint string) (map[string]any, error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(request.ErrUnexpectedResponse, "%s: got %T", endpoint, value)
	}
	return raw, nil
}

func images(ctx context.Context, e *element.Element, name string) ([]*Image, error) {
	items, err := e.GetChildren(ctx, name)
	if err != nil {
		return nil, err
	}
	out := make([]*Image, 0, len(items))
	for _, item := range items {
		out = append(out, &Image{item})
	}
	return out, nil
}

func names(ctx context.Context, e *element.Element, field string) ([]string, error) {
	items, err := e.GetChildren(ctx, field)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		name, err := item.GetString(ctx, "name")
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}
