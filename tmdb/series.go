package tmdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/pager"
	"github.com/s0up4200/tmdb3/request"
)

// Series is a television show
type Series struct {
	*element.Element
}

// Season is one season of a series
type Season struct {
	*element.Element
}

// Episode is one episode of a season
type Episode struct {
	*element.Element
}

// Series returns a handle on series id
func (c *Client) Series(id int) *Series {
	return &Series{c.element(SeriesType, element.Args{"id": id})}
}

// Season returns a handle on one season without loading the series
func (c *Client) Season(seriesID, season int) *Season {
	return &Season{c.element(SeasonType, element.Args{
		"series_id":     seriesID,
		"season_number": season,
	})}
}

// Episode returns a handle on one episode without loading the season
func (c *Client) Episode(seriesID, season, episode int) *Episode {
	return &Episode{c.element(EpisodeType, element.Args{
		"series_id":      seriesID,
		"season_number":  season,
		"episode_number": episode,
	})}
}

// PopularSeries lists series by popularity
func (c *Client) PopularSeries() *pager.Pager[*Series] {
	return envSeriesPager(c.Env(), "Popular", request.New("tv/popular", nil))
}

// TopRatedSeries lists series by rating
func (c *Client) TopRatedSeries() *pager.Pager[*Series] {
	return envSeriesPager(c.Env(), "Top Rated", request.New("tv/top_rated", nil))
}

func (s *Series) ID(ctx context.Context) (int, error) {
	return s.GetInt(ctx, "id")
}

func (s *Series) Name(ctx context.Context) (string, error) {
	return s.GetString(ctx, "name")
}

func (s *Series) Overview(ctx context.Context) (string, error) {
	return s.GetString(ctx, "overview")
}

func (s *Series) Status(ctx context.Context) (string, error) {
	return s.GetString(ctx, "status")
}

func (s *Series) FirstAirDate(ctx context.Context) (time.Time, error) {
	return s.GetTime(ctx, "first_air_date")
}

func (s *Series) Poster(ctx context.Context) (*Image, error) {
	e, err := s.GetChild(ctx, "poster")
	return AsImage(e), err
}

func (s *Series) Genres(ctx context.Context) ([]string, error) {
	return names(ctx, s.Element, "genres")
}

func (s *Series) Networks(ctx context.Context) ([]string, error) {
	return names(ctx, s.Element, "networks")
}

func (s *Series) Cast(ctx context.Context) ([]*Person, error) {
	return people(ctx, s.Element, "cast")
}

func (s *Series) Keywords(ctx context.Context) ([]string, error) {
	return names(ctx, s.Element, "keywords")
}

// Seasons returns the seasons ordered by number. Specials are season 0.
func (s *Series) Seasons(ctx context.Context) ([]*Season, error) {
	m, err := s.GetMapping(ctx, "seasons")
	if err != nil {
		return nil, err
	}
	numbers := make([]int, 0, len(m))
	for k := range m {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	out := make([]*Season, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, &Season{m[strconv.Itoa(n)]})
	}
	return out, nil
}

// Season returns season n, or nil when the series has no such season
func (s *Series) Season(ctx context.Context, n int) (*Season, error) {
	m, err := s.GetMapping(ctx, "seasons")
	if err != nil {
		return nil, err
	}
	e, ok := m[strconv.Itoa(n)]
	if !ok {
		return nil, nil
	}
	return &Season{e}, nil
}

// Similar lists series related to this one
func (s *Series) Similar() *pager.Pager[*Series] {
	return envSeriesPager(s.Env(), "Similar", request.New(fmt.Sprintf("tv/%s/similar", request.FormatValue(s.Arg("id"))), nil))
}

func (s *Season) Number() int {
	return intArg(s.Element, "season_number")
}

func (s *Season) Name(ctx context.Context) (string, error) {
	return s.GetString(ctx, "name")
}

func (s *Season) AirDate(ctx context.Context) (time.Time, error) {
	return s.GetTime(ctx, "air_date")
}

func (s *Season) Poster(ctx context.Context) (*Image, error) {
	e, err := s.GetChild(ctx, "poster")
	return AsImage(e), err
}

// Episodes returns the episodes ordered by number
func (s *Season) Episodes(ctx context.Context) ([]*Episode, error) {
	m, err := s.GetMapping(ctx, "episodes")
	if err != nil {
		return nil, err
	}
	out := make([]*Episode, 0, len(m))
	for _, e := range m {
		out = append(out, &Episode{e})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number() < out[j].Number()
	})
	return out, nil
}

// Episode returns episode n, or nil when the season has no such episode
func (s *Season) Episode(ctx context.Context, n int) (*Episode, error) {
	m, err := s.GetMapping(ctx, "episodes")
	if err != nil {
		return nil, err
	}
	e, ok := m[strconv.Itoa(n)]
	if !ok {
		return nil, nil
	}
	return &Episode{e}, nil
}

func (e *Episode) Number() int {
	return intArg(e.Element, "episode_number")
}

func (e *Episode) SeasonNumber() int {
	return intArg(e.Element, "season_number")
}

func (e *Episode) Name(ctx context.Context) (string, error) {
	return e.GetString(ctx, "name")
}

func (e *Episode) Overview(ctx context.Context) (string, error) {
	return e.GetString(ctx, "overview")
}

func (e *Episode) AirDate(ctx context.Context) (time.Time, error) {
	return e.GetTime(ctx, "air_date")
}

func (e *Episode) Still(ctx context.Context) (*Image, error) {
	el, err := e.GetChild(ctx, "still")
	return AsImage(el), err
}

// GuestStars lists the credited guests in billing order
func (e *Episode) GuestStars(ctx context.Context) ([]*Person, error) {
	return people(ctx, e.Element, "guest_stars")
}

// IMDB is read from the external ids
func (e *Episode) IMDB(ctx context.Context) (string, error) {
	return e.GetString(ctx, "imdb_id")
}

func envSeriesPager(env element.Env, name string, req *request.Request) *pager.Pager[*Series] {
	req = req.With(request.Params{"language": nonEmpty(env.Locale.Language)})
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *Series {
		return &Series{element.FromRaw(env, SeriesType, raw, nil)}
	})
	p.SetName(name)
	return p
}
