package tmdb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/pager"
	"github.com/s0up4200/tmdb3/request"
)

// Years outside this open interval in a "Title (YYYY)" query are treated as
// part of the title
const (
	minSearchYear = 1885
	maxSearchYear = 2050
)

// MovieSearch narrows a movie search
type MovieSearch struct {
	Adult bool
	// Year is ignored when zero
	Year int
}

// SearchMovies searches movies by title
func (c *Client) SearchMovies(query string, opts MovieSearch) *pager.Pager[*Movie] {
	req := request.New("search/movie", request.Params{
		"query":         query,
		"include_adult": opts.Adult,
		"year":          positive(opts.Year),
	})
	return c.moviePager(searchName(query), req)
}

// SearchMovieWithYear accepts "Title (1977)" and searches for Title
// restricted to that year. Implausible years are left in the query.
func (c *Client) SearchMovieWithYear(query string, adult bool) *pager.Pager[*Movie] {
	title, year := splitYear(query)
	return c.SearchMovies(title, MovieSearch{Adult: adult, Year: year})
}

// SeriesSearch narrows a series search
type SeriesSearch struct {
	FirstAirDateYear int
	// SearchType is "phrase" or "ngram"
	SearchType string
}

// SearchSeries searches series by name
func (c *Client) SearchSeries(query string, opts SeriesSearch) *pager.Pager[*Series] {
	req := request.New("search/tv", request.Params{
		"query":               query,
		"first_air_date_year": positive(opts.FirstAirDateYear),
		"search_type":         nonEmpty(opts.SearchType),
	})
	return envSeriesPager(c.Env(), searchName(query), req)
}

// SearchPeople searches people by name
func (c *Client) SearchPeople(query string, adult bool) *pager.Pager[*Person] {
	env := c.Env()
	req := request.New("search/person", request.Params{
		"query":         query,
		"include_adult": adult,
	})
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *Person {
		return &Person{element.FromRaw(env, PersonType, raw, nil)}
	})
	p.SetName(searchName(query))
	return p
}

// SearchStudios searches production companies by name
func (c *Client) SearchStudios(query string) *pager.Pager[*Studio] {
	env := c.Env()
	req := request.New("search/company", request.Params{"query": query})
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *Studio {
		return &Studio{element.FromRaw(env, StudioType, raw, nil)}
	})
	p.SetName(searchName(query))
	return p
}

// SearchLists searches user lists by name
func (c *Client) SearchLists(query string, adult bool) *pager.Pager[*List] {
	env := c.Env()
	req := request.New("search/list", request.Params{
		"query":         query,
		"include_adult": adult,
	})
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *List {
		return &List{element.FromRaw(env, ListType, raw, nil)}
	})
	p.SetName(searchName(query))
	return p
}

// SearchCollections searches collections by name
func (c *Client) SearchCollections(query string) *pager.Pager[*Collection] {
	env := c.Env()
	req := request.New("search/collection", request.Params{
		"query":    query,
		"language": nonEmpty(env.Locale.Language),
	})
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *Collection {
		return &Collection{element.FromRaw(env, CollectionType, raw, nil)}
	})
	p.SetName(searchName(query))
	return p
}

// DiscoverMovieQuery holds discover/movie filters. Zero values are not sent.
type DiscoverMovieQuery struct {
	SortBy                string
	WithCast              []int
	WithCrew              []int
	WithGenres            []int
	WithoutGenres         []int
	WithCompanies         []int
	WithKeywords          []int
	WithoutKeywords       []int
	IncludeAdult          bool
	Year                  int
	Region                string
	PrimaryReleaseYear    int
	PrimaryReleaseDateGTE time.Time
	PrimaryReleaseDateLTE time.Time
	ReleaseDateGTE        time.Time
	ReleaseDateLTE        time.Time
	VoteAverageGTE        float64
	VoteAverageLTE        float64
	VoteCountGTE          int
	VoteCountLTE          int
	WithRuntimeGTE        int
	WithRuntimeLTE        int
	WithReleaseType       int
	WithOriginalLanguage  string
}

func (q DiscoverMovieQuery) params() request.Params {
	return request.Params{
		"sort_by":                  nonEmpty(q.SortBy),
		"with_cast":                ids(q.WithCast),
		"with_crew":                ids(q.WithCrew),
		"with_genres":              ids(q.WithGenres),
		"without_genres":           ids(q.WithoutGenres),
		"with_companies":           ids(q.WithCompanies),
		"with_keywords":            ids(q.WithKeywords),
		"without_keywords":         ids(q.WithoutKeywords),
		"include_adult":            q.IncludeAdult,
		"year":                     positive(q.Year),
		"region":                   nonEmpty(q.Region),
		"primary_release_year":     positive(q.PrimaryReleaseYear),
		"primary_release_date.gte": date(q.PrimaryReleaseDateGTE),
		"primary_release_date.lte": date(q.PrimaryReleaseDateLTE),
		"release_date.gte":         date(q.ReleaseDateGTE),
		"release_date.lte":         date(q.ReleaseDateLTE),
		"vote_average.gte":         positiveFloat(q.VoteAverageGTE),
		"vote_average.lte":         positiveFloat(q.VoteAverageLTE),
		"vote_count.gte":           positive(q.VoteCountGTE),
		"vote_count.lte":           positive(q.VoteCountLTE),
		"with_runtime.gte":         positive(q.WithRuntimeGTE),
		"with_runtime.lte":         positive(q.WithRuntimeLTE),
		"with_release_type":        positive(q.WithReleaseType),
		"with_original_language":   nonEmpty(q.WithOriginalLanguage),
	}
}

// DiscoverMovies lists movies matching q
func (c *Client) DiscoverMovies(q DiscoverMovieQuery) *pager.Pager[*Movie] {
	return c.moviePager("Discover Movie", request.New("discover/movie", q.params()))
}

// DiscoverSeriesQuery holds discover/tv filters. Zero values are not sent.
type DiscoverSeriesQuery struct {
	SortBy           string
	FirstAirDateYear int
	WithGenres       []int
	WithNetworks     []int
	WithoutGenres    []int
	WithoutKeywords  []int
	AirDateGTE       time.Time
	AirDateLTE       time.Time
	FirstAirDateGTE  time.Time
	FirstAirDateLTE  time.Time
	VoteAverageGTE   float64
	VoteCountGTE     int
	WithRuntimeGTE   int
	WithRuntimeLTE   int
}

func (q DiscoverSeriesQuery) params() request.Params {
	return request.Params{
		"sort_by":             nonEmpty(q.SortBy),
		"first_air_date_year": positive(q.FirstAirDateYear),
		"with_genres":         ids(q.WithGenres),
		"with_networks":       ids(q.WithNetworks),
		"without_genres":      ids(q.WithoutGenres),
		"without_keywords":    ids(q.WithoutKeywords),
		"air_date.gte":        date(q.AirDateGTE),
		"air_date.lte":        date(q.AirDateLTE),
		"first_air_date.gte":  date(q.FirstAirDateGTE),
		"first_air_date.lte":  date(q.FirstAirDateLTE),
		"vote_average.gte":    positiveFloat(q.VoteAverageGTE),
		"vote_count.gte":      positive(q.VoteCountGTE),
		"with_runtime.gte":    positive(q.WithRuntimeGTE),
		"with_runtime.lte":    positive(q.WithRuntimeLTE),
	}
}

// DiscoverSeries lists series matching q
func (c *Client) DiscoverSeries(q DiscoverSeriesQuery) *pager.Pager[*Series] {
	return envSeriesPager(c.Env(), "Discover Tv", request.New("discover/tv", q.params()))
}

// splitYear separates a trailing "(YYYY)" from query
func splitYear(query string) (string, int) {
	query = strings.TrimSpace(query)
	n := len(query)
	if n <= 6 || query[n-1] != ')' || query[n-6] != '(' {
		return query, 0
	}
	year, err := strconv.Atoi(query[n-5 : n-1])
	if err != nil || year <= minSearchYear || year >= maxSearchYear {
		return query, 0
	}
	return strings.TrimSpace(query[:n-6]), year
}

func searchName(query string) string {
	return fmt.Sprintf("Search for '%s'", query)
}

func positive(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}

func positiveFloat(f float64) any {
	if f <= 0 {
		return nil
	}
	return f
}

func date(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func ids(list []int) any {
	if len(list) == 0 {
		return nil
	}
	return list
}
