package tmdb

import (
	"context"
	"fmt"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/pager"
	"github.com/s0up4200/tmdb3/request"
)

// Collection groups the movies of a franchise
type Collection struct {
	*element.Element
}

// Studio is a production company
type Studio struct {
	*element.Element
}

// Genre is a movie genre
type Genre struct {
	*element.Element
}

// List is a user curated movie list
type List struct {
	*element.Element
}

func (c *Client) Collection(id int) *Collection {
	return &Collection{c.element(CollectionType, element.Args{"id": id})}
}

func (c *Client) Studio(id int) *Studio {
	return &Studio{c.element(StudioType, element.Args{"id": id})}
}

// Genre returns a handle usable to list movies of genre id
func (c *Client) Genre(id int) *Genre {
	return &Genre{c.element(GenreType, element.Args{"id": id})}
}

// List ids are strings
func (c *Client) List(id string) *List {
	return &List{c.element(ListType, element.Args{"id": id})}
}

// Genres returns the movie genres with names in the locale language
func (c *Client) Genres(ctx context.Context) ([]*Genre, error) {
	value, err := c.pipeline.Execute(ctx, request.New("genre/list", request.Params{
		"language": nonEmpty(c.locale.Language),
	}))
	if err != nil {
		return nil, err
	}
	raw, err := object(value, "genre/list")
	if err != nil {
		return nil, err
	}
	items, _ := raw["genres"].([]any)
	out := make([]*Genre, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, &Genre{c.fromRaw(GenreType, obj)})
	}
	return out, nil
}

func (c *Collection) Name(ctx context.Context) (string, error) {
	return c.GetString(ctx, "name")
}

func (c *Collection) Overview(ctx context.Context) (string, error) {
	return c.GetString(ctx, "overview")
}

// Members lists the movies in the collection
func (c *Collection) Members(ctx context.Context) ([]*Movie, error) {
	return movies(ctx, c.Element, "members")
}

func (c *Collection) Posters(ctx context.Context) ([]*Image, error) {
	return images(ctx, c.Element, "posters")
}

func (s *Studio) Name(ctx context.Context) (string, error) {
	return s.GetString(ctx, "name")
}

func (s *Studio) Headquarters(ctx context.Context) (string, error) {
	return s.GetString(ctx, "headquarters")
}

func (s *Studio) Logo(ctx context.Context) (*Image, error) {
	e, err := s.GetChild(ctx, "logo")
	return AsImage(e), err
}

// Parent is nil for independent studios
func (s *Studio) Parent(ctx context.Context) (*Studio, error) {
	e, err := s.GetChild(ctx, "parent")
	if err != nil || e == nil {
		return nil, err
	}
	return &Studio{e}, nil
}

// Movies lists the studio's movies
func (s *Studio) Movies() *pager.Pager[*Movie] {
	return envMoviePager(s.Env(), "Studio", request.New(fmt.Sprintf("company/%s/movies", request.FormatValue(s.Arg("id"))), nil))
}

func (g *Genre) ID(ctx context.Context) (int, error) {
	return g.GetInt(ctx, "id")
}

func (g *Genre) Name(ctx context.Context) (string, error) {
	return g.GetString(ctx, "name")
}

// Movies lists movies of the genre
func (g *Genre) Movies() *pager.Pager[*Movie] {
	return envMoviePager(g.Env(), "Genre", request.New(fmt.Sprintf("genre/%s/movies", request.FormatValue(g.Arg("id"))), nil))
}

func (l *List) Name(ctx context.Context) (string, error) {
	return l.GetString(ctx, "name")
}

func (l *List) Author(ctx context.Context) (string, error) {
	return l.GetString(ctx, "author")
}

// Members lists the movies on the list
func (l *List) Members(ctx context.Context) ([]*Movie, error) {
	return movies(ctx, l.Element, "members")
}

func movies(ctx context.Context, e *element.Element, field string) ([]*Movie, error) {
	items, err := e.GetChildren(ctx, field)
	if err != nil {
		return nil, err
	}
	out := make([]*Movie, 0, len(items))
	for _, item := range items {
		out = append(out, &Movie{item})
	}
	return out, nil
}
