package tmdb

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/locale"
	"github.com/s0up4200/tmdb3/pager"
	"github.com/s0up4200/tmdb3/request"
)

// Account is the user behind the session
type Account struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	IncludeAdult bool   `json:"include_adult"`
	Language     string `json:"iso_639_1"`
	Country      string `json:"iso_3166_1"`
}

// Locale is the account's preferred locale
func (a *Account) Locale() locale.Locale {
	return locale.New(a.Language, a.Country, false)
}

type rating struct {
	Value float64 `validate:"gte=0,lte=10"`
}

// Account loads the session's account
func (c *Client) Account(ctx context.Context) (*Account, error) {
	if c.session == "" {
		return nil, ErrNoSession
	}
	var a Account
	req := request.New("account", request.Params{"session_id": c.session})
	if err := c.pipeline.ExecuteInto(ctx, req, &a); err != nil {
		return nil, errors.Wrap(err, "failed to load account")
	}
	return &a, nil
}

// SetRating rates a movie for the session's user. value must lie in [0, 10].
func (c *Client) SetRating(ctx context.Context, movieID int, value float64) error {
	if err := validate.Struct(rating{Value: value}); err != nil {
		return &ValidationError{Field: "rating", Value: value, Rule: "gte=0,lte=10", Err: err}
	}
	if c.session == "" {
		return ErrNoSession
	}
	req := request.New(fmt.Sprintf("movie/%d/rating", movieID), request.Params{"session_id": c.session}).
		WithBody(map[string]any{"value": value}).
		WithLifetime(request.NoCache)
	_, err := c.pipeline.Execute(ctx, req)
	return err
}

// SetFavorite marks or unmarks a movie as a favorite
func (c *Client) SetFavorite(ctx context.Context, movieID int, favorite bool) error {
	return c.accountWrite(ctx, "favorite", map[string]any{
		"movie_id": movieID,
		"favorite": favorite,
	})
}

// SetWatchlist adds a movie to or removes it from the watchlist
func (c *Client) SetWatchlist(ctx context.Context, movieID int, watch bool) error {
	return c.accountWrite(ctx, "movie_watchlist", map[string]any{
		"movie_id":        movieID,
		"movie_watchlist": watch,
	})
}

// FavoriteMovies lists the user's favorite movies
func (c *Client) FavoriteMovies(ctx context.Context) (*pager.Pager[*Movie], error) {
	return c.accountPager(ctx, "Favorites", "favorite_movies")
}

// RatedMovies lists the movies the user rated
func (c *Client) RatedMovies(ctx context.Context) (*pager.Pager[*Movie], error) {
	return c.accountPager(ctx, "Rated", "rated_movies")
}

// Watchlist lists the movies on the user's watchlist
func (c *Client) Watchlist(ctx context.Context) (*pager.Pager[*Movie], error) {
	return c.accountPager(ctx, "Watchlist", "movie_watchlist")
}

func (c *Client) accountWrite(ctx context.Context, action string, body map[string]any) error {
	account, err := c.Account(ctx)
	if err != nil {
		return err
	}
	req := request.New(fmt.Sprintf("account/%d/%s", account.ID, action), request.Params{"session_id": c.session}).
		WithBody(body).
		WithLifetime(request.NoCache)
	_, err = c.pipeline.Execute(ctx, req)
	return err
}

// accountPager pages through an account list. Lists change with every write,
// so pages are never cached.
func (c *Client) accountPager(ctx context.Context, name, list string) (*pager.Pager[*Movie], error) {
	account, err := c.Account(ctx)
	if err != nil {
		return nil, err
	}
	env := c.Env()
	req := request.New(fmt.Sprintf("account/%d/%s", account.ID, list), request.Params{
		"session_id": c.session,
		"language":   nonEmpty(c.locale.Language),
	}).WithLifetime(request.NoCache)
	p := pager.New(env.Fetcher, req, func(raw map[string]any) *Movie {
		return &Movie{element.FromRaw(env, MovieType, raw, nil)}
	})
	p.SetName(name)
	return p, nil
}
