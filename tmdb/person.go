package tmdb

import (
	"context"
	"time"

	"github.com/s0up4200/tmdb3/element"
)

// Person is a cast or crew member. Credits read through a movie or series
// carry the role as well.
type Person struct {
	*element.Element
}

// Person returns a handle on person id
func (c *Client) Person(id int) *Person {
	return &Person{c.element(PersonType, element.Args{"id": id})}
}

func (p *Person) ID(ctx context.Context) (int, error) {
	return p.GetInt(ctx, "id")
}

func (p *Person) Name(ctx context.Context) (string, error) {
	return p.GetString(ctx, "name")
}

func (p *Person) Biography(ctx context.Context) (string, error) {
	return p.GetString(ctx, "biography")
}

func (p *Person) Birthday(ctx context.Context) (time.Time, error) {
	return p.GetTime(ctx, "birthday")
}

func (p *Person) Deathday(ctx context.Context) (time.Time, error) {
	return p.GetTime(ctx, "deathday")
}

func (p *Person) Birthplace(ctx context.Context) (string, error) {
	return p.GetString(ctx, "birthplace")
}

func (p *Person) Aliases(ctx context.Context) ([]string, error) {
	return p.GetStrings(ctx, "aliases")
}

func (p *Person) Profile(ctx context.Context) (*Image, error) {
	e, err := p.GetChild(ctx, "profile")
	return AsImage(e), err
}

// Character is the role played. Only set on cast credits.
func (p *Person) Character(ctx context.Context) (string, error) {
	if !p.Type().Is(CastType) {
		return "", nil
	}
	return p.GetString(ctx, "character")
}

// Job is the crew job. Only set on crew credits.
func (p *Person) Job(ctx context.Context) (string, error) {
	if !p.Type().Is(CrewType) {
		return "", nil
	}
	return p.GetString(ctx, "job")
}

// Roles lists the movies the person acted in. Each entry also answers
// Character.
func (p *Person) Roles(ctx context.Context) ([]*Credit, error) {
	return credits(ctx, p.Element, "roles")
}

// CrewRoles lists the movies the person worked on behind the camera
func (p *Person) CrewRoles(ctx context.Context) ([]*Credit, error) {
	return credits(ctx, p.Element, "crew")
}

// Credit is a movie seen from a person's filmography
type Credit struct {
	*Movie
}

// Character is the role played, "" for crew credits
func (c *Credit) Character(ctx context.Context) (string, error) {
	if !c.Type().Is(ReverseCastType) {
		return "", nil
	}
	return c.GetString(ctx, "character")
}

// Job is the crew job, "" for cast credits
func (c *Credit) Job(ctx context.Context) (string, error) {
	if !c.Type().Is(ReverseCrewType) {
		return "", nil
	}
	return c.GetString(ctx, "job")
}

func people(ctx context.Context, e *element.Element, field string) ([]*Person, error) {
	items, err := e.GetChildren(ctx, field)
	if err != nil {
		return nil, err
	}
	out := make([]*Person, 0, len(items))
	for _, item := range items {
		out = append(out, &Person{item})
	}
	return out, nil
}

func credits(ctx context.Context, e *element.Element, field string) ([]*Credit, error) {
	items, err := e.GetChildren(ctx, field)
	if err != nil {
		return nil, err
	}
	out := make([]*Credit, 0, len(items))
	for _, item := range items {
		out = append(out, &Credit{&Movie{item}})
	}
	return out, nil
}
