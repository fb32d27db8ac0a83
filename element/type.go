package element

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/tmdb3/locale"
	"github.com/s0up4200/tmdb3/request"
)

// Fetcher executes requests. *request.Client satisfies it.
type Fetcher interface {
	Execute(ctx context.Context, r *request.Request) (any, error)
}

// Env is the ambient context inherited by an element and every child it builds
type Env struct {
	Fetcher Fetcher
	Locale  locale.Locale
	Session string
	Logger  zerolog.Logger
}

// WithLocale returns a copy of env scoped to l
func (e Env) WithLocale(l locale.Locale) Env {
	e.Locale = l
	return e
}

// Args are construction arguments keyed by field name
type Args map[string]any

// Resolver builds the request that fills a group
type Resolver func(e *Element) (*request.Request, error)

// Type is a declarative field table.
//
// Types that refer to each other should be declared as empty values and
// filled in from init so that package initialisation does not form a cycle.
type Type struct {
	Name      string
	Base      *Type
	Fields    []Field
	Resolvers map[Group]Resolver
	InitArgs  []string
	Describe  func(e *Element) string

	once      sync.Once
	index     map[string]*Field
	fields    []*Field
	resolvers map[Group]Resolver
	groups    []Group
	initArgs  []string
}

func (t *Type) build() {
	t.once.Do(func() {
		t.index = make(map[string]*Field)
		t.resolvers = make(map[Group]Resolver)

		if t.Base != nil {
			t.Base.build()
			for _, f := range t.Base.fields {
				t.add(f)
			}
			for g, r := range t.Base.resolvers {
				t.resolvers[g] = r
			}
			t.initArgs = t.Base.initArgs
		}
		for i := range t.Fields {
			t.add(&t.Fields[i])
		}
		for g, r := range t.Resolvers {
			t.resolvers[g] = r
		}
		if len(t.InitArgs) > 0 {
			t.initArgs = t.InitArgs
		}

		seen := make(map[Group]bool)
		for _, f := range t.fields {
			if g := f.group(); !seen[g] {
				seen[g] = true
				t.groups = append(t.groups, g)
			}
		}
	})
}

func (t *Type) add(f *Field) {
	if _, ok := t.index[f.Name]; ok {
		for i, existing := range t.fields {
			if existing.Name == f.Name {
				t.fields[i] = f
			}
		}
	} else {
		t.fields = append(t.fields, f)
	}
	t.index[f.Name] = f
}

// Field looks up a field declaration by name, including inherited fields
func (t *Type) Field(name string) (*Field, bool) {
	t.build()
	f, ok := t.index[name]
	return f, ok
}

// FieldNames lists field names in declaration order
func (t *Type) FieldNames() []string {
	t.build()
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// Groups lists the resolver groups used by the fields
func (t *Type) Groups() []Group {
	t.build()
	return append([]Group(nil), t.groups...)
}

// Args returns the init argument names
func (t *Type) Args() []string {
	t.build()
	return append([]string(nil), t.initArgs...)
}

// Is reports whether t is other or derives from it
func (t *Type) Is(other *Type) bool {
	for cur := t; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

func (t *Type) resolver(g Group) Resolver {
	t.build()
	return t.resolvers[g]
}

func (t *Type) describer() func(*Element) string {
	for cur := t; cur != nil; cur = cur.Base {
		if cur.Describe != nil {
			return cur.Describe
		}
	}
	return nil
}
