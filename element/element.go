package element

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/tmdb3/locale"
)

// Describer renders a short human readable label
type Describer interface {
	Describe() string
}

// Element is a remote-backed object whose fields are fetched on first read.
//
// Each resolver group is fetched at most once per element. Concurrent reads
// that need the same group share a single request.
type Element struct {
	typ *Type
	env Env

	mu       sync.Mutex
	data     map[string]any
	resolved map[Group]bool
	memo     map[string]any

	flight singleflight.Group
}

var _ Describer = (*Element)(nil)

// New builds an element from its init arguments alone
func New(env Env, typ *Type, args Args) *Element {
	return FromRaw(env, typ, nil, args)
}

// FromRaw builds an element from an already fetched JSON object. Groups whose
// fields are all present in raw (or args) start resolved.
func FromRaw(env Env, typ *Type, raw map[string]any, args Args) *Element {
	typ.build()
	e := &Element{
		typ:      typ,
		env:      env,
		data:     make(map[string]any, len(raw)+len(args)),
		resolved: make(map[Group]bool),
		memo:     make(map[string]any),
	}
	for k, v := range raw {
		e.data[k] = v
	}
	for name, v := range args {
		if f, ok := typ.Field(name); ok {
			setPath(e.data, f.Key, v)
		} else {
			e.data[name] = v
		}
	}

	complete := make(map[Group]bool)
	for _, f := range typ.fields {
		g := f.group()
		if _, seen := complete[g]; !seen {
			complete[g] = true
		}
		if _, ok := lookup(e.data, f.Key); !ok {
			complete[g] = false
		}
	}
	for g, ok := range complete {
		if ok {
			e.resolved[g] = true
		}
	}
	return e
}

func (e *Element) Type() *Type { return e.typ }

func (e *Element) Env() Env { return e.env }

func (e *Element) Locale() locale.Locale { return e.env.Locale }

// Arg returns a stored field value without fetching. Used by resolvers to
// read identity arguments.
func (e *Element) Arg(name string) any {
	v, _ := e.Peek(name)
	return v
}

// Peek returns the raw stored value of a field without fetching
func (e *Element) Peek(name string) (any, bool) {
	key := name
	if f, ok := e.typ.Field(name); ok {
		key = f.Key
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return lookup(e.data, key)
}

// Snapshot returns a copy of the backing store
func (e *Element) Snapshot() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]any, len(e.data))
	for k, v := range e.data {
		out[k] = v
	}
	return out
}

// Resolved reports whether group g has been fetched or was supplied at construction
func (e *Element) Resolved(g Group) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolved[g]
}

// Set writes a raw value into the backing store
func (e *Element) Set(name string, value any) error {
	f, ok := e.typ.Field(name)
	if !ok {
		return errors.Wrapf(ErrUnknownField, "%s.%s", e.typ.Name, name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	setPath(e.data, f.Key, value)
	delete(e.memo, name)
	return nil
}

// Get returns the converted value of a field, fetching its group if needed.
// Absent fields yield their default, or nil.
func (e *Element) Get(ctx context.Context, name string) (any, error) {
	f, ok := e.typ.Field(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownField, "%s.%s", e.typ.Name, name)
	}

	e.mu.Lock()
	if v, ok := e.memo[name]; ok {
		e.mu.Unlock()
		return v, nil
	}
	raw, present := lookup(e.data, f.Key)
	fetched := e.resolved[f.group()]
	e.mu.Unlock()

	if !present {
		if fetched {
			return f.Default, nil
		}
		if err := e.resolve(ctx, f.group()); err != nil {
			return nil, err
		}
		e.mu.Lock()
		raw, present = lookup(e.data, f.Key)
		e.mu.Unlock()
		if !present {
			return f.Default, nil
		}
	}
	if raw == nil {
		return f.Default, nil
	}

	v, err := e.convert(ctx, f, raw)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.memo[name]; ok {
		return existing, nil
	}
	e.memo[name] = v
	return v, nil
}

// Populate fetches the given groups, or every group of the type, in parallel
func (e *Element) Populate(ctx context.Context, groups ...Group) error {
	if len(groups) == 0 {
		groups = e.typ.Groups()
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, grp := range groups {
		if e.Resolved(grp) {
			continue
		}
		grp := grp
		g.Go(func() error {
			return e.resolve(gctx, grp)
		})
	}
	return g.Wait()
}

func (e *Element) resolve(ctx context.Context, g Group) error {
	_, err, _ := e.flight.Do(string(g), func() (any, error) {
		if e.Resolved(g) {
			return nil, nil
		}

		resolver := e.typ.resolver(g)
		if resolver == nil {
			return nil, errors.Wrapf(ErrNoResolver, "%s.%s", e.typ.Name, g)
		}
		if e.env.Fetcher == nil {
			return nil, errors.Wrapf(ErrNoFetcher, "%s.%s", e.typ.Name, g)
		}

		req, err := resolver(e)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", e.typ.Name, g)
		}

		e.env.Logger.Debug().
			Str("type", e.typ.Name).
			Str("group", string(g)).
			Str("endpoint", req.Endpoint()).
			Msg("Resolving element group")

		value, err := e.env.Fetcher.Execute(ctx, req)
		if err != nil {
			return nil, err
		}
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(ErrUnexpectedShape, "%s.%s: response is %T", e.typ.Name, g, value)
		}

		e.merge(obj, g)
		return nil, nil
	})
	return err
}

// merge overlays obj on the store, drops stale memo entries and marks g resolved
func (e *Element) merge(obj map[string]any, g Group) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for k, v := range obj {
		e.data[k] = v
	}
	for name := range e.memo {
		f := e.typ.index[name]
		if _, changed := obj[rootKey(f.Key)]; changed {
			delete(e.memo, name)
		}
	}
	e.resolved[g] = true
}

// Describe renders the element with its type's describer, without fetching
func (e *Element) Describe() string {
	if d := e.typ.describer(); d != nil {
		return d(e)
	}
	return fmt.Sprintf("<%s>", e.typ.Name)
}

func (e *Element) String() string {
	return e.Describe()
}

func rootKey(key string) string {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i]
	}
	return key
}

func lookup(data map[string]any, key string) (any, bool) {
	cur := data
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

func setPath(data map[string]any, key string, value any) {
	cur := data
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}
