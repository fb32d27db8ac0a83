// Package pager exposes multi-page search results as a lazily fetched sequence.
package pager

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/s0up4200/tmdb3/request"
)

// Common errors
var (
	// ErrIndexOutOfRange indicates an index outside the result set
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmptyPage indicates a first page without results while more were announced
	ErrEmptyPage = errors.New("first page returned no results")
	// ErrMalformedPage indicates a page response missing its results array
	ErrMalformedPage = errors.New("malformed page response")
)

// prefetchLimit bounds concurrent page fetches
const prefetchLimit = 4

// RangeError carries the offending index
type RangeError struct {
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0:%d]", e.Index, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Fetcher executes page requests. *request.Client satisfies it.
type Fetcher interface {
	Execute(ctx context.Context, r *request.Request) (any, error)
}

// Builder turns one raw result object into an item
type Builder[T any] func(raw map[string]any) T

// Pager is an index-addressable view over a paged endpoint. Remote pages are
// 1-based; page indices used here are 0-based.
type Pager[T any] struct {
	fetcher Fetcher
	req     *request.Request
	build   Builder[T]
	name    string

	mu         sync.Mutex
	started    bool
	total      int
	totalPages int
	pageSize   int
	pages      map[int][]T

	flight singleflight.Group
}

// New creates a pager over req. The request must not carry a page parameter.
func New[T any](f Fetcher, req *request.Request, build Builder[T]) *Pager[T] {
	return &Pager[T]{
		fetcher: f,
		req:     req.With(request.Params{"page": nil}),
		build:   build,
		pages:   make(map[int][]T),
	}
}

// Name is a display label for the result set
func (p *Pager[T]) Name() string { return p.name }

// SetName sets the display label
func (p *Pager[T]) SetName(name string) { p.name = name }

// Request returns the page request template
func (p *Pager[T]) Request() *request.Request { return p.req }

// Len returns the number of results, fetching the first page if needed
func (p *Pager[T]) Len(ctx context.Context) (int, error) {
	if err := p.init(ctx); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total, nil
}

// PageSize returns the number of results per page
func (p *Pager[T]) PageSize(ctx context.Context) (int, error) {
	if err := p.init(ctx); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize, nil
}

// Pages returns the number of pages
func (p *Pager[T]) Pages(ctx context.Context) (int, error) {
	if err := p.init(ctx); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pageSize == 0 {
		return 0, nil
	}
	return (p.total + p.pageSize - 1) / p.pageSize, nil
}

// At returns the item at index i. Negative indices count from the end.
func (p *Pager[T]) At(ctx context.Context, i int) (T, error) {
	var zero T
	n, err := p.Len(ctx)
	if err != nil {
		return zero, err
	}
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return zero, &RangeError{Index: i, Len: n}
	}

	p.mu.Lock()
	size := p.pageSize
	p.mu.Unlock()

	items, err := p.Page(ctx, idx/size)
	if err != nil {
		return zero, err
	}
	off := idx % size
	if off >= len(items) {
		return zero, &RangeError{Index: i, Len: n}
	}
	return items[off], nil
}

// Page returns the items on 0-based page n, fetching it if needed
func (p *Pager[T]) Page(ctx context.Context, n int) ([]T, error) {
	// page geometry comes from the first page
	if n != 0 {
		if err := p.init(ctx); err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	items, ok := p.pages[n]
	p.mu.Unlock()
	if ok {
		return items, nil
	}

	_, err, _ := p.flight.Do(fmt.Sprint(n), func() (any, error) {
		return nil, p.load(ctx, n)
	})
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pages[n], nil
}

// Loaded lists the 0-based pages already fetched
func (p *Pager[T]) Loaded() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.pages))
	for n := range p.pages {
		out = append(out, n)
	}
	return out
}

// Prefetch loads the given pages concurrently, or every page when none are given
func (p *Pager[T]) Prefetch(ctx context.Context, pages ...int) error {
	if len(pages) == 0 {
		total, err := p.Pages(ctx)
		if err != nil {
			return err
		}
		for n := 0; n < total; n++ {
			pages = append(pages, n)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for _, n := range pages {
		n := n
		g.Go(func() error {
			_, err := p.Page(gctx, n)
			return err
		})
	}
	return g.Wait()
}

// Each calls fn for every item in order until fn returns false or an error occurs
func (p *Pager[T]) Each(ctx context.Context, fn func(i int, item T) bool) error {
	n, err := p.Len(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		item, err := p.At(ctx, i)
		if err != nil {
			return err
		}
		if !fn(i, item) {
			return nil
		}
	}
	return nil
}

// All fetches every page and returns the items in order
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	if err := p.Prefetch(ctx); err != nil {
		return nil, err
	}
	var out []T
	err := p.Each(ctx, func(_ int, item T) bool {
		out = append(out, item)
		return true
	})
	return out, err
}

// Take returns up to limit items from the front
func (p *Pager[T]) Take(ctx context.Context, limit int) ([]T, error) {
	var out []T
	err := p.Each(ctx, func(i int, item T) bool {
		if i >= limit {
			return false
		}
		out = append(out, item)
		return true
	})
	return out, err
}

func (p *Pager[T]) init(ctx context.Context) error {
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		return nil
	}
	_, err := p.Page(ctx, 0)
	return err
}

func (p *Pager[T]) load(ctx context.Context, n int) error {
	p.mu.Lock()
	_, ok := p.pages[n]
	p.mu.Unlock()
	if ok {
		return nil
	}

	value, err := p.fetcher.Execute(ctx, p.req.With(request.Params{"page": n + 1}))
	if err != nil {
		return err
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return errors.Wrapf(ErrMalformedPage, "%s page %d: response is %T", p.req.Endpoint(), n+1, value)
	}
	results, ok := obj["results"].([]any)
	if !ok {
		return errors.Wrapf(ErrMalformedPage, "%s page %d: no results", p.req.Endpoint(), n+1)
	}

	items := make([]T, 0, len(results))
	for i, r := range results {
		raw, ok := r.(map[string]any)
		if !ok {
			return errors.Wrapf(ErrMalformedPage, "%s page %d: result %d is %T", p.req.Endpoint(), n+1, i, r)
		}
		items = append(items, p.build(raw))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		totalResults := number(obj["total_results"])
		totalPages := number(obj["total_pages"])
		size := len(results)
		if size == 0 && totalResults > 0 {
			return errors.Wrapf(ErrEmptyPage, "%s", p.req.Endpoint())
		}
		p.pageSize = size
		p.totalPages = totalPages
		p.total = totalResults
		if limit := totalPages * size; totalPages > 0 && limit < p.total {
			p.total = limit
		}
		p.started = true
	}
	p.pages[n] = items
	return nil
}

func number(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
