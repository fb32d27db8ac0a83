package pager

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/tmdb3/request"
)

// pagedFetcher serves total items split into pages of size
type pagedFetcher struct {
	mu    sync.Mutex
	total int
	size  int
	calls []int
	err   error
}

func (f *pagedFetcher) Execute(_ context.Context, r *request.Request) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	v, _ := r.Param("page")
	page := v.(int)
	f.calls = append(f.calls, page)

	pages := (f.total + f.size - 1) / f.size
	var results []any
	for i := (page - 1) * f.size; i < page*f.size && i < f.total; i++ {
		results = append(results, map[string]any{"id": float64(i)})
	}
	if results == nil {
		results = []any{}
	}
	return map[string]any{
		"page":          float64(page),
		"results":       results,
		"total_results": float64(f.total),
		"total_pages":   float64(pages),
	}, nil
}

func (f *pagedFetcher) pagesFetched() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]int(nil), f.calls...)
	sort.Ints(out)
	return out
}

func idOf(raw map[string]any) int {
	return int(raw["id"].(float64))
}

func newTestPager(f *pagedFetcher) *Pager[int] {
	return New(f, request.New("search/movie", request.Params{"query": "star"}), idOf)
}

func TestPagerIndexing(t *testing.T) {
	ctx := context.Background()
	f := &pagedFetcher{total: 45, size: 20}
	p := newTestPager(f)

	n, err := p.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 45, n)

	size, err := p.PageSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, size)

	item, err := p.At(ctx, 44)
	require.NoError(t, err)
	assert.Equal(t, 44, item)
	assert.Equal(t, []int{1, 3}, f.pagesFetched())

	_, err = p.At(ctx, 45)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	var rangeErr *RangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 45, rangeErr.Index)

	last, err := p.At(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, 44, last)

	_, err = p.At(ctx, -46)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	// loaded pages are reused
	item, err = p.At(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, 21, item)
	assert.Equal(t, []int{1, 2, 3}, f.pagesFetched())

	_, err = p.At(ctx, 40)
	require.NoError(t, err)
	assert.Len(t, f.pagesFetched(), 3)
}

func TestPagerAll(t *testing.T) {
	ctx := context.Background()
	f := &pagedFetcher{total: 45, size: 20}
	p := newTestPager(f)

	all, err := p.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 45)
	for i, v := range all {
		assert.Equal(t, i, v)
	}
	assert.Equal(t, []int{1, 2, 3}, f.pagesFetched())
	assert.ElementsMatch(t, []int{0, 1, 2}, p.Loaded())
}

func TestPagerTakeAndEach(t *testing.T) {
	ctx := context.Background()
	f := &pagedFetcher{total: 45, size: 20}
	p := newTestPager(f)

	first, err := p.Take(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, first)
	assert.Equal(t, []int{1}, f.pagesFetched())

	var seen int
	require.NoError(t, p.Each(ctx, func(i int, _ int) bool {
		seen++
		return i < 24
	}))
	assert.Equal(t, 25, seen)
}

func TestPagerEmpty(t *testing.T) {
	ctx := context.Background()
	f := &pagedFetcher{total: 0, size: 20}
	p := newTestPager(f)

	n, err := p.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = p.At(ctx, 0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	all, err := p.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPagerFetchError(t *testing.T) {
	f := &pagedFetcher{total: 45, size: 20, err: &request.FetchError{StatusCode: 401}}
	p := newTestPager(f)

	_, err := p.Len(context.Background())
	var fe *request.FetchError
	require.True(t, errors.As(err, &fe))
	assert.True(t, fe.IsUnauthorized())
}

func TestPagerRequestTemplate(t *testing.T) {
	f := &pagedFetcher{total: 1, size: 20}
	p := New(f, request.New("search/movie", request.Params{"query": "x", "page": 7}), idOf)
	p.SetName("Search")

	_, ok := p.Request().Param("page")
	assert.False(t, ok)
	assert.Equal(t, "Search", p.Name())

	_, err := p.At(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, f.pagesFetched())
}

type staticFetcher struct {
	value any
}

func (f staticFetcher) Execute(context.Context, *request.Request) (any, error) {
	return f.value, nil
}

func TestPagerMalformedPage(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{
			name:  "response not an object",
			value: []any{},
		},
		{
			name:  "missing results",
			value: map[string]any{"total_results": float64(1)},
		},
		{
			name: "result not an object",
			value: map[string]any{
				"results":       []any{map[string]any{"id": float64(0)}, "oops", map[string]any{"id": float64(2)}},
				"total_results": float64(3),
				"total_pages":   float64(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(staticFetcher{value: tt.value}, request.New("search/movie", nil), idOf)
			_, err := p.Len(context.Background())
			assert.True(t, errors.Is(err, ErrMalformedPage), "got %v", err)
		})
	}
}
