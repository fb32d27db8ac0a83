package filter

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `vote_average > 7`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasText(title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `hasGenre(878) and yearOf(release_date) < 1990 and not adult`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	starWars := Record{
		"id":           float64(11),
		"title":        "Star Wars",
		"release_date": "1977-05-25",
		"vote_average": 8.2,
		"adult":        false,
		"genre_ids":    []any{float64(12), float64(28), float64(878)},
	}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{name: "numeric comparison", expression: `vote_average > 8`, want: true},
		{name: "year helper", expression: `yearOf(release_date) == 1977`, want: true},
		{name: "genre helper", expression: `hasGenre(878)`, want: true},
		{name: "missing genre", expression: `hasGenre(99)`, want: false},
		{name: "string helper", expression: `hasText(title, "wars")`, want: true},
		{name: "prefix helper", expression: `hasPrefix(title, "star") and hasSuffix(title, "WARS")`, want: true},
		{name: "contains operator is case sensitive", expression: `title contains "wars"`, want: false},
		{name: "startsWith operator", expression: `title startsWith "Star"`, want: true},
		{name: "lower builtin", expression: `lower(title) endsWith "wars"`, want: true},
		{name: "boolean field", expression: `not adult`, want: true},
		{name: "whole record", expression: `Record.id == 11`, want: true},
		{name: "undefined field errors to false", expression: `budget > 10`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Evaluate(starWars))
		})
	}
}

func TestMatchExposesEvaluationError(t *testing.T) {
	f, err := CompileFilter(`budget > 10`)
	require.NoError(t, err)

	_, err = f.Match(Record{"title": "Star Wars"})
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "'Star Wars'", evalErr.Record)
}

func TestCompilerCache(t *testing.T) {
	c := NewExprCompiler(WithCache(2))

	a, err := c.Compile(`vote_average > 1`)
	require.NoError(t, err)
	again, err := c.Compile(`vote_average > 1`)
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = c.Compile(`vote_average > 2`)
	require.NoError(t, err)
	_, err = c.Compile(`vote_average > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())

	c.Clear()
	assert.Zero(t, c.Size())
}

func TestCustomFunctions(t *testing.T) {
	c := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isClassic": func(year int) bool { return year < 1980 },
	}))
	f, err := c.Compile(`isClassic(yearOf(release_date))`)
	require.NoError(t, err)

	ok, err := f.Match(Record{"release_date": "1977-05-25"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, f.Evaluate(Record{"release_date": "1999-05-19"}))

	// functions of one compiler do not leak into another
	other, err := NewExprCompiler().Compile(`isClassic(1977)`)
	if err == nil {
		_, err = other.Match(Record{})
	}
	assert.Error(t, err)
}

func TestConcurrentEvaluator(t *testing.T) {
	records := make([]Record, 250)
	for i := range records {
		records[i] = Record{"id": float64(i), "title": fmt.Sprintf("Movie %d", i)}
	}

	f, err := CompileFilter(`int(Record.id) % 2 == 0`)
	require.NoError(t, err)

	e := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50))
	matches, err := e.Evaluate(context.Background(), f, records)
	require.NoError(t, err)
	require.Len(t, matches, 125)
	for i, m := range matches {
		assert.Equal(t, float64(i*2), m["id"])
	}

	small, err := e.Evaluate(context.Background(), f, records[:10])
	require.NoError(t, err)
	assert.Len(t, small, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Evaluate(ctx, f, records)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}
