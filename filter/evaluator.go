package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of concurrent workers
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the chunk size for concurrent processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator applies a filter to many records, splitting large
// inputs into chunks evaluated in parallel
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the records matching filter, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	if len(records) == 0 {
		return []Record{}, nil
	}

	// small inputs are not worth the goroutines
	if len(records) < e.batchSize {
		return evaluateSequential(filter, records), nil
	}

	chunkSize := max(len(records)/e.workerCount, e.batchSize)
	chunks := make([][]Record, (len(records)+chunkSize-1)/chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)
	for i := range chunks {
		i := i
		start := i * chunkSize
		end := min(start+chunkSize, len(records))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks[i] = evaluateSequential(filter, records[start:end])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var matches []Record
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}
	return matches, nil
}

func evaluateSequential(filter Filter, records []Record) []Record {
	matches := make([]Record, 0, len(records)/4)
	for _, rec := range records {
		if filter.Evaluate(rec) {
			matches = append(matches, rec)
		}
	}
	return matches
}
