package filter

// Record is a raw catalog result as decoded from JSON
type Record = map[string]any

// Filter decides whether a record matches
type Filter interface {
	// Evaluate reports a match. Evaluation errors count as no match.
	Evaluate(rec Record) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the evaluation error exposed
	Match(rec Record) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler keeps compiled programs for reuse
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
