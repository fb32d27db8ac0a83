package filter

import (
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	funcs      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // record fields vary by endpoint
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		funcs:      c.helperFuncs,
	}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Evaluate evaluates the filter against a record
func (f *exprFilter) Evaluate(rec Record) bool {
	ok, err := f.Match(rec)
	return err == nil && ok
}

func (f *exprFilter) Match(rec Record) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(rec, f.funcs))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Record: describe(rec), Err: err}
	}
	// AsBool guarantees the result type
	return result.(bool), nil
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// CompileFilter compiles expression without caching
func CompileFilter(expression string) (CompiledFilter, error) {
	return NewExprCompiler().Compile(expression)
}

func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	funcs["hasGenre"] = func(int) bool { return false }
	return funcs
}

func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["parseDate"] = parseDate
	env["yearOf"] = func(date string) int {
		t := parseDate(date)
		if t.IsZero() {
			return 0
		}
		return t.Year()
	}
	env["daysSince"] = func(date string) int {
		t := parseDate(date)
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	// Case-insensitive string helpers. contains, startsWith and endsWith are
	// case-sensitive operators in expr, lower/upper/now are builtins.
	env["hasText"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
}

// createRuntimeEnvironment exposes the record's top level keys as variables
// next to the compiler's functions. Functions shadow record keys with the
// same name.
func createRuntimeEnvironment(rec Record, funcs map[string]any) map[string]any {
	env := make(map[string]any, len(rec)+len(funcs)+2)
	maps.Copy(env, rec)
	maps.Copy(env, funcs)
	env["Record"] = rec
	env["hasGenre"] = createHasGenreFunc(rec["genre_ids"], rec["genres"])
	return env
}

func createHasGenreFunc(ids, genres any) func(int) bool {
	set := make(map[int]bool)
	if list, ok := ids.([]any); ok {
		for _, v := range list {
			if n, ok := v.(float64); ok {
				set[int(n)] = true
			}
		}
	}
	if list, ok := genres.([]any); ok {
		for _, v := range list {
			if g, ok := v.(map[string]any); ok {
				if n, ok := g["id"].(float64); ok {
					set[int(n)] = true
				}
			}
		}
	}
	return func(id int) bool {
		return set[id]
	}
}

func parseDate(date string) time.Time {
	t, _ := time.Parse(time.DateOnly, date)
	return t
}

func describe(rec Record) string {
	for _, key := range []string{"title", "name"} {
		if s, ok := rec[key].(string); ok && s != "" {
			return "'" + s + "'"
		}
	}
	if id, ok := rec["id"].(float64); ok {
		return "id " + strconv.FormatFloat(id, 'f', -1, 64)
	}
	return "record"
}
