package filter

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/marquee/tmdb"
)

const defaultCacheSize = 64

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache sets the number of compiled programs kept. Zero disables caching.
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler.
//
// Expressions see the movie fields ID, Title, Overview, PosterPath and
// HasPoster, plus the case-insensitive helpers hasText, hasPrefix and
// hasSuffix, and lower and upper. expr's own contains, startsWith and
// endsWith are infix operators and stay case-sensitive.
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
		cache:       newLRUCache[CompiledFilter](defaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
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

	// Compile against a zero movie so field types are checked up front
	program, err := expr.Compile(expression,
		expr.Env(createRuntimeEnvironment(tmdb.Movie{}, c.helperFuncs)),
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
		helpers:    c.helperFuncs,
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

// Evaluate reports whether the movie matches. Runtime errors count as no match.
func (f *exprFilter) Evaluate(movie tmdb.Movie) bool {
	ok, err := f.Match(movie)
	return err == nil && ok
}

// Match evaluates the filter and surfaces runtime errors
func (f *exprFilter) Match(movie tmdb.Movie) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(movie, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: movie.Title,
			Err:        err,
		}
	}
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func createHelperFunctions() map[string]any {
	return map[string]any{
		"hasText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

func createRuntimeEnvironment(movie tmdb.Movie, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+5)
	maps.Copy(env, helpers)

	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["Overview"] = movie.Overview
	env["PosterPath"] = movie.Poster()
	env["HasPoster"] = movie.HasPoster()

	return env
}
