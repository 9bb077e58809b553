package filter

import (
	"github.com/s0up4200/marquee/tmdb"
)

// Filter decides whether a catalog item should be shown
type Filter interface {
	// Evaluate checks if a movie matches the filter criteria
	Evaluate(movie tmdb.Movie) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string

	// Match is Evaluate with runtime errors surfaced as *EvaluationError
	Match(movie tmdb.Movie) (bool, error)
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
