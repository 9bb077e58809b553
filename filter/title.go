package filter

import (
	"errors"
	"strings"

	"github.com/s0up4200/marquee/tmdb"
)

// Func adapts a plain predicate to Filter
type Func func(movie tmdb.Movie) bool

// Evaluate implements Filter
func (f Func) Evaluate(movie tmdb.Movie) bool {
	return f(movie)
}

// TitleContains matches titles containing query, ignoring case.
// An empty query matches everything.
func TitleContains(query string) Func {
	needle := strings.ToLower(query)
	return func(movie tmdb.Movie) bool {
		return strings.Contains(strings.ToLower(movie.Title), needle)
	}
}

// Apply returns the movies matching every filter, in their original order.
// The input slice is never modified.
func Apply(movies []tmdb.Movie, filters ...Filter) []tmdb.Movie {
	out := make([]tmdb.Movie, 0, len(movies))
	for _, movie := range movies {
		if matchesAll(movie, filters) {
			out = append(out, movie)
		}
	}
	return out
}

// Select applies a compiled filter and also returns the evaluation errors it
// hit, joined. Movies whose evaluation failed are left out.
func Select(movies []tmdb.Movie, f CompiledFilter) ([]tmdb.Movie, error) {
	out := make([]tmdb.Movie, 0, len(movies))
	var errs []error
	for _, movie := range movies {
		ok, err := f.Match(movie)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			out = append(out, movie)
		}
	}
	return out, errors.Join(errs...)
}

// matchesAll skips nil filters, including a nil Func stored in the interface
func matchesAll(movie tmdb.Movie, filters []Filter) bool {
	for _, f := range filters {
		if f == nil {
			continue
		}
		if fn, ok := f.(Func); ok && fn == nil {
			continue
		}
		if !f.Evaluate(movie) {
			return false
		}
	}
	return true
}

// ByTitle is the screen's client-side filter: the query narrows the fetched
// list by title, then any extra filters apply.
func ByTitle(extra ...Filter) func(movies []tmdb.Movie, query string) []tmdb.Movie {
	return func(movies []tmdb.Movie, query string) []tmdb.Movie {
		return Apply(movies, append([]Filter{TitleContains(query)}, extra...)...)
	}
}
