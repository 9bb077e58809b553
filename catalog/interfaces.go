package catalog

import (
	"context"

	"github.com/s0up4200/marquee/tmdb"
)

// Fetcher loads catalog items for a query. *tmdb.Client satisfies it.
type Fetcher interface {
	EndpointURL(query string) string
	Movies(ctx context.Context, query string) ([]tmdb.Movie, error)
}

// Filter narrows an already fetched list. Implementations must not mutate the input.
type Filter func(movies []tmdb.Movie, query string) []tmdb.Movie

// ScreenFormatter renders a screen snapshot
type ScreenFormatter interface {
	FormatScreen(state State, visible []tmdb.Movie, options FormatOptions) string
}

var _ ScreenFormatter = (*ConsoleFormatter)(nil)
