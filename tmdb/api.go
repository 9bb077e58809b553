package tmdb

import (
	"context"
)

// API defines the catalog operations the rest of the application depends on
type API interface {
	// EndpointURL returns the URL Movies would request for query
	EndpointURL(query string) string

	// Movies fetches popular movies for an empty query, search results otherwise
	Movies(ctx context.Context, query string) ([]Movie, error)

	// TestConnection verifies the client can reach TMDB with its API key
	TestConnection(ctx context.Context) error
}

var _ API = (*Client)(nil)
