package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
	// ErrEmptyQuery is returned by SearchMovies for a blank query
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrUnauthorized indicates authentication failure
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
)

// APIError represents a non-success response from the TMDB API
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrUnauthorized for 401/403 responses
func (e *APIError) Unwrap() error {
	if e.IsUnauthorized() {
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsServerError reports a 5xx response
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}
