package tmdb

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLanguage sets the language parameter sent with every request.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithImageBaseURL overrides the image host prefix used for posters.
func WithImageBaseURL(imageURL string) Option {
	return func(c *Client) {
		if imageURL != "" {
			c.imageBaseURL = imageURL
		}
	}
}

// WithPosterSize sets the size segment used for posters, e.g. "w342".
func WithPosterSize(size string) Option {
	return func(c *Client) {
		if size != "" {
			c.posterSize = size
		}
	}
}
