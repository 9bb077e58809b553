package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultLanguage matches the locale the catalog is presented in
	DefaultLanguage = "pt-BR"

	popularPath = "/movie/popular"
	searchPath  = "/search/movie"
)

// Client represents a TMDB API client
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	userAgent    string
	imageBaseURL string
	posterSize   string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates a new TMDB client
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: tmdb URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: tmdb API key is required", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		language:     DefaultLanguage,
		imageBaseURL: DefaultImageBaseURL,
		posterSize:   DefaultPosterSize,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// EncodeQuery percent-encodes search text for use as a query parameter value.
// Spaces become %20 rather than '+'.
func EncodeQuery(query string) string {
	return strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
}

// EndpointURL selects the search endpoint for a non-empty query and the
// popular endpoint otherwise.
func (c *Client) EndpointURL(query string) string {
	auth := fmt.Sprintf("api_key=%s&language=%s", url.QueryEscape(c.apiKey), url.QueryEscape(c.language))
	if query == "" {
		return c.baseURL + popularPath + "?" + auth
	}
	return c.baseURL + searchPath + "?" + auth + "&query=" + EncodeQuery(query)
}

// doRequest performs a GET and returns the body of a 2xx response
func (c *Client) doRequest(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("url", RedactURL(requestURL)).
		Msg("Making TMDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
		var errBody errorResponse
		if json.Unmarshal(body, &errBody) == nil {
			apiErr.Message = errBody.StatusMessage
		}
		return nil, apiErr
	}

	return body, nil
}

// Movies fetches the popular list for an empty query and search results otherwise.
// A response without a results field yields an empty slice.
func (c *Client) Movies(ctx context.Context, query string) ([]Movie, error) {
	body, err := c.doRequest(ctx, c.EndpointURL(query))
	if err != nil {
		return nil, err
	}

	var response MoviesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if response.Results == nil {
		response.Results = []Movie{}
	}

	c.logger.Debug().
		Str("query", query).
		Int("count", len(response.Results)).
		Int("total", response.TotalResults).
		Msg("Retrieved movies from TMDB")

	return response.Results, nil
}

// PopularMovies retrieves the first page of popular movies
func (c *Client) PopularMovies(ctx context.Context) ([]Movie, error) {
	return c.Movies(ctx, "")
}

// SearchMovies retrieves the first page of search results for query
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return c.Movies(ctx, query)
}

// TestConnection tests the connection and API key against /configuration
func (c *Client) TestConnection(ctx context.Context) error {
	requestURL := fmt.Sprintf("%s/configuration?api_key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	if _, err := c.doRequest(ctx, requestURL); err != nil {
		return fmt.Errorf("failed to connect to TMDB: %w", err)
	}
	return nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}
