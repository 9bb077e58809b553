package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "https://api.themoviedb.org/3/",
			apiKey:  "test-key",
		},
		{
			name:    "missing URL",
			baseURL: "",
			apiKey:  "test-key",
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "missing API key",
			baseURL: "https://api.themoviedb.org/3",
			apiKey:  "",
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://api.themoviedb.org/3", client.BaseURL())
			assert.Equal(t, DefaultLanguage, client.language)
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "k", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(DefaultBaseURL, "k", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("with language", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "k", logger, WithLanguage("en-US"))
		require.NoError(t, err)
		assert.Contains(t, client.EndpointURL(""), "language=en-US")
	})

	t.Run("with poster size", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "k", logger, WithPosterSize("w342"))
		require.NoError(t, err)
		path := "/abc.jpg"
		assert.Equal(t, "https://image.tmdb.org/t/p/w342/abc.jpg", client.PosterURL(Movie{PosterPath: &path}))
	})
}

func TestEndpointURL(t *testing.T) {
	client, err := NewClient("https://api.example.com/3", "secret", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t,
		"https://api.example.com/3/movie/popular?api_key=secret&language=pt-BR",
		client.EndpointURL(""))
	assert.Equal(t,
		"https://api.example.com/3/search/movie?api_key=secret&language=pt-BR&query=batman",
		client.EndpointURL("batman"))
	assert.Equal(t,
		"https://api.example.com/3/search/movie?api_key=secret&language=pt-BR&query=o%20poderoso%20chef%C3%A3o%20%26%201%2B2",
		client.EndpointURL("o poderoso chefão & 1+2"))
}

func TestEndpointURL_Selection(t *testing.T) {
	client, err := NewClient("https://api.example.com/3", "secret", zerolog.Nop())
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		query := rapid.String().Draw(t, "query")
		raw := client.EndpointURL(query)

		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("endpoint %q does not parse: %v", raw, err)
		}

		if query == "" {
			if u.Path != "/3/movie/popular" {
				t.Fatalf("empty query selected %s", u.Path)
			}
			if u.Query().Has("query") {
				t.Fatalf("popular endpoint carries a query parameter: %s", raw)
			}
			return
		}

		if u.Path != "/3/search/movie" {
			t.Fatalf("query %q selected %s", query, u.Path)
		}
		if got := u.Query().Get("query"); got != query {
			t.Fatalf("query round-trip mismatch: got %q want %q", got, query)
		}
	})
}

func TestMovies(t *testing.T) {
	t.Run("popular", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movie/popular", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "pt-BR", r.URL.Query().Get("language"))
			w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Dune","overview":"...","poster_path":"/abc.jpg"}]}`))
		})

		movies, err := client.PopularMovies(context.Background())
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, int64(1), movies[0].ID)
		assert.Equal(t, "Dune", movies[0].Title)
		assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", client.PosterURL(movies[0]))
	})

	t.Run("search", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/movie", r.URL.Path)
			assert.Equal(t, "batman", r.URL.Query().Get("query"))
			w.Write([]byte(`{"page":1,"results":[]}`))
		})

		movies, err := client.SearchMovies(context.Background(), "batman")
		require.NoError(t, err)
		assert.Empty(t, movies)
	})

	t.Run("missing results field", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"page":1}`))
		})

		movies, err := client.Movies(context.Background(), "")
		require.NoError(t, err)
		assert.NotNil(t, movies)
		assert.Empty(t, movies)
	})

	t.Run("null poster path", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"id":7,"title":"Sem Poster","overview":"","poster_path":null}]}`))
		})

		movies, err := client.Movies(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.False(t, movies[0].HasPoster())
		assert.Empty(t, client.PosterURL(movies[0]))
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"status_code":11,"status_message":"Internal error."}`))
		})

		_, err := client.Movies(context.Background(), "")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "Internal error.", apiErr.Message)
		assert.True(t, apiErr.IsServerError())
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`))
		})

		_, err := client.Movies(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": [`))
		})

		_, err := client.Movies(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse response")
	})

	t.Run("user agent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "marquee/test", r.Header.Get("User-Agent"))
			w.Write([]byte(`{"results":[]}`))
		}, WithUserAgent("marquee/test"))

		_, err := client.Movies(context.Background(), "")
		require.NoError(t, err)
	})
}

func TestSearchMovies_EmptyQuery(t *testing.T) {
	client, err := NewClient(DefaultBaseURL, "k", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.SearchMovies(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestTestConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/configuration", r.URL.Path)
		w.Write([]byte(`{"images":{}}`))
	})
	require.NoError(t, client.TestConnection(context.Background()))

	failing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	err := failing.TestConnection(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to connect to TMDB"))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBuildImageURL(t *testing.T) {
	assert.Empty(t, BuildImageURL(DefaultImageBaseURL, DefaultPosterSize, ""))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg",
		BuildImageURL(DefaultImageBaseURL, DefaultPosterSize, "/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg",
		BuildImageURL("https://image.tmdb.org/t/p/", "/w500/", "abc.jpg"))
}

func TestRedactURL(t *testing.T) {
	client, err := NewClient("https://api.example.com/3", "s3cr3t", zerolog.Nop())
	require.NoError(t, err)

	redacted := RedactURL(client.EndpointURL("dune"))
	assert.NotContains(t, redacted, "s3cr3t")
	assert.Equal(t, "https://api.example.com/3/search/movie?api_key=***&language=pt-BR&query=dune", redacted)

	assert.Equal(t, "https://example.com/x?a=1", RedactURL("https://example.com/x?a=1"))
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "The resource you requested could not be found."}
		assert.Equal(t, "tmdb API error: status 404: The resource you requested could not be found.", err.Error())
		assert.True(t, err.IsNotFound())

		bare := &APIError{StatusCode: 502}
		assert.Equal(t, "tmdb API error: status 502", bare.Error())
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
			assert.Equal(t, tt.expected, errors.Is(err, ErrUnauthorized))
		}
	})
}
