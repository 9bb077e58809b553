package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/tmdb"
)

// Option configures a Screen
type Option func(*Screen)

// WithClientFilter applies filter on top of the fetched list whenever a query is set
func WithClientFilter(filter Filter) Option {
	return func(s *Screen) {
		s.filter = filter
	}
}

// WithShowEndpoint records the requested endpoint for the debug readout
func WithShowEndpoint(show bool) Option {
	return func(s *Screen) {
		s.showEndpoint = show
	}
}

// WithOnChange registers a callback invoked with a snapshot after every state change.
// It runs outside the screen's lock.
func WithOnChange(fn func(State)) Option {
	return func(s *Screen) {
		s.onChange = fn
	}
}

// WithInitialQuery sets the query used by Mount
func WithInitialQuery(query string) Option {
	return func(s *Screen) {
		s.state.Query = query
	}
}

// Screen holds the catalog view state and drives fetches against a Fetcher.
// A nil Fetcher means the API credentials were not configured; the screen then
// never issues requests and shows an empty list.
type Screen struct {
	fetcher      Fetcher
	logger       zerolog.Logger
	filter       Filter
	showEndpoint bool
	onChange     func(State)

	mu      sync.Mutex
	state   State
	lastSeq uint64
}

// NewScreen creates a screen in its initial loading state
func NewScreen(fetcher Fetcher, logger zerolog.Logger, opts ...Option) *Screen {
	s := &Screen{
		fetcher: fetcher,
		state: State{
			Items:   []tmdb.Movie{},
			Loading: true,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = logger.With().Str("session", uuid.NewString()).Logger()
	return s
}

// Mount performs the initial fetch for the current query
func (s *Screen) Mount(ctx context.Context) {
	s.load(ctx, false)
}

// SetQuery updates the query and refetches when it changed
func (s *Screen) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	if s.state.Query == query {
		s.mu.Unlock()
		return
	}
	s.state.Query = query
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.notify(snapshot)
	s.load(ctx, false)
}

// Refresh refetches the current query, as a pull-to-refresh would
func (s *Screen) Refresh(ctx context.Context) {
	s.load(ctx, true)
}

// State returns a snapshot of the view state
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Visible returns the items to render, after the client-side filter if one is set
func (s *Screen) Visible() []tmdb.Movie {
	state := s.State()
	if s.filter == nil || state.Query == "" {
		return state.Items
	}
	return s.filter(state.Items, state.Query)
}

// load issues one fetch tagged with a fresh sequence number. Only the outcome of
// the latest issued fetch is applied.
func (s *Screen) load(ctx context.Context, userInitiated bool) {
	s.mu.Lock()
	s.lastSeq++
	seq := s.lastSeq
	query := s.state.Query

	if s.fetcher == nil {
		s.state.Items = []tmdb.Movie{}
		s.state.Seq = seq
		s.state.Loading = false
		s.state.Refreshing = false
		snapshot := s.state.clone()
		s.mu.Unlock()

		s.logger.Error().Msg("API base URL or API key missing, fetch skipped")
		s.notify(snapshot)
		return
	}

	endpoint := tmdb.RedactURL(s.fetcher.EndpointURL(query))
	if s.showEndpoint {
		s.state.Endpoint = endpoint
	}
	// The first load is covered by Loading; later loads show the refresh indicator.
	if userInitiated || !s.state.Loading {
		s.state.Refreshing = true
	}
	snapshot := s.state.clone()
	s.mu.Unlock()
	s.notify(snapshot)

	logger := s.logger.With().Uint64("seq", seq).Str("endpoint", endpoint).Logger()
	logger.Debug().Str("query", query).Msg("Fetching movies")

	movies, err := s.fetcher.Movies(ctx, query)
	if err != nil {
		var apiErr *tmdb.APIError
		if errors.As(err, &apiErr) {
			logger.Error().Int("status", apiErr.StatusCode).Str("message", apiErr.Message).Msg("TMDB error")
		} else {
			logger.Error().Err(err).Msg("Failed to fetch movies")
		}
		movies = []tmdb.Movie{}
	}
	if movies == nil {
		movies = []tmdb.Movie{}
	}

	s.mu.Lock()
	if latest := s.lastSeq; seq != latest {
		s.mu.Unlock()
		logger.Debug().Uint64("latest", latest).Msg("Discarding superseded response")
		return
	}
	s.state.Items = movies
	s.state.Seq = seq
	s.state.Loading = false
	s.state.Refreshing = false
	snapshot = s.state.clone()
	s.mu.Unlock()

	logger.Debug().Int("count", len(movies)).Msg("Fetch settled")
	s.notify(snapshot)
}

func (s *Screen) notify(state State) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
