package catalog

import (
	"slices"

	"github.com/s0up4200/marquee/tmdb"
)

// State is a point-in-time copy of the screen's view state
type State struct {
	Items      []tmdb.Movie
	Loading    bool
	Refreshing bool
	Query      string
	// Endpoint is the last requested URL with the API key redacted
	Endpoint string
	// Seq identifies the fetch whose outcome produced Items
	Seq uint64
}

// Settled reports whether no fetch is pending
func (s State) Settled() bool {
	return !s.Loading && !s.Refreshing
}

// Empty reports whether the list has nothing to show
func (s State) Empty() bool {
	return len(s.Items) == 0
}

func (s State) clone() State {
	s.Items = slices.Clone(s.Items)
	return s
}
