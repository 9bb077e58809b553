package tmdb

// Movie is a single catalog item as returned by the movie list endpoints
type Movie struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Overview   string  `json:"overview"`
	PosterPath *string `json:"poster_path"`
}

// HasPoster reports whether the movie carries a usable poster path
func (m Movie) HasPoster() bool {
	return m.PosterPath != nil && *m.PosterPath != ""
}

// Poster returns the poster path or an empty string when absent
func (m Movie) Poster() string {
	if m.PosterPath == nil {
		return ""
	}
	return *m.PosterPath
}

// MoviesResponse is the envelope shared by /movie/popular and /search/movie
type MoviesResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// errorResponse is the body TMDB sends alongside error statuses
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       *bool  `json:"success,omitempty"`
}
