package tmdb

import (
	"net/url"
	"strings"
)

const (
	// DefaultImageBaseURL is the TMDB image host prefix
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultPosterSize is the size segment used for list thumbnails
	DefaultPosterSize = "w500"
)

// BuildImageURL joins the image host, size segment and poster path.
// An empty path yields an empty URL.
func BuildImageURL(base, size, path string) string {
	if path == "" {
		return ""
	}
	base = strings.TrimRight(base, "/")
	size = strings.Trim(size, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + "/" + size + path
}

// PosterURL returns the full poster URL for a movie, or "" if it has none
func (c *Client) PosterURL(m Movie) string {
	return BuildImageURL(c.imageBaseURL, c.posterSize, m.Poster())
}

// RedactURL hides the api_key query parameter so URLs are safe to log or display
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("api_key") == "" {
		return raw
	}
	// Rewrite only the key value so the readout keeps the original parameter order
	key := q.Get("api_key")
	u.RawQuery = strings.Replace(u.RawQuery, "api_key="+url.QueryEscape(key), "api_key=***", 1)
	return u.String()
}
