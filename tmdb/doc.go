// Package tmdb provides a small client for the movie list endpoints of the
// TMDB v3 API.
//
// Only two endpoints are used: /movie/popular when no query is given and
// /search/movie otherwise. Both return the same envelope, of which only the
// first page of results is consumed.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(
//		"https://api.themoviedb.org/3",
//		"your-api-key",
//		logger,
//		tmdb.WithLanguage("pt-BR"),
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	movies, err := client.Movies(ctx, "dune")
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError. Authentication failures also
// match ErrUnauthorized through errors.Is:
//
//	var apiErr *tmdb.APIError
//	if errors.As(err, &apiErr) && apiErr.IsServerError() {
//		// TMDB is having a bad day
//	}
package tmdb
