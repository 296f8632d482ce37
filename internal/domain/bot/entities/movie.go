// Package entities contains domain entities
package entities

// Movie is one TMDB search result or detail record.
type Movie struct {
	ID          int64
	Title       string
	ReleaseDate string
	Overview    string
	Runtime     int
	Genres      []string
	PosterPath  string
	BackdropURL string
}

// MovieSearchResult is one page of TMDB search results.
type MovieSearchResult struct {
	Page         int
	TotalPages   int
	TotalResults int
	Movies       []Movie
}
