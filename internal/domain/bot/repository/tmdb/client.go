// Package tmdb contains the TMDB movie metadata client
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/internal/domain/bot/entities"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/errors"
)

const imageBaseURL = "https://image.tmdb.org/t/p/w1280"

// Client queries The Movie Database API. Implements deps.MovieDatabase.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a TMDB client.
func NewClient(cfg *config.PostConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.TMDBBaseURL,
		apiKey:  cfg.TMDBAPIKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With().Str("component", "tmdb-client").Logger(),
	}
}

type searchResponse struct {
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
	Results      []movieResponse `json:"results"`
}

type movieResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ReleaseDate  string `json:"release_date"`
	Overview     string `json:"overview"`
	Runtime      int    `json:"runtime"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	Genres       []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

func (m movieResponse) toEntity() entities.Movie {
	movie := entities.Movie{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate,
		Overview:    m.Overview,
		Runtime:     m.Runtime,
		PosterPath:  m.PosterPath,
	}
	// Prefer the wide backdrop for channel posts, fall back to the poster.
	switch {
	case m.BackdropPath != "":
		movie.BackdropURL = imageBaseURL + m.BackdropPath
	case m.PosterPath != "":
		movie.BackdropURL = imageBaseURL + m.PosterPath
	}
	for _, g := range m.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	return movie
}

// SearchMovies returns one page of movie search results for the query.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*entities.MovieSearchResult, error) {
	endpoint := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s&page=%d",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query), page)

	var resp searchResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	result := &entities.MovieSearchResult{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}
	for _, m := range resp.Results {
		result.Movies = append(result.Movies, m.toEntity())
	}
	return result, nil
}

// MovieDetails returns full metadata for one movie.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*entities.Movie, error) {
	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, movieID, url.QueryEscape(c.apiKey))

	var resp movieResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, boterrors.ErrMovieNotFound
	}
	movie := resp.toEntity()
	return &movie, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.NewInternalError("failed to build tmdb request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("TMDB request failed")
		return errors.NewUnavailableError("movie database is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return boterrors.ErrMovieNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("TMDB returned error status")
		return errors.NewUnavailableError("movie database returned an error")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewInternalError("failed to decode tmdb response")
	}
	return nil
}
