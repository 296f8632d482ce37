// Package shortener contains the get2short link shortener client
package shortener

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/config"
	"github.com/shred03/filestore-bot/pkg/errors"
)

const apiEndpoint = "https://get2short.com/api"

// Client shortens retrieval links through get2short. Implements
// deps.LinkShortener.
type Client struct {
	apiKey string
	http   *http.Client
	logger zerolog.Logger
}

// NewClient creates a shortener client.
func NewClient(cfg *config.PostConfig, logger zerolog.Logger) *Client {
	return &Client{
		apiKey: cfg.ShortenerAPIKey,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger.With().Str("component", "shortener-client").Logger(),
	}
}

type shortenResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
	Message      string `json:"message"`
}

// Shorten returns a shortened URL for the original. Callers fall back to
// the original URL on error.
func (c *Client) Shorten(ctx context.Context, originalURL, alias string) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewUnavailableError("shortener is not configured")
	}

	params := url.Values{}
	params.Set("api", c.apiKey)
	params.Set("url", originalURL)
	if alias != "" {
		params.Set("alias", alias)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", errors.NewInternalError("failed to build shortener request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Shortener request failed")
		return "", errors.NewUnavailableError("shortener is unreachable")
	}
	defer resp.Body.Close()

	var body shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.NewInternalError("failed to decode shortener response")
	}
	if body.Status != "success" || body.ShortenedURL == "" {
		c.logger.Warn().Str("status", body.Status).Str("message", body.Message).Msg("Shortener rejected link")
		return "", errors.NewUnavailableError("shortener rejected the link")
	}
	return body.ShortenedURL, nil
}
