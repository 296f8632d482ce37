// Package koyeb contains the Koyeb redeploy client
package koyeb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/shred03/filestore-bot/config"
	boterrors "github.com/shred03/filestore-bot/internal/domain/bot/errors"
	"github.com/shred03/filestore-bot/pkg/errors"
)

const apiBaseURL = "https://api.koyeb.com/v1"

// Client restarts the bot's own Koyeb service by re-submitting the latest
// deployment definition. Implements deps.Redeployer.
type Client struct {
	apiKey    string
	serviceID string
	http      *http.Client
	logger    zerolog.Logger
}

// NewClient creates a Koyeb client.
func NewClient(cfg *config.DeployConfig, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:    cfg.APIKey,
		serviceID: cfg.ServiceID,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger.With().Str("component", "koyeb-client").Logger(),
	}
}

type deploymentsResponse struct {
	Deployments []struct {
		Definition json.RawMessage `json:"definition"`
	} `json:"deployments"`
}

// Redeploy fetches the service's latest deployment and submits a new one
// with the same definition.
func (c *Client) Redeploy(ctx context.Context) error {
	if c.apiKey == "" || c.serviceID == "" {
		return errors.NewUnavailableError("redeploy is not configured")
	}

	definition, err := c.latestDefinition(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"service_id": c.serviceID,
		"definition": definition,
	})
	if err != nil {
		return errors.NewInternalError("failed to encode deployment request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBaseURL+"/deployments", bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError("failed to build deployment request")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Koyeb deployment request failed")
		return boterrors.ErrRedeployFailure
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		c.logger.Info().Str("service_id", c.serviceID).Msg("Redeployment initiated")
		return nil
	default:
		c.logger.Error().Int("status", resp.StatusCode).Msg("Koyeb rejected deployment")
		return boterrors.ErrRedeployFailure
	}
}

func (c *Client) latestDefinition(ctx context.Context) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/deployments?service_id=%s&limit=1", apiBaseURL, c.serviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to build deployments request")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to fetch deployments")
		return nil, boterrors.ErrRedeployFailure
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("Koyeb deployments lookup failed")
		return nil, boterrors.ErrRedeployFailure
	}

	var body deploymentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewInternalError("failed to decode deployments response")
	}
	if len(body.Deployments) == 0 {
		return nil, errors.NewNotFoundError("no deployments found for this service")
	}
	return body.Deployments[0].Definition, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
