// Package planet proxies satellite imagery tile requests to the Sentinel Hub
// WMTS endpoint, keeping the API key out of browser-visible URLs.
package planet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://services.sentinel-hub.com/ogc/wmts"

// TileResponse mirrors the upstream reply: status, content type, and raw body.
// Error replies from upstream pass through unchanged so callers can surface
// the WMTS diagnostics.
type TileResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Client fetches WMTS tiles on behalf of browser clients.
type Client struct {
	apiKey     string
	configID   string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a tile proxy client for the given layer configuration.
func NewClient(apiKey, configID string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:   apiKey,
		configID: configID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// FetchTile forwards the raw WMTS query string upstream and returns the reply
// verbatim. rawQuery is passed through untouched: the upstream endpoint owns
// the WMTS parameter contract.
func (c *Client) FetchTile(ctx context.Context, rawQuery string) (TileResponse, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, c.configID)
	if rawQuery != "" {
		u += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return TileResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TileResponse{}, fmt.Errorf("tile request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TileResponse{}, fmt.Errorf("read tile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream tile error", "status", resp.StatusCode, "bytes", len(body))
	}

	return TileResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
