// Package lastfm pulls a user's scrobble counts from Last.fm and writes
// them onto matching catalog tracks.
package lastfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/franz/record-collection/internal/util"
)

const (
	// BaseURL is the Last.fm API base URL
	BaseURL = "https://ws.audioscrobbler.com/2.0/"

	topTracksPageSize = 1000
)

// ClientConfig holds the Last.fm API credentials
type ClientConfig struct {
	APIKey   string
	Username string
}

// Client handles Last.fm API requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     ClientConfig
}

// NewClient creates a new Last.fm API client
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: lastfm api key is required", util.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("%w: lastfm username is required", util.ErrInvalidConfig)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: BaseURL,
		config:  config,
	}, nil
}

// TopTracksPage fetches one page of the user's all-time top tracks
func (c *Client) TopTracksPage(ctx context.Context, page int) (*TopTracksPage, error) {
	params := url.Values{}
	params.Set("method", "user.gettoptracks")
	params.Set("user", c.config.Username)
	params.Set("api_key", c.config.APIKey)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", topTracksPageSize))
	params.Set("page", fmt.Sprintf("%d", page))

	util.DebugLog("Last.fm API: fetching top tracks page %d", page)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var result topTracksResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.TopTracks, nil
}
