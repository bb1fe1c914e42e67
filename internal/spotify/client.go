// Package spotify imports a user's saved Spotify albums into the catalog.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/franz/record-collection/internal/util"
)

const (
	// BaseURL is the Spotify Web API base URL
	BaseURL = "https://api.spotify.com/v1"

	// TokenURL is the Spotify account service token endpoint
	TokenURL = "https://accounts.spotify.com/api/token"

	savedAlbumsPageSize = 50
)

// ClientConfig holds the Spotify API credentials. The refresh token
// comes from a one-time authorization with the user-library-read scope.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Client handles Spotify Web API requests. Access tokens are obtained
// from the configured refresh token and renewed before expiry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokenURL   string
	config     ClientConfig

	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new Spotify API client
func NewClient(config ClientConfig) (*Client, error) {
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id and secret are required", util.ErrInvalidConfig)
	}
	if config.RefreshToken == "" {
		return nil, fmt.Errorf("%w: spotify refresh token is required", util.ErrInvalidConfig)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:  BaseURL,
		tokenURL: TokenURL,
		config:   config,
	}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// refreshAccessToken exchanges the refresh token for a fresh access token
func (c *Client) refreshAccessToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.config.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, "POST", c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.config.ClientID + ":" + c.config.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("token refresh failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = token.AccessToken
	// Renew a minute early so in-flight requests never race expiry
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)

	util.DebugLog("Spotify access token refreshed, valid until %s", c.tokenExpiry.Format("15:04:05"))
	return nil
}

// getURL performs an authenticated GET against an absolute API URL.
// Spotify paginates with absolute "next" URLs, so callers pass those
// straight back in.
func (c *Client) getURL(ctx context.Context, urlStr string, out any) error {
	if c.accessToken == "" || time.Now().After(c.tokenExpiry) {
		if err := c.refreshAccessToken(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := 5 * time.Second
		if retryAfter := util.IntOrZero(resp.Header.Get("Retry-After")); retryAfter > 0 {
			wait = time.Duration(retryAfter) * time.Second
		}
		util.WarnLog("Spotify returned 429, backing off for %s", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		return c.getURL(ctx, urlStr, out)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SavedAlbumsPage fetches one page of the user's saved albums. Pass an
// empty url for the first page, then the page's Next url.
func (c *Client) SavedAlbumsPage(ctx context.Context, pageURL string) (*SavedAlbumsPage, error) {
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/me/albums?limit=%d", c.baseURL, savedAlbumsPageSize)
	}

	util.DebugLog("Spotify API: fetching %s", pageURL)

	var page SavedAlbumsPage
	if err := c.getURL(ctx, pageURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AlbumTracksPage fetches a continuation page of an album's tracklist
func (c *Client) AlbumTracksPage(ctx context.Context, pageURL string) (*TracksPage, error) {
	util.DebugLog("Spotify API: fetching %s", pageURL)

	var page TracksPage
	if err := c.getURL(ctx, pageURL, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
