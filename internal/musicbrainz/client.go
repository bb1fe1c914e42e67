// Package musicbrainz talks to the MusicBrainz web service: release search
// and lookup for the reconciliation pass, and the curated genre list.
package musicbrainz

import (
	"bufio"
	"context"
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
	// BaseURL is the MusicBrainz API base URL
	BaseURL = "https://musicbrainz.org/ws/2"

	// UserAgent identifies this application to MusicBrainz
	// MusicBrainz requires a proper user agent
	UserAgent = "record-collection/1.0 (https://github.com/franz/record-collection)"

	// RateLimit is the maximum request rate (MusicBrainz requirement)
	RateLimit = 1 * time.Second
)

// Client handles MusicBrainz API requests with rate limiting
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *time.Ticker
}

// NewClient creates a new MusicBrainz API client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     BaseURL,
		userAgent:   UserAgent,
		rateLimiter: time.NewTicker(RateLimit),
	}
}

// Close releases resources used by the client
func (c *Client) Close() {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	// Wait for rate limit
	select {
	case <-c.rateLimiter.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("fmt", "json")
	urlStr := fmt.Sprintf("%s/%s?%s", c.baseURL, strings.TrimPrefix(path, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		resp.Body.Close()
		return nil, fmt.Errorf("MusicBrainz service unavailable (503) - rate limit exceeded or maintenance")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// SearchReleases runs a textual release search and returns up to limit
// result stubs (id and title only; fetch detail via GetRelease)
func (c *Client) SearchReleases(ctx context.Context, query string, limit int) ([]ReleaseStub, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", limit))

	util.DebugLog("MusicBrainz API: searching releases: %s", query)

	resp, err := c.get(ctx, "release", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result releaseSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Releases, nil
}

// GetRelease retrieves full release detail including recordings, artist
// credits, genres and release group
func (c *Client) GetRelease(ctx context.Context, releaseID string) (*Release, error) {
	if releaseID == "" {
		return nil, fmt.Errorf("release id cannot be empty")
	}

	params := url.Values{}
	params.Set("inc", "recordings artist-credits genres release-groups")

	util.DebugLog("MusicBrainz API: looking up release %s", releaseID)

	resp, err := c.get(ctx, "release/"+releaseID, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &release, nil
}

// GenreList fetches the authoritative genre name list (plain text, one
// genre per line)
func (c *Client) GenreList(ctx context.Context) ([]string, error) {
	select {
	case <-c.rateLimiter.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	urlStr := c.baseURL + "/genre/all?fmt=txt"

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var genres []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			genres = append(genres, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read genre list: %w", err)
	}

	return genres, nil
}
