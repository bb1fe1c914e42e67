// Package discogs imports a user's Discogs collection into the catalog.
package discogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/franz/record-collection/internal/util"
)

const (
	// BaseURL is the Discogs API base URL
	BaseURL = "https://api.discogs.com"

	// UserAgent identifies this application to Discogs
	UserAgent = "record-collection/1.0 (https://github.com/franz/record-collection)"

	// requestsPerMinute is the authenticated Discogs rate limit
	requestsPerMinute = 60

	collectionPageSize = 100
)

// ClientConfig holds the Discogs API credentials
type ClientConfig struct {
	Key      string
	Secret   string
	Username string
}

// Client handles Discogs API requests. Requests are throttled to the
// documented per-minute limit over a rolling window, and a 429 response
// is retried once after a minute.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     ClientConfig

	mu           sync.Mutex
	requestTimes []time.Time
}

// NewClient creates a new Discogs API client
func NewClient(config ClientConfig) (*Client, error) {
	if config.Key == "" || config.Secret == "" {
		return nil, fmt.Errorf("%w: discogs api key and secret are required", util.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("%w: discogs username is required", util.ErrInvalidConfig)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: BaseURL,
		config:  config,
	}, nil
}

// throttle blocks until another request may be sent without exceeding
// the rolling per-minute limit
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	cutoff := time.Now().Add(-time.Minute)
	recent := c.requestTimes[:0]
	for _, t := range c.requestTimes {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	c.requestTimes = recent

	var wait time.Duration
	if len(c.requestTimes) >= requestsPerMinute {
		wait = time.Until(c.requestTimes[0].Add(time.Minute))
	}
	c.mu.Unlock()

	if wait > 0 {
		util.DebugLog("Discogs rate limit reached, waiting %s", wait.Round(time.Second))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, path)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		util.WarnLog("Discogs returned 429, backing off for a minute")
		select {
		case <-time.After(time.Minute):
		case <-ctx.Done():
			return ctx.Err()
		}
		if resp, err = c.doRequest(ctx, path); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Discogs key=%s, secret=%s", c.config.Key, c.config.Secret))
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	c.mu.Lock()
	c.requestTimes = append(c.requestTimes, time.Now())
	c.mu.Unlock()

	return resp, nil
}

// UserCollectionPage fetches one page of the user's collection folder 0
// (the "All" folder)
func (c *Client) UserCollectionPage(ctx context.Context, page int) (*CollectionPage, error) {
	path := fmt.Sprintf("/users/%s/collection/folders/0/releases?per_page=%d&page=%d",
		c.config.Username, collectionPageSize, page)

	util.DebugLog("Discogs API: fetching collection page %d", page)

	var result CollectionPage
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserCollection fetches the user's complete collection across all pages
func (c *Client) UserCollection(ctx context.Context) ([]CollectionRelease, error) {
	var releases []CollectionRelease
	page, pages := 1, 1

	for page <= pages {
		util.InfoLog("Fetching Discogs collection (%d/%d)", page, pages)
		result, err := c.UserCollectionPage(ctx, page)
		if err != nil {
			return nil, err
		}
		pages = result.Pagination.Pages
		page++
		releases = append(releases, result.Releases...)
	}

	return releases, nil
}

// GetRelease retrieves full release detail including the tracklist
func (c *Client) GetRelease(ctx context.Context, releaseID int64) (*Release, error) {
	util.DebugLog("Discogs API: fetching release %d", releaseID)

	var release Release
	if err := c.get(ctx, fmt.Sprintf("/releases/%d", releaseID), &release); err != nil {
		return nil, err
	}
	return &release, nil
}
