package sampleapis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/vinoteca/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client handles communication with the SampleAPIs wine catalog. It fetches
// one category per call; merging and caching happen upstream of it.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new catalog client
func NewClient(baseURL string) *Client {
	// SampleAPIs is a free community service; stay well under its informal
	// limits. A full catalog fetch is five requests, so the burst covers it.
	limiter := rate.NewLimiter(rate.Limit(2), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchCategory retrieves all wines of one category and tags each entry with
// the category's style label. A non-2xx response or transport error fails the
// call; the caller decides whether that sinks the whole catalog fetch.
func (c *Client) FetchCategory(ctx context.Context, style domain.Style) ([]domain.Wine, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s", c.baseURL, style)
	if c.debug {
		log.Printf("[sampleapis] GET %s", reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Vinoteca/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if c.debug {
			log.Printf("[sampleapis] %s returned %d: %s", style, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamUnavailable, style, resp.StatusCode)
	}

	var raw []rawWine
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", style, err)
	}

	wines := make([]domain.Wine, 0, len(raw))
	for _, r := range raw {
		wines = append(wines, mapToWine(r, style))
	}

	if c.debug {
		log.Printf("[sampleapis] fetched %d wines for %s", len(wines), style)
	}
	return wines, nil
}
