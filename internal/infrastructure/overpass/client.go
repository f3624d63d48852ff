package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/grosnap/backend/internal/domain"
)

// DefaultURL is the public Overpass API interpreter endpoint
const DefaultURL = "https://overpass-api.de/api/interpreter"

const maxAttempts = 3

// Config holds Overpass client settings
type Config struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client runs Overpass QL queries against an OpenStreetMap Overpass server
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new Overpass API client
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	// the public instance asks clients to stay well below 1 request per second
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 0.5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 2
	}

	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.URL,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:      l.With().Str("component", "overpass").Logger(),
	}
}

// doRequest posts the query as the form field "data"
func (c *Client) doRequest(ctx context.Context, query string) (*http.Response, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "GroSnap/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	return resp, nil
}

// Search runs query and returns every element as a candidate.
// Elements without a position are returned with a nil coordinate.
func (c *Client) Search(ctx context.Context, query string) ([]domain.GeoCandidate, error) {
	c.logger.Debug().Int("query_len", len(query)).Msg("Search called")

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, query)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("Request error")
			lastErr = err
			if waitErr := sleepContext(ctx, exponentialBackoff(attempt)); waitErr != nil {
				return nil, lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: failed to read response: %v", domain.ErrUpstreamFailure, readErr)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Warn().
				Int("attempt", attempt).
				Int("status", resp.StatusCode).
				Str("body", truncate(string(body), 200)).
				Msg("API error")
			lastErr = fmt.Errorf("%w: overpass status %d", domain.ErrUpstreamFailure, resp.StatusCode)
			// a rejected query will not get better on retry
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			if waitErr := sleepContext(ctx, exponentialBackoff(attempt)); waitErr != nil {
				return nil, lastErr
			}
			continue
		}

		var parsed Response
		if err := json.Unmarshal(body, &parsed); err != nil {
			c.logger.Error().Err(err).Msg("JSON decode error")
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
		}

		candidates := MapToCandidates(parsed.Elements)
		c.logger.Debug().Int("elements", len(candidates)).Msg("Search complete")
		return candidates, nil
	}

	c.logger.Error().Err(lastErr).Msg("All retries failed")
	return nil, lastErr
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
