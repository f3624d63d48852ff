// Package ocr talks to an HTTP text-recognition service (for example a
// tesseract sidecar) that accepts an image upload and returns plain text.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/grosnap/backend/internal/domain"
)

const maxAttempts = 3

// Config holds OCR client settings
type Config struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// recognizeResponse is the JSON body returned by the OCR service
type recognizeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Client sends images to the OCR service
type Client struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new OCR client
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		url:         cfg.URL,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:      l.With().Str("component", "ocr").Logger(),
	}
}

// ExtractText uploads image as the multipart field "file" and returns the recognized text
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: image is empty", domain.ErrInvalidInput)
	}

	body, contentType, err := encodeImage(image)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		text, retry, err := c.recognize(ctx, body, contentType)
		if err == nil {
			c.logger.Debug().Int("bytes", len(image)).Int("chars", len(text)).Msg("Text recognized")
			return text, nil
		}

		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("Recognition attempt failed")
		lastErr = err
		if !retry {
			return "", err
		}
		if waitErr := sleepContext(ctx, exponentialBackoff(attempt)); waitErr != nil {
			return "", lastErr
		}
	}

	return "", lastErr
}

// recognize performs one upload. retry reports whether the failure is transient.
func (c *Client) recognize(ctx context.Context, body []byte, contentType string) (text string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: failed to read response: %v", domain.ErrUpstreamFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		return "", transient, fmt.Errorf("%w: ocr status %d", domain.ErrUpstreamFailure, resp.StatusCode)
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}
	if parsed.Error != "" {
		return "", false, fmt.Errorf("%w: %s", domain.ErrUpstreamFailure, parsed.Error)
	}

	return parsed.Text, false, nil
}

func encodeImage(image []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "upload")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
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
