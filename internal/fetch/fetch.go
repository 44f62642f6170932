// Package fetch retrieves raw log blobs over HTTP with bounded retries. The
// digest pipeline takes bytes from the caller; this is the thin layer the CLI
// and server use when the log lives behind a URL instead of on disk.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// HTTPError represents a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string // first 512 bytes

	retryAfter string // Retry-After header value for 429s
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client fetches blobs. The zero value is not usable; call New.
type Client struct {
	httpClient *http.Client
	maxBytes   int64
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMaxBytes caps how many body bytes one fetch reads. Blobs larger than
// the cap are cut off, not rejected; the digest truncator bounds them anyway.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		c.maxBytes = n
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxBytes:   64 << 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const maxRetries = 3

// Get fetches url and returns the body. Returns *HTTPError for non-2xx
// responses. Retries on 429 (honoring Retry-After) and 5xx with exponential
// backoff (1s, 2s, 4s), max 3 retries.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr *HTTPError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffDelay(attempt, lastErr)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		bodyStr := string(body)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: bodyStr}

		if resp.StatusCode == http.StatusTooManyRequests {
			httpErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = httpErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = httpErr
			continue
		}

		return nil, httpErr
	}

	return nil, lastErr
}

// backoffDelay returns the wait duration before a retry attempt.
func backoffDelay(attempt int, lastErr *HTTPError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	// Exponential backoff: 1s, 2s, 4s
	return time.Duration(1<<(attempt-1)) * time.Second
}
