package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	userAgent    = "movie-discovery-service/1.0"
	maxBodyBytes = 4 << 20
	maxErrorBody = 4 << 10
)

// StatusError is returned for any non-2xx response. Body holds the
// beginning of the response payload so callers can decode API error text.
type StatusError struct {
	Code   int
	Status string
	URL    string
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Doer is the subset of *http.Client used by Client
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a single-attempt HTTP GET client
type Client struct {
	httpClient Doer
	timeout    time.Duration
}

// NewClient creates a new HTTP client
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// NewWithDoer creates a client over a custom transport
func NewWithDoer(doer Doer) *Client {
	return &Client{httpClient: doer}
}

// Fetch makes one HTTP GET request. There is no retry: a transport error or
// non-2xx status is returned to the caller as is.
func (c *Client) Fetch(ctx context.Context, targetURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().
			Err(err).
			Str("url", req.URL.Path).
			Msg("Request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn().
			Int("status", resp.StatusCode).
			Str("url", req.URL.Path).
			Msg("Upstream returned error status")
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: http.StatusText(resp.StatusCode),
			URL:    req.URL.Path,
			Body:   body,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	log.Debug().
		Str("url", req.URL.Path).
		Dur("latency", time.Since(start)).
		Int("bytes", len(body)).
		Msg("Fetched")

	return body, nil
}

// Timeout returns the configured per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}
