// Package httpx carries the shared HTTP client helpers every upstream
// adapter (geocoder, router, rest-stop locator) builds requests with:
// status-aware error wrapping and exponential-backoff retry.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// StatusError is returned by Do when the upstream responds with a 4xx/5xx
// status. Callers inspect Code to decide whether it maps to
// apperr.UpstreamInvalid or apperr.UpstreamTimeout.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

// Client wraps an *http.Client with retry/backoff around transient
// failures, generalized from the teacher's doWithRetry/httpStatusError.
type Client struct {
	HTTP        *http.Client
	MaxAttempts int
	BaseBackoff time.Duration
}

// NewClient returns a Client with the teacher's defaults: 4 attempts,
// 200ms initial backoff doubling each retry.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{HTTP: httpClient, MaxAttempts: 4, BaseBackoff: 200 * time.Millisecond}
}

// Do executes a single request, turning a 4xx/5xx response into a
// *StatusError so the retry loop (and callers) can branch on it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// DoWithRetry retries transient failures (network errors, 429/5xx
// responses) with exponential backoff while respecting context
// cancellation. makeReq is called again on every attempt so callers can
// rebuild a fresh *http.Request (bodies aren't rewindable).
func (c *Client) DoWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := c.BaseBackoff
	var lastErr error

	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("httpx: build request: %w", err)
		}

		resp, err := c.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == c.MaxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
