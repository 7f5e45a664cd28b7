// ABOUTME: Shared HTTP client for the instance API with retry and rate limiting
// ABOUTME: Exponential backoff on 429/5xx; token-bucket limiter from golang.org/x/time/rate

package httputil

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxRetries    = 3
	baseBackoffMs = 500
	maxBackoffMs  = 10000
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	// Headers are set on every request (Authorization, User-Agent, ...).
	Headers map[string]string
	// RequestsPerSecond caps outgoing requests; <= 0 disables limiting.
	RequestsPerSecond float64
	// Burst is the limiter bucket size (default 1).
	Burst int
	// Timeout bounds a single request attempt (default 30s).
	Timeout time.Duration
	// Backoff overrides the retry backoff schedule; used by tests.
	Backoff func(attempt int) time.Duration
}

// Client wraps an http.Client with retry logic, rate limiting and default headers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	limiter    *rate.Limiter
	backoff    func(int) time.Duration
}

// NewClient creates a new HTTP client with the given base URL.
// Proxy support comes from the stdlib's default transport (HTTP_PROXY, HTTPS_PROXY).
func NewClient(baseURL string, opts Options) *Client {
	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		baseURL: NormalizeBaseURL(baseURL),
		headers: headers,
		backoff: opts.Backoff,
	}
	if c.backoff == nil {
		c.backoff = backoff
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// BaseURL returns the base URL configured on this client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends an HTTP request with retry on 429 and 5xx status codes.
// It returns the response from the last attempt, even if retries were exhausted.
// If body implements io.Seeker, it is rewound before each retry attempt.
// extra headers are applied after the client defaults.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, extra http.Header) (*http.Response, error) {
	seeker, _ := body.(io.Seeker)

	for attempt := 0; ; attempt++ {
		if err := rewindBody(seeker, attempt); err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		req, err := c.buildRequest(ctx, method, path, body, extra)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http request failed: %w", err)
		}

		if !isRetryable(resp.StatusCode) || attempt >= maxRetries || (body != nil && seeker == nil) {
			return resp, nil
		}

		// Close the body of the retryable response before retrying.
		resp.Body.Close()

		if err := sleepWithContext(ctx, c.backoff(attempt)); err != nil {
			return nil, fmt.Errorf("context cancelled during retry backoff: %w", err)
		}
	}
}

// buildRequest creates an http.Request with default headers applied.
func (c *Client) buildRequest(ctx context.Context, method, path string, body io.Reader, extra http.Header) (*http.Request, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s %s: %w", method, path, err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return req, nil
}

// rewindBody resets a seekable body to the beginning for retry attempts.
// It is a no-op on the first attempt (attempt == 0) or if seeker is nil.
func rewindBody(seeker io.Seeker, attempt int) error {
	if seeker == nil || attempt == 0 {
		return nil
	}
	_, err := seeker.Seek(0, io.SeekStart)
	return err
}

// isRetryable returns true for status codes that warrant a retry.
func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// backoff returns the backoff duration for the given attempt using exponential backoff.
func backoff(attempt int) time.Duration {
	ms := float64(baseBackoffMs) * math.Pow(2, float64(attempt))
	if ms > maxBackoffMs {
		ms = maxBackoffMs
	}
	return time.Duration(ms) * time.Millisecond
}

// sleepWithContext waits for the given duration or until the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
