// Package httpx is a small JSON-over-HTTP client with a base URL and retries
// for transient failures.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy controls retries of transient failures. Only idempotent
// methods are retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	header     http.Header
	retry      RetryPolicy
	log        zerolog.Logger
}

// New creates a Client resolving request paths against baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("httpx: base URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpx: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("httpx: base URL %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		header:     make(http.Header),
		retry:      DefaultRetryPolicy,
		log:        zerolog.Nop(),
	}
	c.header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxRetries < 0 {
		c.retry.MaxRetries = 0
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// DoJSON sends in (when non-nil) as a JSON body to path and decodes the
// response into out (when non-nil). Non-2xx responses are returned as
// *HTTPError.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpx: encode request body: %w", err)
		}
	}

	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	backoff := NewBackoff(c.retry.BaseDelay, c.retry.MaxDelay, c.retry.Jitter)
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, method, target, payload)
		if err == nil {
			return decodeInto(body, out)
		}

		if !c.shouldRetry(ctx, method, attempt, err) {
			return err
		}

		delay := backoff.Delay(attempt)
		c.log.Debug().
			Err(err).
			Str("method", method).
			Str("url", target).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Retrying request")

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header = c.header.Clone()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpx: read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		httpErr := &HTTPError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       body,
			Header:     resp.Header.Clone(),
		}
		if isJSON(resp.Header.Get("Content-Type")) {
			httpErr.JSON = decodeJSONBody(body)
		}
		return nil, httpErr
	}
	return body, nil
}

func (c *Client) shouldRetry(ctx context.Context, method string, attempt int, err error) bool {
	if attempt >= c.retry.MaxRetries || ctx.Err() != nil {
		return false
	}
	if !idempotent(method) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	// Transport level failure.
	return true
}

func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("httpx: invalid path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpx: decode response body: %w", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType) == "application/json"
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stream opens a long-lived GET on path and returns the response body. The
// client timeout does not apply; ctx bounds the stream. Streams are not retried.
func (c *Client) Stream(ctx context.Context, path, accept string) (io.ReadCloser, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header = c.header.Clone()
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	streaming := *c.httpClient
	streaming.Timeout = 0
	resp, err := streaming.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &HTTPError{
			Method:     http.MethodGet,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       body,
			Header:     resp.Header.Clone(),
		}
	}
	return resp.Body, nil
}
