package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	defaultPause   = 300 * time.Millisecond
)

// Options configures the shared HTTP client. Zero values fall back to
// sensible defaults.
type Options struct {
	UserAgent string
	Token     string // GitHub token, applied to api.github.com requests only
	Timeout   time.Duration
	Pause     time.Duration // courtesy pause between batched worker calls
}

// Client wraps the process-wide HTTP session with per-call timeouts,
// error classification and quota bookkeeping.
type Client struct {
	http      *http.Client
	quota     *Quota
	userAgent string
	token     string
	timeout   time.Duration
	pause     time.Duration
}

func NewClient(httpClient *http.Client, quota *Quota, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if quota == nil {
		quota = NewQuota()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Pause <= 0 {
		opts.Pause = defaultPause
	}

	return &Client{
		http:      httpClient,
		quota:     quota,
		userAgent: opts.UserAgent,
		token:     opts.Token,
		timeout:   opts.Timeout,
		pause:     opts.Pause,
	}
}

func (c *Client) Quota() *Quota {
	return c.quota
}

// Get retrieves a URL body. Failures are returned as classified *Error
// values: 401/403 map to KindRateLimit, everything else (including a
// per-call timeout) to KindNetwork.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, networkError(url, fmt.Errorf("failed to create request: %w", err))
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" && strings.Contains(url, "api.github.com") {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(url, err)
	}
	defer resp.Body.Close()

	c.quota.Record(resp.Header)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, rateLimitError(url, fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, networkError(url, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(url, fmt.Errorf("failed to read response body: %w", err))
	}

	return data, nil
}

// GetJSON retrieves a URL and decodes its JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	data, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return networkError(url, fmt.Errorf("failed to decode JSON: %w", err))
	}
	return nil
}

// Pause sleeps the courtesy interval between batched calls, returning
// early when the context is cancelled.
func (c *Client) Pause(ctx context.Context) {
	select {
	case <-time.After(c.pause):
	case <-ctx.Done():
	}
}
