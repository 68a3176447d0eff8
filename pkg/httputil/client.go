// Package httputil provides an HTTP client wrapper with local rate
// limiting and retry with exponential backoff. Responses carrying a
// Retry-After header (Binance sends one with 429 and 418) are honored.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

// Options configures a Client.
type Options struct {
	// Timeout bounds a single request attempt. Zero means 30s.
	Timeout time.Duration
	// RateLimitRPS caps outgoing requests per second. Zero disables the
	// limiter.
	RateLimitRPS float64
	// MaxRetries bounds retry attempts after the first request. Zero means
	// no retries.
	MaxRetries int
	// InitialDelay is the first backoff step. Zero means 1s.
	InitialDelay time.Duration
	// MaxDelay caps the backoff. Zero means 30s.
	MaxDelay time.Duration
}

// Client wraps http.Client with rate limiting, retries, and logging.
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	opts       Options
}

// New creates a Client. A nil logger falls back to a no-op logger.
func New(log *logger.Logger, opts Options) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.InitialDelay == 0 {
		opts.InitialDelay = time.Second
	}
	if opts.MaxDelay == 0 {
		opts.MaxDelay = 30 * time.Second
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     log,
		limiter:    limiter,
		opts:       opts,
	}
}

// Get performs a GET request with rate limiting and retries.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return c.do(req)
}

// GetJSON performs a GET request and decodes a JSON response body into out.
// Non-2xx statuses after retries are returned as errors.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode JSON from %s: %w", url, err)
	}
	return nil
}

// do executes the request, retrying on rate limiting (429/418 with
// Retry-After), server errors, and transport failures.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusTeapot:
			// Binance signals bans and throttling with 429/418 plus Retry-After.
			wait := retryAfter(resp, c.backoff(attempt))
			resp.Body.Close()
			lastErr = fmt.Errorf("rate limited with status %d", resp.StatusCode)
			if attempt >= c.opts.MaxRetries {
				return nil, fmt.Errorf("%s %s failed after %d attempts: %w", req.Method, req.URL, attempt+1, lastErr)
			}
			c.logger.WithFields(map[string]interface{}{
				"url":     req.URL.String(),
				"status":  resp.StatusCode,
				"wait":    wait,
				"attempt": attempt + 1,
			}).Warn("Rate limited, backing off")
			if err := sleep(req.Context(), wait); err != nil {
				return nil, err
			}
			continue
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt >= c.opts.MaxRetries {
			return nil, fmt.Errorf("%s %s failed after %d attempts: %w", req.Method, req.URL, attempt+1, lastErr)
		}

		wait := c.backoff(attempt)
		c.logger.WithFields(map[string]interface{}{
			"url":     req.URL.String(),
			"error":   lastErr.Error(),
			"wait":    wait,
			"attempt": attempt + 1,
		}).Debug("Request failed, retrying")
		if err := sleep(req.Context(), wait); err != nil {
			return nil, err
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.InitialDelay << uint(attempt)
	if d > c.opts.MaxDelay || d <= 0 {
		d = c.opts.MaxDelay
	}
	return d
}

// retryAfter reads the Retry-After header in seconds, falling back to the
// given default.
func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
