// Package scraper provides the scraping-client collaborator: timeout-bounded
// HTTP retrieval of job posting pages with bounded retries on transient
// failures.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	retry "github.com/avast/retry-go/v4"

	"github.com/jcarver/jobagent/internal/domain"
)

// maxBodyBytes caps how much of a posting page is read. Postings are text;
// anything larger is truncated rather than buffered whole.
const maxBodyBytes = 2 << 20

// Config holds configuration for the HTTP scraping client.
type Config struct {
	// Timeout bounds each individual fetch attempt.
	Timeout time.Duration

	// MaxRetries is how many additional attempts follow a transient
	// failure. Zero disables retries.
	MaxRetries int

	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    15 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Second,
		UserAgent:  "jobagent/1.0",
	}
}

// Client fetches raw posting content over HTTP. It implements
// resolver.ScrapeClient.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
}

// New creates a new scraping client.
func New(config Config, logger *slog.Logger) *Client {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultConfig().RetryDelay
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		logger:     logger.With("component", "scraper"),
	}
}

// Fetch retrieves the content behind url. Timeouts, connection failures,
// server errors, and rate limiting are surfaced as errors wrapping
// domain.ErrTransient / domain.ErrRateLimited and retried up to the
// configured bound; client errors (404 and friends) are permanent and
// returned immediately.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var body string

	err := retry.Do(
		func() error {
			var err error
			body, err = c.fetchOnce(ctx, url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.config.MaxRetries)+1),
		retry.Delay(c.config.RetryDelay),
		retry.RetryIf(domain.IsTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			c.logger.Warn("retrying fetch",
				"url", url, "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		return "", err
	}

	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid posting URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("fetch aborted: %w", domain.ErrCancelled)
		}
		// Connection failures and client-side timeouts are all transient
		// from the pipeline's point of view.
		return "", fmt.Errorf("%w: fetching %s: %v", domain.ErrTransient, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: fetching %s", domain.ErrRateLimited, url)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: server returned %d for %s", domain.ErrTransient, resp.StatusCode, url)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading body of %s: %v", domain.ErrTransient, url, err)
	}

	c.logger.Debug("fetched posting", "url", url, "bytes", len(data))
	return string(data), nil
}
