// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fetch downloads listing pages with bounded retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// maxBodyBytes caps a single page download.
const maxBodyBytes = 10 << 20

// ErrStatus is wrapped by errors for non-200 responses.
var ErrStatus = errors.New("unexpected response status")

// Fetcher returns the raw markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options configures a Client.
type Options struct {
	// Attempts is the total number of tries per URL, including the first.
	Attempts int
	// Backoff is the fixed pause between attempts.
	Backoff time.Duration
	// Timeout bounds a single request.
	Timeout time.Duration
	// Rate limits requests per second; zero disables limiting.
	Rate      float64
	UserAgent string
}

// DefaultOptions returns the retry policy used in production.
func DefaultOptions() Options {
	return Options{
		Attempts:  3,
		Backoff:   5 * time.Second,
		Timeout:   30 * time.Second,
		Rate:      1,
		UserAgent: DefaultUserAgent,
	}
}

// Client is an HTTP Fetcher with retry, rate limiting and charset decoding.
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Client.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: limiter,
		logger:  logger,
	}
}

// Fetch downloads url, retrying network errors and non-200 responses up to
// Attempts times with a fixed pause. Cancellation of ctx stops retrying.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	backoff := retry.WithMaxRetries(uint64(c.opts.Attempts-1), retry.NewConstant(c.opts.Backoff))

	var (
		body    string
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		b, err := c.get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("fetch attempt failed",
				"url", url,
				"attempt", attempt,
				"max_attempts", c.opts.Attempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		body = b
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("fetching %s (%d attempts): %w", url, attempt, err)
	}

	c.logger.Debug("page fetched", "url", url, "bytes", len(body), "attempts", attempt)
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(data), nil
}

var _ Fetcher = (*Client)(nil)
