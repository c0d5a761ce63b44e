// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package tmdb is a small client for The Movie Database v3 API.

Only GET /3/movie/{id} is used. Every call goes through the same
resilience chain:

  - Circuit breaker (sony/gobreaker): opens after N consecutive transient
    failures; while open, calls fail fast with ErrCircuitOpen
  - Rate limiter (x/time/rate): bounds outbound requests per second
  - Retry: 500/502/503/504 and transport errors are retried with
    exponential backoff (base, 2×base, 4×base, ...) capped at
    MaxRetryDelay; Retry-After is honoured within the cap
  - Timeout: each attempt is bounded by the http.Client timeout

4xx responses are terminal and never retried.
*/
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// maxErrorBodySize caps how much of a non-2xx body is kept for diagnostics.
const maxErrorBodySize = 64 * 1024

// readBodyForError reads at most maxErrorBodySize bytes.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client fetches movie metadata from TMDB. It is safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	language       string
	userAgent      string
	client         *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[*Movie]
	breakerName    string
	maxRetries     int
	retryBaseDelay time.Duration
	maxRetryDelay  time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The caller's client
// keeps its own Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithBreakerName sets the breaker name used in metrics and logs.
func WithBreakerName(name string) Option {
	return func(c *Client) { c.breakerName = name }
}

// NewClient builds a client from cfg.
func NewClient(cfg *config.TMDBConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		userAgent:      cfg.UserAgent,
		client:         &http.Client{Timeout: cfg.Timeout},
		breakerName:    "tmdb-api",
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		maxRetryDelay:  cfg.MaxRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	c.breaker = newBreaker(c.breakerName, cfg)
	return c
}

// GetMovie fetches /3/movie/{id}. Failures are returned as *RequestError
// wrapping a *StatusError, ErrRetriesExhausted or a context error, or as
// ErrCircuitOpen when the breaker rejects the call.
func (c *Client) GetMovie(ctx context.Context, id int) (*Movie, error) {
	movie, err := c.breaker.Execute(func() (*Movie, error) {
		return c.fetchMovie(ctx, id)
	})
	c.recordBreakerResult(err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	if err != nil {
		return nil, err
	}
	return movie, nil
}

// movieURL builds the request URL for id.
func (c *Client) movieURL(id int) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	return fmt.Sprintf("%s/3/movie/%d?%s", c.baseURL, id, params.Encode())
}

// fetchMovie runs the retry loop. At most maxRetries+1 requests are sent.
func (c *Client) fetchMovie(ctx context.Context, id int) (*Movie, error) {
	reqURL := c.movieURL(id)
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, &RequestError{MovieID: id, Attempts: attempts, Err: ctx.Err()}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &RequestError{MovieID: id, Attempts: attempts, Err: fmt.Errorf("rate limiter: %w", err)}
		}

		attempts++
		movie, err := c.doOnce(ctx, reqURL)
		if err == nil {
			return movie, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return nil, &RequestError{MovieID: id, Attempts: attempts, Err: err}
		}
		if attempt == c.maxRetries {
			break
		}

		delay := c.backoff(attempt, err)
		logging.Ctx(ctx).Debug().
			Int("movie_id", id).
			Int("attempt", attempts).
			Dur("delay", delay).
			Err(err).
			Msg("Retrying TMDB request")
		metrics.RecordTMDBRetry()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &RequestError{MovieID: id, Attempts: attempts, Err: ctx.Err()}
		}
	}

	return nil, &RequestError{
		MovieID:  id,
		Attempts: attempts,
		Err:      fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr),
	}
}

// backoff returns base×2^attempt, or Retry-After when present, capped at
// maxRetryDelay.
func (c *Client) backoff(attempt int, err error) time.Duration {
	delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > 0 {
		delay = se.RetryAfter
	}
	if c.maxRetryDelay > 0 && delay > c.maxRetryDelay {
		delay = c.maxRetryDelay
	}
	return delay
}

// doOnce performs a single HTTP attempt.
func (c *Client) doOnce(ctx context.Context, reqURL string) (*Movie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordTMDBRequest(0, time.Since(start))
		return nil, &transportError{err: err}
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body fully consumed or abandoned
	metrics.RecordTMDBRequest(resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var movie Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("failed to decode movie response: %w", err)
	}
	return &movie, nil
}

// parseRetryAfter accepts delay-seconds; HTTP-date values are ignored.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
