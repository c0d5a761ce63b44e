// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdb

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrRetriesExhausted wraps the last transient failure once every
	// attempt has been used.
	ErrRetriesExhausted = errors.New("tmdb: retries exhausted")

	// ErrCircuitOpen is returned without network I/O while the breaker is
	// open or its half-open probe slots are taken.
	ErrCircuitOpen = errors.New("tmdb: circuit breaker open")
)

// StatusError is a non-2xx response from TMDB.
type StatusError struct {
	StatusCode int
	Body       string

	// RetryAfter is the parsed Retry-After header, zero if absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether the status is one that is retried:
// 500, 502, 503 or 504.
func (e *StatusError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// ClientError reports a 4xx status. These are terminal and do not count
// against the circuit breaker.
func (e *StatusError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// transportError marks a failure before any response arrived.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "tmdb: request failed: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// RequestError carries the attempt count of a failed GetMovie call.
type RequestError struct {
	MovieID  int
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("tmdb: movie %d failed after %d attempt(s): %v", e.MovieID, e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Attempts returns the number of HTTP attempts recorded in err, or 0.
func Attempts(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Attempts
	}
	return 0
}

// retryable reports whether a failed attempt should be retried.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var te *transportError
	return errors.As(err, &te)
}
