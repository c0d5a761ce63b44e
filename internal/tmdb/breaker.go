// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdb

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// newBreaker builds the breaker guarding GetMovie.
//
// It trips after cfg.BreakerFailures consecutive failures, stays open for
// cfg.BreakerTimeout and then admits cfg.BreakerHalfOpen probes. Client
// errors (4xx) and caller cancellation are not failures.
//
// The breaker runs on wall-clock time. Tests that need it open drive it
// with real failures and a short timeout.
func newBreaker(name string, cfg *config.TMDBConfig) *gobreaker.CircuitBreaker[*Movie] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	threshold := cfg.BreakerFailures
	return gobreaker.NewCircuitBreaker[*Movie](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerHalfOpen,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) && se.ClientError() {
				return true
			}
			return errors.Is(err, context.Canceled)
		},
	})
}

func (c *Client) recordBreakerResult(err error) {
	var se *StatusError
	switch {
	case err == nil, errors.As(err, &se) && se.ClientError():
		metrics.CircuitBreakerRequests.WithLabelValues(c.breakerName, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(c.breakerName, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(c.breakerName, "failure").Inc()
	}
}

// BreakerName returns the breaker's metric label.
func (c *Client) BreakerName() string {
	return c.breakerName
}

// BreakerState returns "closed", "half-open" or "open".
func (c *Client) BreakerState() string {
	return stateToString(c.breaker.State())
}

// BreakerCounts returns the breaker's current counters.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
