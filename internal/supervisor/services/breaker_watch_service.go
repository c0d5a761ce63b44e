// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
)

// BreakerStater reports a circuit breaker's state as "closed",
// "half-open" or "open". Satisfied by *tmdb.Client.
type BreakerStater interface {
	BreakerState() string
}

// BreakerWatchService polls a circuit breaker on a fixed interval.
//
// gobreaker only moves from open to half-open when its state is read, so
// without traffic the state gauge would report "open" indefinitely.
// Polling drives that transition and logs while the breaker stays open.
type BreakerWatchService struct {
	name     string
	breaker  BreakerStater
	interval time.Duration

	mu       sync.Mutex
	lastSeen string
}

// NewBreakerWatchService watches breaker, labelled name in logs.
// interval defaults to 15s.
func NewBreakerWatchService(name string, breaker BreakerStater, interval time.Duration) *BreakerWatchService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &BreakerWatchService{
		name:     name,
		breaker:  breaker,
		interval: interval,
	}
}

// Serve implements suture.Service.
func (s *BreakerWatchService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check()
		}
	}
}

// LastState returns the state observed by the latest poll.
func (s *BreakerWatchService) LastState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *BreakerWatchService) check() {
	state := s.breaker.BreakerState()

	s.mu.Lock()
	defer s.mu.Unlock()
	if state == "open" {
		logging.Warn().Str("breaker", s.name).Msg("TMDB circuit breaker open, posters fall back to placeholders")
	} else if s.lastSeen == "open" {
		logging.Info().Str("breaker", s.name).Str("state", state).Msg("TMDB circuit breaker recovering")
	}
	s.lastSeen = state
}

// String implements fmt.Stringer.
func (s *BreakerWatchService) String() string {
	return "breaker-watch:" + s.name
}
