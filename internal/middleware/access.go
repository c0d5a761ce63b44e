// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
)

// AccessLog writes one debug line per request. Requests slower than
// slowThreshold are logged at warn instead; a zero threshold disables the
// promotion. Must run after RequestID so the IDs are in the context.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())
			event := logger.Debug()
			msg := "HTTP request"
			if slowThreshold > 0 && duration > slowThreshold {
				event = logger.Warn().Dur("threshold", slowThreshold)
				msg = "Slow request detected"
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Int("bytes", rec.bytes).
				Int64("duration_ms", duration.Milliseconds()).
				Msg(msg)
		})
	}
}
