// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/metrics"
)

// unmatchedRoute labels requests that did not match any chi route, so
// arbitrary 404 paths cannot blow up label cardinality.
const unmatchedRoute = "unmatched"

// PrometheusMetrics records request count, duration and the in-flight gauge.
// The endpoint label is the chi route pattern (e.g. /api/v1/posters/{movieID}).
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		metrics.RecordAPIRequest(
			r.Method,
			routePattern(r),
			strconv.Itoa(rec.statusCode),
			time.Since(start),
		)
	})
}

// routePattern must be called after the handler ran, once chi has filled
// the route context.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
