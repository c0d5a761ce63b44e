// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides the HTTP middleware used by the API router.

Every middleware has the chi signature func(http.Handler) http.Handler so it
can be passed straight to r.Use():

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the
    logging context together with a fresh correlation ID
  - AccessLog: one debug line per request, promoted to warn for slow requests
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    with the chi route pattern rather than the raw path
  - Compression: gzip for clients that send Accept-Encoding: gzip

See Also:

  - internal/metrics: collector definitions
  - internal/logging: request and correlation ID helpers
*/
package middleware
