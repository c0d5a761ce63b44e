// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Collectors are package-level promauto variables; call sites use the
// Record* helpers so label sets stay consistent.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog Metrics
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	CatalogDuplicateTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_duplicate_titles",
			Help: "Number of catalog rows whose title already appeared earlier",
		},
	)

	CatalogLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_load_duration_seconds",
			Help: "Time taken to load the catalog artifact at startup",
		},
	)

	// Recommender Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation lookups",
		},
		[]string{"lookup", "outcome"}, // lookup: title|movie_id, outcome: found|not_found
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of in-memory recommendation lookups",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of recommendations returned per lookup",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
	)

	// TMDB Metrics
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of HTTP requests sent to the TMDB API",
		},
		[]string{"status"}, // 2xx, 4xx, 5xx, error
	)

	TMDBRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Duration of individual TMDB HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	TMDBRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tmdb_retries_total",
			Help: "Total number of TMDB request retries after transient failures",
		},
	)

	// Poster Resolver Metrics
	PosterResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_resolutions_total",
			Help: "Total number of poster lookups by outcome",
		},
		[]string{"outcome"}, // poster, no_image, error
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordCatalogLoad publishes catalog size figures after startup.
func RecordCatalogLoad(movies, duplicates int, duration time.Duration) {
	CatalogMovies.Set(float64(movies))
	CatalogDuplicateTitles.Set(float64(duplicates))
	CatalogLoadDuration.Set(duration.Seconds())
}

// RecordRecommendation records one recommender lookup.
func RecordRecommendation(lookup string, found bool, results int, duration time.Duration) {
	outcome := "found"
	if !found {
		outcome = "not_found"
	}
	RecommendRequests.WithLabelValues(lookup, outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
	RecommendResults.Observe(float64(results))
}

// RecordTMDBRequest records one HTTP round-trip. statusCode 0 means the
// request failed before a response arrived.
func RecordTMDBRequest(statusCode int, duration time.Duration) {
	TMDBRequests.WithLabelValues(statusClass(statusCode)).Inc()
	TMDBRequestDuration.Observe(duration.Seconds())
}

// RecordTMDBRetry counts a retry attempt.
func RecordTMDBRetry() {
	TMDBRetries.Inc()
}

// RecordPosterResolution counts a resolver outcome.
func RecordPosterResolution(outcome string) {
	PosterResolutions.WithLabelValues(outcome).Inc()
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func statusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}
