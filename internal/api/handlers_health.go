// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/catalog"
)

// HealthStatus is the payload of /api/v1/health.
type HealthStatus struct {
	// Status is healthy, or degraded while the TMDB breaker is not closed.
	Status        string        `json:"status"`
	Version       string        `json:"version"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Catalog       catalog.Stats `json:"catalog"`
	TMDB          TMDBHealth    `json:"tmdb"`
}

// TMDBHealth describes the metadata client.
type TMDBHealth struct {
	APIKeyConfigured bool           `json:"api_key_configured"`
	BreakerState     string         `json:"breaker_state,omitempty"`
	Breaker          *BreakerCounts `json:"breaker,omitempty"`
}

// BreakerCounts are the circuit breaker counters for the current generation.
type BreakerCounts struct {
	Requests             uint32 `json:"requests"`
	TotalSuccesses       uint32 `json:"total_successes"`
	TotalFailures        uint32 `json:"total_failures"`
	ConsecutiveSuccesses uint32 `json:"consecutive_successes"`
	ConsecutiveFailures  uint32 `json:"consecutive_failures"`
}

// Health handles GET /api/v1/health
//
// @Summary Service status
// @Description Catalog statistics and TMDB circuit breaker state. Poster failures degrade the service but never fail it.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "healthy",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Catalog:       h.catalog.Stats(),
		TMDB:          TMDBHealth{APIKeyConfigured: h.tmdbConfigured},
	}
	if h.breaker != nil {
		status.TMDB.BreakerState = h.breaker.BreakerState()
		c := h.breaker.BreakerCounts()
		status.TMDB.Breaker = &BreakerCounts{
			Requests:             c.Requests,
			TotalSuccesses:       c.TotalSuccesses,
			TotalFailures:        c.TotalFailures,
			ConsecutiveSuccesses: c.ConsecutiveSuccesses,
			ConsecutiveFailures:  c.ConsecutiveFailures,
		}
		if status.TMDB.BreakerState != "closed" {
			status.Status = "degraded"
		}
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive handles GET /api/v1/health/live
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready
//
// The catalog is loaded before the server starts, so readiness only fails
// for an empty catalog.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse "Catalog not loaded"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.catalog.Len() == 0 {
		rw.ServiceUnavailable("Catalog not loaded")
		return
	}
	rw.Success(map[string]interface{}{
		"ready":  true,
		"movies": h.catalog.Len(),
	})
}
