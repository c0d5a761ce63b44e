// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/cinematch/internal/metrics"
)

func TestPrometheusMetrics_RoutePatternLabel(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/test-metrics/{movieID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/test-metrics/{movieID}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test-metrics/"+id, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d, want 418", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("api_requests_total delta = %v, want 3", got)
	}
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	t.Parallel()

	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodPost, unmatchedRoute, "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/no/router", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("unmatched delta = %v, want 1", got)
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sr := newStatusRecorder(rec)
	sr.WriteHeader(http.StatusAccepted)
	sr.WriteHeader(http.StatusInternalServerError)
	n, _ := sr.Write([]byte("hello"))

	if sr.statusCode != http.StatusAccepted || rec.Code != http.StatusAccepted {
		t.Errorf("status = %d/%d, want first WriteHeader to win", sr.statusCode, rec.Code)
	}
	if n != 5 || sr.bytes != 5 {
		t.Errorf("bytes = %d, want 5", sr.bytes)
	}
	if sr.Unwrap() != rec {
		t.Error("Unwrap did not return the underlying writer")
	}
}
