// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/config"
)

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	expectError(t, env.serve(t, http.MethodGet, "/api/v1/nope"), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, env.serve(t, http.MethodPost, "/api/v1/recommendations?title=Movie+A"), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	api := env.serve(t, http.MethodGet, "/api/v1/movies")
	if api.Header().Get("X-Content-Type-Options") != "nosniff" || api.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("API headers = %v", api.Header())
	}
	if api.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID missing")
	}

	page := env.serve(t, http.MethodGet, "/")
	csp := page.Header().Get("Content-Security-Policy")
	_, rest, ok := strings.Cut(csp, "'nonce-")
	if !ok {
		t.Fatalf("CSP without nonce: %q", csp)
	}
	nonce, _, _ := strings.Cut(rest, "'")
	if !strings.Contains(page.Body.String(), `<style nonce="`+nonce+`">`) {
		t.Error("stylesheet nonce does not match CSP header")
	}
	if second := env.serve(t, http.MethodGet, "/").Header().Get("Content-Security-Policy"); second == csp {
		t.Error("nonce reused across requests")
	}
}

func TestRouter_MetricsAndSwagger(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	env.serve(t, http.MethodGet, "/api/v1/recommendations?title=Movie+A")
	rec := env.serve(t, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `api_requests_total{endpoint="/api/v1/recommendations"`) {
		t.Error("metrics do not carry the route pattern label")
	}

	if rec := env.serve(t, http.MethodGet, "/swagger/index.html"); rec.Code != http.StatusOK {
		t.Errorf("/swagger/index.html status = %d", rec.Code)
	}
}

func TestRouter_Gzip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, gridBundle(200), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies?limit=200", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	NewRouter(env.handler, nil).Setup().ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	var resp APIResponse
	if err := json.Unmarshal(raw, &resp); err != nil || !resp.Success {
		t.Errorf("decompressed body invalid: %v", err)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	mw := NewChiMiddleware(NewChiMiddlewareConfig(&config.SecurityConfig{
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
	}))
	handler := NewRouter(env.handler, mw).Setup()

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil))
		if i < 2 && last.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, last.Code)
		}
	}
	expectError(t, last, http.StatusTooManyRequests, ErrCodeTooManyRequests)

	// Health has its own, larger budget.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d after API limit hit", rec.Code)
	}
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	mw := NewChiMiddleware(NewChiMiddlewareConfig(&config.SecurityConfig{
		CORSOrigins:       []string{"https://app.example.com"},
		RateLimitDisabled: true,
	}))
	handler := NewRouter(env.handler, mw).Setup()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://app.example.com", "https://app.example.com"},
		{"https://evil.example.com", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/movies", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestNewChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	if cfg := NewChiMiddlewareConfig(nil); cfg.RateLimitRequests != 100 || len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("nil security config = %+v", cfg)
	}

	cfg := NewChiMiddlewareConfig(&config.SecurityConfig{
		CORSOrigins:       []string{"*"},
		RateLimitReqs:     7,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
	})
	if cfg.RateLimitRequests != 7 || cfg.RateLimitWindow != time.Second || !cfg.RateLimitDisabled || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("config = %+v", cfg)
	}
}
