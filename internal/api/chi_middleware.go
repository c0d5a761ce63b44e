// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
)

// ChiMiddlewareConfig holds configuration for the chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc
}

// DefaultChiMiddlewareConfig returns the defaults. CORS origins are empty,
// so cross-origin requests are refused until configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		CORSAllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// NewChiMiddlewareConfig builds the middleware config from the security section.
func NewChiMiddlewareConfig(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	if sec == nil {
		return cfg
	}
	cfg.CORSAllowedOrigins = append([]string(nil), sec.CORSOrigins...)
	if sec.RateLimitReqs > 0 {
		cfg.RateLimitRequests = sec.RateLimitReqs
	}
	if sec.RateLimitWindow > 0 {
		cfg.RateLimitWindow = sec.RateLimitWindow
	}
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware provides chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the factory. A nil config uses the defaults.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		ExposedHeaders:   cfg.CORSExposedHeaders,
		AllowCredentials: false,
		MaxAge:           cfg.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: cfg,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimitConfig defines rate limit parameters for a route group.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

var (
	// RateLimitHealth is permissive so monitoring can poll freely.
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}

	// RateLimitPosters is tighter: every request may cost several TMDB calls.
	RateLimitPosters = RateLimitConfig{Requests: 60, Window: time.Minute}
)

// RateLimit returns the default per-IP limiter.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitConfig{
		Requests: m.config.RateLimitRequests,
		Window:   m.config.RateLimitWindow,
	})
}

// RateLimitHealth returns the limiter for the health endpoints.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitHealth)
}

// RateLimitPosters returns the limiter for endpoints that call TMDB.
func (m *ChiMiddleware) RateLimitPosters() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitPosters)
}

// RateLimitCustom returns a go-chi/httprate limiter keyed by client IP,
// or a no-op when rate limiting is disabled. Rejections use the API
// error envelope.
func (m *ChiMiddleware) RateLimitCustom(rl RateLimitConfig) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	return httprate.Limit(
		rl.Requests,
		rl.Window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	logging.Ctx(r.Context()).Warn().
		Str("path", r.URL.Path).
		Str("remote_addr", r.RemoteAddr).
		Msg("Rate limit exceeded")
	NewResponseWriter(w, r).TooManyRequests("Rate limit exceeded, retry later")
}

// APISecurityHeaders adds the headers every JSON endpoint carries.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			setCommonSecurityHeaders(w, r)
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

type cspNonceKey struct{}

// PageSecurityHeaders adds a Content-Security-Policy with a per-request
// nonce for the inline stylesheet of the HTML page. Posters may come from
// any https origin.
func PageSecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce, err := generateNonce()
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to generate CSP nonce")
				WriteError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
				return
			}

			setCommonSecurityHeaders(w, r)
			w.Header().Set("Content-Security-Policy",
				"default-src 'self'; img-src 'self' https: data:; style-src 'nonce-"+nonce+"'; "+
					"form-action 'self'; frame-ancestors 'none'; base-uri 'none'")

			ctx := context.WithValue(r.Context(), cspNonceKey{}, nonce)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// cspNonce returns the nonce set by PageSecurityHeaders, or "".
func cspNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(cspNonceKey{}).(string)
	return nonce
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func setCommonSecurityHeaders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}
