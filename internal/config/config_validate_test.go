// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Catalog.Path = "/data/catalog"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with path", func(*Config) {}, ""},
		{"missing catalog path", func(c *Config) { c.Catalog.Path = " " }, "CATALOG_PATH"},
		{"negative catalog version", func(c *Config) { c.Catalog.Version = -1 }, "CATALOG_VERSION"},
		{"default k zero", func(c *Config) { c.Recommend.DefaultK = 0 }, "RECOMMEND_DEFAULT_K"},
		{"max k below default", func(c *Config) { c.Recommend.MaxK = 5 }, "RECOMMEND_MAX_K"},
		{"ftp base url", func(c *Config) { c.TMDB.BaseURL = "ftp://api.themoviedb.org" }, "TMDB_BASE_URL"},
		{"base url with path", func(c *Config) { c.TMDB.BaseURL = "https://api.themoviedb.org/3" }, "TMDB_BASE_URL"},
		{"image url without host", func(c *Config) { c.TMDB.ImageBaseURL = "https:///t/p/w500" }, "TMDB_IMAGE_BASE_URL"},
		{"placeholder api key", func(c *Config) { c.TMDB.APIKey = "YOUR_API_KEY" }, "TMDB_API_KEY"},
		{"zero timeout", func(c *Config) { c.TMDB.Timeout = 0 }, "TMDB_TIMEOUT"},
		{"too many retries", func(c *Config) { c.TMDB.MaxRetries = 11 }, "TMDB_MAX_RETRIES"},
		{"negative retries", func(c *Config) { c.TMDB.MaxRetries = -1 }, "TMDB_MAX_RETRIES"},
		{"zero retries ok", func(c *Config) { c.TMDB.MaxRetries = 0 }, ""},
		{"max delay below base", func(c *Config) { c.TMDB.MaxRetryDelay = 100 * time.Millisecond }, "TMDB_MAX_RETRY_DELAY"},
		{"burst zero with limit", func(c *Config) { c.TMDB.RateBurst = 0 }, "TMDB_RATE_BURST"},
		{"limiter disabled", func(c *Config) { c.TMDB.RateLimit = 0; c.TMDB.RateBurst = 0 }, ""},
		{"breaker failures zero", func(c *Config) { c.TMDB.BreakerFailures = 0 }, "TMDB_BREAKER_FAILURES"},
		{"workers zero", func(c *Config) { c.Poster.Workers = 0 }, "POSTER_WORKERS"},
		{"workers too many", func(c *Config) { c.Poster.Workers = 33 }, "POSTER_WORKERS"},
		{"bad placeholder url", func(c *Config) { c.Poster.ErrorURL = "not a url" }, "POSTER_ERROR_URL"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"bad cors origin", func(c *Config) { c.Security.CORSOrigins = []string{"example.org"} }, "CORS_ORIGINS"},
		{"rate limit window too small", func(c *Config) { c.Security.RateLimitWindow = time.Millisecond }, "RATE_LIMIT_WINDOW"},
		{"rate limit ignored when disabled", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("development wildcard should not warn")
	}
	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("production wildcard should warn")
	}
	cfg.Security.CORSOrigins = []string{"https://movies.example.org"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}
