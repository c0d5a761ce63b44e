// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config loads Cinematch configuration with koanf.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: CONFIG_PATH, else config.yaml / config.yml, else
    /etc/cinematch/config.yaml
 3. Environment variables listed in envMappings

Only mapped environment variables are read, so unrelated variables never
leak into the configuration.

# Environment Variables

Catalog:
  - CATALOG_PATH: artifact file or store directory (required)
  - CATALOG_NAME: artifact name inside a store directory (default: catalog)
  - CATALOG_VERSION: artifact version, 0 for latest (default: 0)
  - CATALOG_STRICT_SCORES: reject NaN/Inf scores at load (default: false)

Recommender:
  - RECOMMEND_DEFAULT_K: results when k is omitted (default: 10)
  - RECOMMEND_MAX_K: upper bound for k (default: 50)

TMDB:
  - TMDB_API_KEY: API key sent as api_key
  - TMDB_BASE_URL: API origin (default: https://api.themoviedb.org)
  - TMDB_IMAGE_BASE_URL: poster prefix (default: https://image.tmdb.org/t/p/w500)
  - TMDB_LANGUAGE: language parameter (default: en-US)
  - TMDB_TIMEOUT: per-request timeout (default: 5s)
  - TMDB_MAX_RETRIES: retries after the first attempt (default: 3)
  - TMDB_RETRY_BASE_DELAY, TMDB_MAX_RETRY_DELAY: backoff (default: 1s, 10s)
  - TMDB_RATE_LIMIT, TMDB_RATE_BURST: outbound limiter (default: 40/s, 20)
  - TMDB_BREAKER_FAILURES, TMDB_BREAKER_TIMEOUT, TMDB_BREAKER_HALF_OPEN

Posters:
  - POSTER_WORKERS: concurrent fetches per page (default: 5)
  - POSTER_BATCH_TIMEOUT: deadline for resolving one page of posters (default: 30s)

HTTP server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8501)
  - HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development or production
  - CORS_ORIGINS: comma-separated (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config

import "time"

// Config is the full application configuration.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Poster    PosterConfig    `koanf:"poster"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig locates the similarity artifact loaded at startup.
type CatalogConfig struct {
	// Path is a .gob.gz, .json, .db/.sqlite or .duckdb file, or a store directory.
	Path string `koanf:"path"`

	// Name selects the artifact inside a store directory.
	Name string `koanf:"name"`

	// Version selects a stored version; 0 loads the latest.
	Version int `koanf:"version"`

	// StrictScores rejects NaN and infinite similarity scores.
	StrictScores bool `koanf:"strict_scores"`
}

// RecommendConfig bounds the number of results per request.
type RecommendConfig struct {
	DefaultK int `koanf:"default_k"`
	MaxK     int `koanf:"max_k"`
}

// TMDBConfig configures the metadata API client.
type TMDBConfig struct {
	APIKey       string `koanf:"api_key"`
	BaseURL      string `koanf:"base_url"`
	ImageBaseURL string `koanf:"image_base_url"`
	Language     string `koanf:"language"`
	UserAgent    string `koanf:"user_agent"`

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries counts retries after the first attempt, so a request is
	// sent at most MaxRetries+1 times.
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
	MaxRetryDelay  time.Duration `koanf:"max_retry_delay"`

	// RateLimit is requests per second; 0 disables the limiter.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// Circuit breaker
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	BreakerHalfOpen uint32        `koanf:"breaker_half_open"`
}

// PosterConfig configures poster resolution for result pages.
type PosterConfig struct {
	Workers      int           `koanf:"workers"`
	NoImageURL   string        `koanf:"no_image_url"`
	ErrorURL     string        `koanf:"error_url"`
	BatchTimeout time.Duration `koanf:"batch_timeout"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development or production
}

// SecurityConfig holds CORS and per-client rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	// Level: trace, debug, info, warn, error. Default: info
	Level string `koanf:"level"`

	// Format: json or console. Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller"`
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
