// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validatePoster(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Catalog.Version < 0 {
		return fmt.Errorf("CATALOG_VERSION must be >= 0, got %d", c.Catalog.Version)
	}
	return nil
}

// Result count bounds
const (
	minK = 1
	maxK = 500
)

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK < minK || c.Recommend.DefaultK > maxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between %d and %d", minK, maxK)
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK || c.Recommend.MaxK > maxK {
		return fmt.Errorf("RECOMMEND_MAX_K must be between RECOMMEND_DEFAULT_K (%d) and %d", c.Recommend.DefaultK, maxK)
	}
	return nil
}

// TMDB bounds
const (
	maxRetries       = 10
	maxTMDBTimeout   = 2 * time.Minute
	minBreakerWindow = time.Second
)

func (c *Config) validateTMDB() error {
	t := &c.TMDB
	if err := validateHTTPURL(t.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateResourceURL(t.ImageBaseURL, "TMDB_IMAGE_BASE_URL"); err != nil {
		return err
	}
	if t.APIKey != "" && containsPlaceholder(t.APIKey) {
		return fmt.Errorf("TMDB_API_KEY looks like a placeholder value; set a real key or leave it empty")
	}
	if t.Language == "" {
		return fmt.Errorf("TMDB_LANGUAGE must not be empty")
	}
	if t.Timeout <= 0 || t.Timeout > maxTMDBTimeout {
		return fmt.Errorf("TMDB_TIMEOUT must be positive and at most %v, got %v", maxTMDBTimeout, t.Timeout)
	}
	if t.MaxRetries < 0 || t.MaxRetries > maxRetries {
		return fmt.Errorf("TMDB_MAX_RETRIES must be between 0 and %d, got %d", maxRetries, t.MaxRetries)
	}
	if t.RetryBaseDelay < 0 {
		return fmt.Errorf("TMDB_RETRY_BASE_DELAY must not be negative")
	}
	if t.MaxRetryDelay < t.RetryBaseDelay {
		return fmt.Errorf("TMDB_MAX_RETRY_DELAY (%v) must be >= TMDB_RETRY_BASE_DELAY (%v)", t.MaxRetryDelay, t.RetryBaseDelay)
	}
	if t.RateLimit < 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must not be negative")
	}
	if t.RateLimit > 0 && t.RateBurst < 1 {
		return fmt.Errorf("TMDB_RATE_BURST must be >= 1 when TMDB_RATE_LIMIT is set")
	}
	if t.BreakerFailures < 1 {
		return fmt.Errorf("TMDB_BREAKER_FAILURES must be >= 1")
	}
	if t.BreakerTimeout < minBreakerWindow {
		return fmt.Errorf("TMDB_BREAKER_TIMEOUT must be >= %v", minBreakerWindow)
	}
	if t.BreakerHalfOpen < 1 {
		return fmt.Errorf("TMDB_BREAKER_HALF_OPEN must be >= 1")
	}
	return nil
}

// Poster worker bounds
const (
	minPosterWorkers = 1
	maxPosterWorkers = 32
)

func (c *Config) validatePoster() error {
	p := &c.Poster
	if p.Workers < minPosterWorkers || p.Workers > maxPosterWorkers {
		return fmt.Errorf("POSTER_WORKERS must be between %d and %d, got %d", minPosterWorkers, maxPosterWorkers, p.Workers)
	}
	if err := validateResourceURL(p.NoImageURL, "POSTER_NO_IMAGE_URL"); err != nil {
		return err
	}
	if err := validateResourceURL(p.ErrorURL, "POSTER_ERROR_URL"); err != nil {
		return err
	}
	if p.BatchTimeout <= 0 {
		return fmt.Errorf("POSTER_BATCH_TIMEOUT must be positive")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard origin in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns catch copy-pasted sample values.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"YOUR_KEY",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
