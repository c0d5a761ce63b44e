// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Poster placeholder defaults.
const (
	DefaultNoImageURL = "https://via.placeholder.com/500x750?text=No+Image"
	DefaultErrorURL   = "https://via.placeholder.com/500x750?text=Error"
)

func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:    "",
			Name:    "catalog",
			Version: 0,
		},
		Recommend: RecommendConfig{
			DefaultK: 10,
			MaxK:     50,
		},
		TMDB: TMDBConfig{
			APIKey:          "",
			BaseURL:         "https://api.themoviedb.org",
			ImageBaseURL:    "https://image.tmdb.org/t/p/w500",
			Language:        "en-US",
			UserAgent:       "cinematch/1.0",
			Timeout:         5 * time.Second,
			MaxRetries:      3,
			RetryBaseDelay:  1 * time.Second,
			MaxRetryDelay:   10 * time.Second,
			RateLimit:       40,
			RateBurst:       20,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			BreakerHalfOpen: 1,
		},
		Poster: PosterConfig{
			Workers:      5,
			NoImageURL:   DefaultNoImageURL,
			ErrorURL:     DefaultErrorURL,
			BatchTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers defaults, the optional config file and environment
// variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	"catalog_path":          "catalog.path",
	"catalog_name":          "catalog.name",
	"catalog_version":       "catalog.version",
	"catalog_strict_scores": "catalog.strict_scores",

	"recommend_default_k": "recommend.default_k",
	"recommend_max_k":     "recommend.max_k",

	"tmdb_api_key":           "tmdb.api_key",
	"tmdb_base_url":          "tmdb.base_url",
	"tmdb_image_base_url":    "tmdb.image_base_url",
	"tmdb_language":          "tmdb.language",
	"tmdb_user_agent":        "tmdb.user_agent",
	"tmdb_timeout":           "tmdb.timeout",
	"tmdb_max_retries":       "tmdb.max_retries",
	"tmdb_retry_base_delay":  "tmdb.retry_base_delay",
	"tmdb_max_retry_delay":   "tmdb.max_retry_delay",
	"tmdb_rate_limit":        "tmdb.rate_limit",
	"tmdb_rate_burst":        "tmdb.rate_burst",
	"tmdb_breaker_failures":  "tmdb.breaker_failures",
	"tmdb_breaker_timeout":   "tmdb.breaker_timeout",
	"tmdb_breaker_half_open": "tmdb.breaker_half_open",

	"poster_workers":       "poster.workers",
	"poster_no_image_url":  "poster.no_image_url",
	"poster_error_url":     "poster.error_url",
	"poster_batch_timeout": "poster.batch_timeout",

	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps a variable like TMDB_API_KEY to tmdb.api_key.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
