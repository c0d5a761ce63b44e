// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import "fmt"

// Config contains operational limits for the recommender.
type Config struct {
	// DefaultK is the result count front ends request when the user gave
	// none. The recommender itself never substitutes it.
	// Default: 10.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK caps the number of results per request.
	// Default: 50.
	MaxK int `json:"max_k" koanf:"max_k"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultK: 10,
		MaxK:     50,
	}
}

// Validate checks the limits for consistency.
func (c Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	return nil
}

// limitK caps a requested result count at MaxK.
func (c Config) limitK(k int) int {
	if k > c.MaxK {
		return c.MaxK
	}
	return k
}
