// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL checks an http(s) origin: scheme, host, and no path or
// query beyond a trailing slash.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := parseHTTPURL(rawURL, fieldName)
	if err != nil {
		return err
	}

	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}

// validateResourceURL checks an absolute http(s) URL that may carry a path
// and query, such as an image prefix or placeholder.
func validateResourceURL(rawURL, fieldName string) error {
	_, err := parseHTTPURL(rawURL, fieldName)
	return err
}

func parseHTTPURL(rawURL, fieldName string) (*url.URL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%s is required", fieldName)
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("%s host is required", fieldName)
	}
	return parsedURL, nil
}
