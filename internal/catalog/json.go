// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// DecodeJSON reads a {"movies": [...], "similarity": [[...]]} bundle.
// Unknown fields are ignored.
func DecodeJSON(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("decode catalog json: %w", err)
	}
	return b, nil
}

// EncodeJSON writes b in the format DecodeJSON reads.
func EncodeJSON(w io.Writer, b Bundle) error {
	if err := json.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("encode catalog json: %w", err)
	}
	return nil
}

func readJSONFile(path string) (Bundle, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return Bundle{}, fmt.Errorf("open catalog json: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file
	return DecodeJSON(f)
}
