// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Artifact format names reported in Source.Format.
const (
	FormatGob    = "gob"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
	FormatDuckDB = "duckdb"
)

// DefaultName is the artifact name used when a store directory is loaded
// without an explicit name.
const DefaultName = "catalog"

// LoadOptions selects an artifact inside a store directory and controls
// validation. Name and Version are ignored for single-file artifacts.
type LoadOptions struct {
	// Name defaults to DefaultName.
	Name string

	// Version 0 loads the latest.
	Version int

	// StrictScores rejects NaN and infinite scores.
	StrictScores bool
}

// DetectFormat maps a file name to an artifact format.
func DetectFormat(path string) (string, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, artifactExt):
		return FormatGob, nil
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".sqlite3"):
		return FormatSQLite, nil
	case strings.HasSuffix(lower, ".duckdb"):
		return FormatDuckDB, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ReadBundle reads the raw bundle at path without building indexes.
// A directory is opened as a Store.
func ReadBundle(ctx context.Context, path string, opts LoadOptions) (Bundle, Source, error) {
	src := Source{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return Bundle{}, src, fmt.Errorf("stat catalog artifact: %w", err)
	}

	if info.IsDir() {
		name := opts.Name
		if name == "" {
			name = DefaultName
		}
		store, err := OpenStore(path)
		if err != nil {
			return Bundle{}, src, err
		}
		b, meta, err := store.Load(ctx, name, opts.Version)
		if err != nil {
			return Bundle{}, src, err
		}
		src.Path = store.artifactPath(name, meta.Version)
		src.Format = FormatGob
		src.Version = meta.Version
		src.Checksum = meta.Checksum
		return b, src, nil
	}

	format, err := DetectFormat(path)
	if err != nil {
		return Bundle{}, src, err
	}
	src.Format = format

	var b Bundle
	switch format {
	case FormatGob:
		var meta ArtifactMetadata
		b, meta, err = readArtifactFile(path)
		src.Version = meta.Version
		src.Checksum = meta.Checksum
	case FormatJSON:
		b, err = readJSONFile(path)
	case FormatSQLite:
		b, err = readSQLiteFile(ctx, path)
	case FormatDuckDB:
		b, err = readDuckDBFile(ctx, path)
	}
	return b, src, err
}

// Load reads the artifact at path and returns a validated Catalog.
// Empty catalogs and shape violations are errors.
func Load(ctx context.Context, path string, opts LoadOptions) (*Catalog, error) {
	start := time.Now()

	b, src, err := ReadBundle(ctx, path, opts)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	if len(b.Movies) == 0 {
		return nil, fmt.Errorf("load catalog %s: %w", path, ErrEmptyCatalog)
	}

	var newOpts []Option
	if opts.StrictScores {
		newOpts = append(newOpts, WithStrictScores())
	}
	c, err := New(b, newOpts...)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	src.LoadedAt = time.Now().UTC()
	c.withSource(src)

	elapsed := time.Since(start)
	metrics.RecordCatalogLoad(c.Len(), c.duplicates, elapsed)
	logging.Info().
		Str("path", src.Path).
		Str("format", src.Format).
		Int("movies", c.Len()).
		Int("duplicate_titles", c.duplicates).
		Dur("duration", elapsed).
		Msg("Catalog loaded")

	return c, nil
}
