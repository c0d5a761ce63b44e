// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// SQLite bundle layout:
//
//	CREATE TABLE movies (position INTEGER PRIMARY KEY, title TEXT NOT NULL, movie_id INTEGER NOT NULL);
//	CREATE TABLE similarity (row_idx INTEGER NOT NULL, col_idx INTEGER NOT NULL, score REAL NOT NULL);
//
// Positions must run 0..N-1 and every (row, col) cell must be present.
const (
	bundleMoviesQuery     = `SELECT position, title, movie_id FROM movies ORDER BY position`
	bundleSimilarityQuery = `SELECT row_idx, col_idx, score FROM similarity`
)

// readSQLiteFile opens path read-only and reads the bundle tables.
func readSQLiteFile(ctx context.Context, path string) (Bundle, error) {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return Bundle{}, fmt.Errorf("open catalog sqlite: %w", err)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // read-only handle

	return ReadSQL(ctx, db)
}

// ReadSQL reads a bundle from an open database holding the bundle tables.
// The queries are plain SQL shared by the SQLite and DuckDB readers.
func ReadSQL(ctx context.Context, db *sql.DB) (Bundle, error) {
	movies, err := readSQLMovies(ctx, db)
	if err != nil {
		return Bundle{}, err
	}

	n := len(movies)
	matrix := make([][]float64, n)
	cells := make([]float64, n*n)
	for i := range matrix {
		matrix[i] = cells[i*n : (i+1)*n : (i+1)*n]
	}
	seen := make([]bool, n*n)
	filled := 0

	rows, err := db.QueryContext(ctx, bundleSimilarityQuery)
	if err != nil {
		return Bundle{}, fmt.Errorf("query similarity: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // checked via rows.Err

	for rows.Next() {
		var r, c int
		var score float64
		if err := rows.Scan(&r, &c, &score); err != nil {
			return Bundle{}, fmt.Errorf("scan similarity: %w", err)
		}
		if r < 0 || r >= n || c < 0 || c >= n {
			return Bundle{}, fmt.Errorf("%w: cell (%d,%d) outside %dx%d", ErrInvalidShape, r, c, n, n)
		}
		if !seen[r*n+c] {
			seen[r*n+c] = true
			filled++
		}
		matrix[r][c] = score
	}
	if err := rows.Err(); err != nil {
		return Bundle{}, fmt.Errorf("iterate similarity: %w", err)
	}
	if filled != n*n {
		return Bundle{}, fmt.Errorf("%w: %d of %d similarity cells present", ErrInvalidShape, filled, n*n)
	}

	return Bundle{Movies: movies, Similarity: matrix}, nil
}

func readSQLMovies(ctx context.Context, db *sql.DB) ([]Movie, error) {
	rows, err := db.QueryContext(ctx, bundleMoviesQuery)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // checked via rows.Err

	var movies []Movie
	for rows.Next() {
		var pos int
		var m Movie
		if err := rows.Scan(&pos, &m.Title, &m.MovieID); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		if pos != len(movies) {
			return nil, fmt.Errorf("%w: movie position %d, want %d", ErrInvalidShape, pos, len(movies))
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}
