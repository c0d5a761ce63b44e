// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
)

// DuckDB bundles use the SQLite table layout with DOUBLE scores:
//
//	CREATE TABLE movies (position INTEGER PRIMARY KEY, title VARCHAR NOT NULL, movie_id INTEGER NOT NULL);
//	CREATE TABLE similarity (row_idx INTEGER NOT NULL, col_idx INTEGER NOT NULL, score DOUBLE NOT NULL);
//
// Extension auto-install is disabled so loading never reaches the network.
const duckDBOptions = "?access_mode=read_only&autoinstall_known_extensions=false&autoload_known_extensions=false"

// readDuckDBFile opens path read-only and reads the bundle tables.
func readDuckDBFile(ctx context.Context, path string) (Bundle, error) {
	db, err := sql.Open("duckdb", path+duckDBOptions)
	if err != nil {
		return Bundle{}, fmt.Errorf("open catalog duckdb: %w", err)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // read-only handle

	return ReadSQL(ctx, db)
}
