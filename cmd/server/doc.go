// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Command server runs the Cinematch web application.
//
// Startup order:
//
//  1. Configuration: defaults, config.yaml and environment (Koanf v2)
//  2. Catalog: load the similarity artifact; the process exits if it is
//     missing, malformed or empty
//  3. Recommender and TMDB poster resolver
//  4. HTTP router (Chi) with the page, JSON API, /metrics and Swagger UI
//  5. Supervisor tree (suture v4) running the HTTP server and the TMDB
//     breaker watch
//
// # Configuration
//
//	export CATALOG_PATH=/data/catalog          # store dir, .gob.gz, .json or .db
//	export TMDB_API_KEY=your-tmdb-v3-key       # posters fall back to placeholders without it
//	export HTTP_PORT=8501
//	./cinematch
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server stops
// accepting connections and drains in-flight requests for up to
// HTTP_SHUTDOWN_TIMEOUT.
package main
