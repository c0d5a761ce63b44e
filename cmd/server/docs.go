// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// @title Cinematch API
// @version 1.0
// @description Content-based movie recommendations from a precomputed similarity matrix,
// @description with poster artwork resolved through The Movie Database (TMDB).
// @description
// @description Scores are cosine similarities in [0, 1]. Results exclude the query movie
// @description and are ordered by score, ties broken by catalog order.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Recommendations
// @tag.description Similar-movie lookups by title or TMDB id
// @tag.name Movies
// @tag.description Catalog browsing
// @tag.name Posters
// @tag.description Poster URL resolution
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
