// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api is the presentation layer: a server-rendered HTML page and a
small JSON API, routed with chi.

Routes:

	GET /                                       selection page; ?title=X renders results
	GET /api/v1/movies                          catalog listing (q, limit, offset)
	GET /api/v1/recommendations                 by title (title, k, posters)
	GET /api/v1/recommendations/movie/{movieID} by TMDB id (k, posters)
	GET /api/v1/posters/{movieID}               poster URL of a catalog movie
	GET /api/v1/health[/live|/ready]            status and probes
	GET /metrics                                Prometheus
	GET /swagger/*                              API documentation

JSON endpoints answer with the APIResponse envelope:

	{"success":true,"data":{...},"meta":{"request_id":"...","timestamp":"...","duration_ms":0}}
	{"success":false,"error":{"code":"TITLE_NOT_FOUND","message":"..."},"meta":{...}}

Usage:

	handler, err := api.NewHandler(api.Deps{
	    Catalog:     cat,
	    Recommender: rec,
	    Posters:     resolver,
	    Breaker:     tmdbClient,
	})
	if err != nil {
	    return err
	}
	mw := api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Address(), Handler: api.NewRouter(handler, mw).Setup()}

The page issues one recommendation lookup (k=10) per submit. Posters for
the results are resolved concurrently, but the grid keeps recommender
order. Poster failures never surface as errors; they render as
placeholder images.
*/
package api
