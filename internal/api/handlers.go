// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// Recommender is the subset of *recommend.Recommender the handlers use.
type Recommender interface {
	Recommend(title string, topN int) ([]recommend.Recommendation, error)
	RecommendByMovieID(movieID, topN int) ([]recommend.Recommendation, error)
}

// PosterResolver is the subset of *poster.Resolver the handlers use. Both
// methods always return a usable URL.
type PosterResolver interface {
	ResolvePoster(ctx context.Context, movieID int) string
	ResolveAll(ctx context.Context, movieIDs []int) []string
}

// BreakerReporter exposes the TMDB circuit breaker for health checks.
type BreakerReporter interface {
	BreakerState() string
	BreakerCounts() gobreaker.Counts
}

// defaultK is used when Deps.DefaultK is unset.
const defaultK = 10

// Deps are the handler dependencies wired in main.
type Deps struct {
	Catalog     *catalog.Catalog
	Recommender Recommender
	Posters     PosterResolver

	// Breaker is optional.
	Breaker BreakerReporter

	// TMDBConfigured reports whether an API key was supplied.
	TMDBConfigured bool

	// DefaultK is the result count for requests that omit k or send k=0.
	DefaultK int

	Version string
}

// Handler serves the HTML page and the JSON API.
//
// Handler methods are split across files:
//   - handlers_page.go: the HTML page
//   - handlers_movies.go: catalog listing
//   - handlers_recommend.go: recommendations by title or movie_id
//   - handlers_posters.go: single poster lookup
//   - handlers_health.go: liveness, readiness and status
type Handler struct {
	catalog        *catalog.Catalog
	recommender    Recommender
	posters        PosterResolver
	breaker        BreakerReporter
	tmdbConfigured bool
	defaultK       int
	version        string
	startTime      time.Time
	page           *pageRenderer
}

// NewHandler validates deps and parses the page template.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Catalog == nil {
		return nil, errors.New("api: catalog is required")
	}
	if deps.Recommender == nil {
		return nil, errors.New("api: recommender is required")
	}
	if deps.Posters == nil {
		return nil, errors.New("api: poster resolver is required")
	}

	page, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}
	k := deps.DefaultK
	if k <= 0 {
		k = defaultK
	}

	return &Handler{
		catalog:        deps.Catalog,
		recommender:    deps.Recommender,
		posters:        deps.Posters,
		breaker:        deps.Breaker,
		tmdbConfigured: deps.TMDBConfigured,
		defaultK:       k,
		version:        version,
		startTime:      time.Now(),
		page:           page,
	}, nil
}
