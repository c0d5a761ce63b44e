// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package poster turns TMDB movie ids into displayable image URLs.
//
// Resolution never fails: a movie without artwork maps to the no-image
// placeholder and any lookup failure maps to the error placeholder, with
// the reason logged at warn level.
package poster

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/tmdb"
)

// Outcome labels used in metrics.
const (
	OutcomePoster  = "poster"
	OutcomeNoImage = "no_image"
	OutcomeError   = "error"
)

// MovieFetcher is the part of tmdb.Client the resolver needs.
type MovieFetcher interface {
	GetMovie(ctx context.Context, id int) (*tmdb.Movie, error)
}

// Resolver maps movie ids to poster URLs. It is safe for concurrent use.
type Resolver struct {
	fetcher      MovieFetcher
	imageBaseURL string
	noImageURL   string
	errorURL     string
	workers      int
	batchTimeout time.Duration
	logger       zerolog.Logger
}

// NewResolver builds a resolver. imageBaseURL is prepended to poster_path,
// e.g. https://image.tmdb.org/t/p/w500.
func NewResolver(fetcher MovieFetcher, cfg *config.PosterConfig, imageBaseURL string) *Resolver {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	noImage, errURL := cfg.NoImageURL, cfg.ErrorURL
	if noImage == "" {
		noImage = config.DefaultNoImageURL
	}
	if errURL == "" {
		errURL = config.DefaultErrorURL
	}
	return &Resolver{
		fetcher:      fetcher,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		noImageURL:   noImage,
		errorURL:     errURL,
		workers:      workers,
		batchTimeout: cfg.BatchTimeout,
		logger:       logging.WithComponent("poster"),
	}
}

// ResolvePoster returns the poster URL for movieID. It always returns a
// usable URL.
//
// Transient TMDB failures are retried up to TMDBConfig.MaxRetries times only
// while the client's circuit breaker is closed. Once it opens, lookups get
// the error placeholder immediately without contacting TMDB.
func (r *Resolver) ResolvePoster(ctx context.Context, movieID int) string {
	url, outcome, err := r.resolve(ctx, movieID)
	metrics.RecordPosterResolution(outcome)
	if err != nil {
		event := logging.Ctx(ctx).Warn().
			Str("component", "poster").
			Int("movie_id", movieID).
			Int("attempts", tmdb.Attempts(err)).
			Err(err)
		if errors.Is(err, tmdb.ErrCircuitOpen) {
			event = event.Bool("circuit_open", true)
		}
		event.Msg("Poster lookup failed, using error placeholder")
	}
	return url
}

func (r *Resolver) resolve(ctx context.Context, movieID int) (string, string, error) {
	movie, err := r.fetcher.GetMovie(ctx, movieID)
	if err != nil {
		return r.errorURL, OutcomeError, err
	}
	if !movie.HasPoster() {
		return r.noImageURL, OutcomeNoImage, nil
	}
	path := movie.PosterPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.imageBaseURL + path, OutcomePoster, nil
}

// ResolveAll resolves ids with at most the configured number of concurrent
// lookups. out[i] always belongs to ids[i]. The whole batch shares one
// deadline; lookups still pending when it passes get the error placeholder.
func (r *Resolver) ResolveAll(ctx context.Context, ids []int) []string {
	out := make([]string, len(ids))
	if len(ids) == 0 {
		return out
	}

	if r.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.batchTimeout)
		defer cancel()
	}

	start := time.Now()
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		sem <- struct{}{} // Acquire semaphore
		go func(i, id int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore
			out[i] = r.ResolvePoster(ctx, id)
		}(i, id)
	}
	wg.Wait()

	r.logger.Debug().
		Int("count", len(ids)).
		Int("workers", r.workers).
		Dur("duration", time.Since(start)).
		Msg("Resolved poster batch")
	return out
}
