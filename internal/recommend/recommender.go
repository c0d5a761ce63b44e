// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend finds the movies most similar to a query movie by
// ranking one row of the catalog's precomputed similarity matrix.
//
// # Ranking
//
// Candidates are every other row of the catalog. They are ordered by score,
// highest first, with ties broken by catalog position. NaN scores sort after
// every real score. The query row is always excluded, even when other rows
// outscore it.
//
// # Usage
//
//	r, err := recommend.New(cat, recommend.DefaultConfig())
//	recs, err := r.Recommend("Avatar", 10)
//	if errors.Is(err, recommend.ErrTitleNotFound) {
//	    // recs is empty, not nil
//	}
//
// # Thread Safety
//
// A Recommender only reads the catalog and is safe for concurrent use.
package recommend

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

var (
	// ErrTitleNotFound is returned when no catalog movie has the title.
	ErrTitleNotFound = errors.New("title not found in catalog")

	// ErrMovieNotFound is returned when no catalog movie has the movie id.
	ErrMovieNotFound = errors.New("movie id not found in catalog")
)

// Lookup labels used in metrics.
const (
	lookupTitle   = "title"
	lookupMovieID = "movie_id"
)

// Recommendation is one ranked result.
type Recommendation struct {
	// Rank is 1-based.
	Rank    int     `json:"rank"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
	MovieID int     `json:"movie_id"`
}

// Recommender answers similarity queries against a catalog.
type Recommender struct {
	catalog *catalog.Catalog
	cfg     Config
	logger  zerolog.Logger
}

// New returns a Recommender for cat.
func New(cat *catalog.Catalog, cfg Config) (*Recommender, error) {
	if cat == nil {
		return nil, errors.New("recommend: nil catalog")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return &Recommender{
		catalog: cat,
		cfg:     cfg,
		logger:  logging.WithComponent("recommend"),
	}, nil
}

// Config returns the limits in effect.
func (r *Recommender) Config() Config {
	return r.cfg
}

// Catalog returns the catalog being served.
func (r *Recommender) Catalog() *catalog.Catalog {
	return r.catalog
}

// Recommend returns up to topN movies most similar to the first catalog
// movie titled title. Matching is exact and case-sensitive.
//
// An unknown title yields an empty slice and ErrTitleNotFound. topN <= 0
// yields an empty slice and no error; topN above MaxK is capped.
func (r *Recommender) Recommend(title string, topN int) ([]Recommendation, error) {
	start := time.Now()
	idx, ok := r.catalog.IndexOfTitle(title)
	if !ok {
		metrics.RecordRecommendation(lookupTitle, false, 0, time.Since(start))
		r.logger.Debug().Str("title", title).Msg("Title not in catalog")
		return []Recommendation{}, fmt.Errorf("%w: %q", ErrTitleNotFound, title)
	}

	if topN <= 0 {
		metrics.RecordRecommendation(lookupTitle, true, 0, time.Since(start))
		return []Recommendation{}, nil
	}

	recs := r.rank(idx, r.cfg.limitK(topN))
	metrics.RecordRecommendation(lookupTitle, true, len(recs), time.Since(start))
	return recs, nil
}

// RecommendByMovieID is Recommend keyed by the TMDB id of the first catalog
// movie carrying it.
func (r *Recommender) RecommendByMovieID(movieID, topN int) ([]Recommendation, error) {
	start := time.Now()
	idx, ok := r.catalog.IndexOfMovieID(movieID)
	if !ok {
		metrics.RecordRecommendation(lookupMovieID, false, 0, time.Since(start))
		r.logger.Debug().Int("movie_id", movieID).Msg("Movie id not in catalog")
		return []Recommendation{}, fmt.Errorf("%w: %d", ErrMovieNotFound, movieID)
	}

	if topN <= 0 {
		metrics.RecordRecommendation(lookupMovieID, true, 0, time.Since(start))
		return []Recommendation{}, nil
	}

	recs := r.rank(idx, r.cfg.limitK(topN))
	metrics.RecordRecommendation(lookupMovieID, true, len(recs), time.Since(start))
	return recs, nil
}

type candidate struct {
	index int
	score float64
}

// rank orders row query and returns the best k entries other than query.
func (r *Recommender) rank(query, k int) []Recommendation {
	row := r.catalog.Row(query)

	candidates := make([]candidate, 0, len(row))
	for j, score := range row {
		if j == query {
			continue
		}
		candidates = append(candidates, candidate{index: j, score: score})
	}
	slices.SortFunc(candidates, compareCandidates)

	if k > len(candidates) {
		k = len(candidates)
	}

	out := make([]Recommendation, k)
	for i, c := range candidates[:k] {
		m := r.catalog.Movie(c.index)
		out[i] = Recommendation{
			Rank:    i + 1,
			Score:   c.score,
			Title:   m.Title,
			MovieID: m.MovieID,
		}
	}
	return out
}

// compareCandidates orders by score descending, NaN last, then by index.
func compareCandidates(a, b candidate) int {
	aNaN, bNaN := math.IsNaN(a.score), math.IsNaN(b.score)
	switch {
	case aNaN && !bNaN:
		return 1
	case bNaN && !aNaN:
		return -1
	case !aNaN && a.score != b.score:
		if a.score > b.score {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.index, b.index)
}
