// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// RecommendationDTO is one result in API responses. Score is null when the
// stored similarity is not a finite number.
type RecommendationDTO struct {
	Rank      int      `json:"rank"`
	Title     string   `json:"title"`
	MovieID   int      `json:"movie_id"`
	Score     *float64 `json:"score"`
	PosterURL string   `json:"poster_url,omitempty"`
}

// RecommendationsResponse is the data payload of the recommendation endpoints.
type RecommendationsResponse struct {
	Query   RecommendationQuery `json:"query"`
	Count   int                 `json:"count"`
	Results []RecommendationDTO `json:"results"`
}

// RecommendationQuery echoes the lookup key and the effective k.
type RecommendationQuery struct {
	Title   string `json:"title,omitempty"`
	MovieID int    `json:"movie_id,omitempty"`
	K       int    `json:"k"`
}

// Recommendations handles GET /api/v1/recommendations?title=X&k=10&posters=true
//
// @Summary Recommend movies similar to a title
// @Description Exact, case-sensitive title match. Duplicate titles resolve to the first catalog entry.
// @Tags Recommendations
// @Produce json
// @Param title query string true "Movie title"
// @Param k query int false "Number of results (default 10)"
// @Param posters query bool false "Resolve poster URLs"
// @Success 200 {object} APIResponse{data=RecommendationsResponse}
// @Failure 400 {object} APIResponse "Invalid parameters"
// @Failure 404 {object} APIResponse "Title not in catalog"
// @Router /recommendations [get]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parseRecommendRequest(rw, r)
	if !ok {
		return
	}

	k := h.resultCount(req.K)
	recs, err := h.recommender.Recommend(req.Title, k)
	if err != nil {
		h.recommendError(rw, r, err)
		return
	}

	rw.Success(RecommendationsResponse{
		Query:   RecommendationQuery{Title: req.Title, K: k},
		Count:   len(recs),
		Results: h.toDTOs(r.Context(), recs, req.Posters),
	})
}

// RecommendationsByMovieID handles GET /api/v1/recommendations/movie/{movieID}
//
// @Summary Recommend movies similar to a TMDB movie id
// @Tags Recommendations
// @Produce json
// @Param movieID path int true "TMDB movie id"
// @Param k query int false "Number of results (default 10)"
// @Param posters query bool false "Resolve poster URLs"
// @Success 200 {object} APIResponse{data=RecommendationsResponse}
// @Failure 400 {object} APIResponse "Invalid parameters"
// @Failure 404 {object} APIResponse "Movie not in catalog"
// @Router /recommendations/movie/{movieID} [get]
func (h *Handler) RecommendationsByMovieID(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parseRecommendByIDRequest(rw, r)
	if !ok {
		return
	}

	k := h.resultCount(req.K)
	recs, err := h.recommender.RecommendByMovieID(req.MovieID, k)
	if err != nil {
		h.recommendError(rw, r, err)
		return
	}

	rw.Success(RecommendationsResponse{
		Query:   RecommendationQuery{MovieID: req.MovieID, K: k},
		Count:   len(recs),
		Results: h.toDTOs(r.Context(), recs, req.Posters),
	})
}

// resultCount maps an absent or zero k to the configured default.
func (h *Handler) resultCount(k int) int {
	if k == 0 {
		return h.defaultK
	}
	return k
}

func (h *Handler) recommendError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrTitleNotFound):
		rw.Error(http.StatusNotFound, ErrCodeTitleNotFound, "Title not found in catalog")
	case errors.Is(err, recommend.ErrMovieNotFound):
		rw.Error(http.StatusNotFound, ErrCodeMovieNotFound, "Movie not found in catalog")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
		rw.InternalError("Failed to compute recommendations")
	}
}

// toDTOs keeps recommender order. Posters are resolved only on request.
func (h *Handler) toDTOs(ctx context.Context, recs []recommend.Recommendation, withPosters bool) []RecommendationDTO {
	out := make([]RecommendationDTO, len(recs))
	for i, rec := range recs {
		out[i] = RecommendationDTO{
			Rank:    rec.Rank,
			Title:   rec.Title,
			MovieID: rec.MovieID,
			Score:   finiteScore(rec.Score),
		}
	}
	if !withPosters || len(recs) == 0 {
		return out
	}

	urls := h.posters.ResolveAll(ctx, movieIDs(recs))
	for i := range out {
		out[i].PosterURL = urls[i]
	}
	return out
}

func finiteScore(s float64) *float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return nil
	}
	return &s
}

func movieIDs(recs []recommend.Recommendation) []int {
	ids := make([]int, len(recs))
	for i, rec := range recs {
		ids[i] = rec.MovieID
	}
	return ids
}
