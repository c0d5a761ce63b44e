// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import "net/http"

// PosterDTO is the payload of the poster endpoint.
type PosterDTO struct {
	MovieID   int    `json:"movie_id"`
	PosterURL string `json:"poster_url"`
}

// Poster handles GET /api/v1/posters/{movieID}
//
// Only catalog movies are resolved, so the endpoint cannot be used as a
// general TMDB proxy.
//
// @Summary Resolve the poster URL of a catalog movie
// @Description Always returns a URL: the TMDB poster, or a placeholder when there is none or the lookup failed.
// @Tags Posters
// @Produce json
// @Param movieID path int true "TMDB movie id"
// @Success 200 {object} APIResponse{data=PosterDTO}
// @Failure 400 {object} APIResponse "Invalid movie id"
// @Failure 404 {object} APIResponse "Movie not in catalog"
// @Router /posters/{movieID} [get]
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parsePosterRequest(rw, r)
	if !ok {
		return
	}

	if _, found := h.catalog.IndexOfMovieID(req.MovieID); !found {
		rw.Error(http.StatusNotFound, ErrCodeMovieNotFound, "Movie not found in catalog")
		return
	}

	rw.Success(PosterDTO{
		MovieID:   req.MovieID,
		PosterURL: h.posters.ResolvePoster(r.Context(), req.MovieID),
	})
}
