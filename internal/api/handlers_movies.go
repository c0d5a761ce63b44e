// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"strings"
)

// MovieDTO is one catalog entry. Index is the row in the similarity matrix.
type MovieDTO struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	MovieID int    `json:"movie_id"`
}

// Movies handles GET /api/v1/movies?q=&limit=&offset=
//
// @Summary List catalog movies
// @Description Movies in catalog order. q filters by case-insensitive substring of the title.
// @Tags Catalog
// @Produce json
// @Param q query string false "Title filter"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param offset query int false "Page offset"
// @Success 200 {object} APIResponse{data=[]MovieDTO}
// @Failure 400 {object} APIResponse "Invalid parameters"
// @Router /movies [get]
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, ok := parseMoviesRequest(rw, r)
	if !ok {
		return
	}

	needle := strings.ToLower(strings.TrimSpace(req.Query))
	movies := h.catalog.Movies()

	matched := make([]MovieDTO, 0, min(len(movies), req.Limit))
	total := 0
	for i, m := range movies {
		if needle != "" && !strings.Contains(strings.ToLower(m.Title), needle) {
			continue
		}
		if total >= req.Offset && len(matched) < req.Limit {
			matched = append(matched, MovieDTO{Index: i, Title: m.Title, MovieID: m.MovieID})
		}
		total++
	}

	rw.SuccessWithPagination(matched, &PaginationMeta{
		Total:   total,
		Count:   len(matched),
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: req.Offset+len(matched) < total,
	})
}
