// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinematch/internal/validation"
)

// defaultMoviesPage is the page size of /api/v1/movies when limit is unset.
const defaultMoviesPage = 100

// RecommendRequest holds the query parameters of /api/v1/recommendations.
// The recommender clamps k to its own max_k; the tag bound only rejects
// nonsense.
type RecommendRequest struct {
	Title   string `query:"title" validate:"required,max=512,printable_text"`
	K       int    `query:"k" validate:"min=0,max=500"`
	Posters bool   `query:"posters"`
}

// RecommendByIDRequest holds the parameters of /api/v1/recommendations/movie/{movieID}.
type RecommendByIDRequest struct {
	MovieID int  `query:"movieID" validate:"min=1"`
	K       int  `query:"k" validate:"min=0,max=500"`
	Posters bool `query:"posters"`
}

// MoviesRequest holds the query parameters of /api/v1/movies.
type MoviesRequest struct {
	Query  string `query:"q" validate:"max=512,printable_text"`
	Limit  int    `query:"limit" validate:"min=1,max=1000"`
	Offset int    `query:"offset" validate:"min=0"`
}

// PosterRequest holds the path parameter of /api/v1/posters/{movieID}.
type PosterRequest struct {
	MovieID int `query:"movieID" validate:"min=1"`
}

// paramError is a query parameter that failed to parse.
type paramError struct {
	field string
	value string
	want  string
}

func (e *paramError) Error() string {
	return e.field + " must be " + e.want
}

func (e *paramError) details() map[string]interface{} {
	return map[string]interface{}{
		"field": e.field,
		"tag":   "parse",
		"value": e.value,
	}
}

// paramParser collects the first parse failure across several reads.
type paramParser struct {
	values url.Values
	err    *paramError
}

func newParamParser(r *http.Request) *paramParser {
	return &paramParser{values: r.URL.Query()}
}

func (p *paramParser) String(key string) string {
	return p.values.Get(key)
}

func (p *paramParser) Int(key string, def int) int {
	return p.parseInt(key, p.values.Get(key), def)
}

func (p *paramParser) PathInt(r *http.Request, key string) int {
	raw := chi.URLParam(r, key)
	if raw == "" {
		p.fail(key, raw, "an integer")
		return 0
	}
	return p.parseInt(key, raw, 0)
}

func (p *paramParser) Bool(key string, def bool) bool {
	raw := strings.TrimSpace(p.values.Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, "true or false")
		return def
	}
	return v
}

func (p *paramParser) parseInt(key, raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, "an integer")
		return def
	}
	return v
}

func (p *paramParser) fail(key, raw, want string) {
	if p.err == nil {
		p.err = &paramError{field: key, value: raw, want: want}
	}
}

// decode finishes parsing and runs struct validation. It writes the 400
// response and returns false when the request is invalid.
func decode(rw *ResponseWriter, p *paramParser, req interface{}) bool {
	if p.err != nil {
		rw.ValidationError(p.err.Error(), p.err.details())
		return false
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

func parseRecommendRequest(rw *ResponseWriter, r *http.Request) (RecommendRequest, bool) {
	p := newParamParser(r)
	req := RecommendRequest{
		Title:   p.String("title"),
		K:       p.Int("k", 0),
		Posters: p.Bool("posters", false),
	}
	return req, decode(rw, p, &req)
}

func parseRecommendByIDRequest(rw *ResponseWriter, r *http.Request) (RecommendByIDRequest, bool) {
	p := newParamParser(r)
	req := RecommendByIDRequest{
		MovieID: p.PathInt(r, "movieID"),
		K:       p.Int("k", 0),
		Posters: p.Bool("posters", false),
	}
	return req, decode(rw, p, &req)
}

func parseMoviesRequest(rw *ResponseWriter, r *http.Request) (MoviesRequest, bool) {
	p := newParamParser(r)
	req := MoviesRequest{
		Query:  p.String("q"),
		Limit:  p.Int("limit", defaultMoviesPage),
		Offset: p.Int("offset", 0),
	}
	return req, decode(rw, p, &req)
}

func parsePosterRequest(rw *ResponseWriter, r *http.Request) (PosterRequest, bool) {
	p := newParamParser(r)
	req := PosterRequest{MovieID: p.PathInt(r, "movieID")}
	return req, decode(rw, p, &req)
}
