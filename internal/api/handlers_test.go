// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"math"
	"net/http"
	"net/url"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/catalog"
)

func TestRecommendations_ByTitle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	var data RecommendationsResponse
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/recommendations?title=Movie+A"), &data)

	if data.Count != 2 || len(data.Results) != 2 {
		t.Fatalf("count = %d, results = %d, want 2", data.Count, len(data.Results))
	}
	want := []struct {
		title string
		id    int
		score float64
	}{{"Movie B", 2, 0.9}, {"Movie C", 3, 0.1}}
	for i, w := range want {
		got := data.Results[i]
		if got.Title != w.title || got.MovieID != w.id || got.Rank != i+1 {
			t.Errorf("result %d = %+v, want %s/%d rank %d", i, got, w.title, w.id, i+1)
		}
		if got.Score == nil || *got.Score != w.score {
			t.Errorf("result %d score = %v, want %v", i, got.Score, w.score)
		}
		if got.PosterURL != "" {
			t.Errorf("poster_url = %q without posters=true", got.PosterURL)
		}
	}
	if data.Query.Title != "Movie A" {
		t.Errorf("query echo = %+v", data.Query)
	}
	if env.posters.callCount() != 0 {
		t.Error("posters resolved without posters=true")
	}
}

func TestRecommendations_WithPosters(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	var data RecommendationsResponse
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/recommendations?title=Movie+A&posters=true"), &data)

	for i, id := range []int{2, 3} {
		if data.Results[i].PosterURL != posterURL(id) {
			t.Errorf("result %d poster = %q, want %q", i, data.Results[i].PosterURL, posterURL(id))
		}
	}
	if env.posters.callCount() != 1 {
		t.Errorf("ResolveAll calls = %d, want 1 batch", env.posters.callCount())
	}
}

func TestRecommendations_NotFound(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	for _, title := range []string{"Unknown", "movie a"} {
		rec := env.serve(t, http.MethodGet, "/api/v1/recommendations?title="+url.QueryEscape(title))
		resp := expectError(t, rec, http.StatusNotFound, ErrCodeTitleNotFound)
		if resp.Error.RequestID == "" || resp.Error.RequestID != rec.Header().Get("X-Request-ID") {
			t.Errorf("error request_id = %q, header = %q", resp.Error.RequestID, rec.Header().Get("X-Request-ID"))
		}
	}
	if env.posters.callCount() != 0 {
		t.Error("posters resolved for unknown title")
	}
}

func TestRecommendations_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"missing title", "", "title"},
		{"empty title", "title=", "title"},
		{"k not a number", "title=Movie+A&k=ten", "k"},
		{"k negative", "title=Movie+A&k=-1", "k"},
		{"k huge", "title=Movie+A&k=100000", "k"},
		{"posters not bool", "title=Movie+A&posters=maybe", "posters"},
		{"control character", "title=Movie%00A", "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := expectError(t, env.serve(t, http.MethodGet, "/api/v1/recommendations?"+tt.query),
				http.StatusBadRequest, ErrCodeValidationFailed)
			details, ok := resp.Error.Details.(map[string]interface{})
			if !ok || details["field"] != tt.wantField {
				t.Errorf("details = %v, want field %s", resp.Error.Details, tt.wantField)
			}
		})
	}
}

func TestRecommendations_KDefaultAndClamp(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, gridBundle(80), nil)

	tests := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"&k=0", 10},
		{"&k=3", 3},
		{"&k=400", 50},
	}
	for _, tt := range tests {
		var data RecommendationsResponse
		expectOK(t, env.serve(t, http.MethodGet, "/api/v1/recommendations?title=Film+00"+tt.query), &data)
		if data.Count != tt.want {
			t.Errorf("k%s: count = %d, want %d", tt.query, data.Count, tt.want)
		}
	}
}

func TestRecommendations_ConfiguredDefaultK(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithDeps(t, gridBundle(20), Deps{DefaultK: 4})

	for _, path := range []string{
		"/api/v1/recommendations?title=Film+00",
		"/api/v1/recommendations?title=Film+00&k=0",
		"/api/v1/recommendations/movie/100",
	} {
		var data RecommendationsResponse
		expectOK(t, env.serve(t, http.MethodGet, path), &data)
		if data.Count != 4 || data.Query.K != 4 {
			t.Errorf("%s: count = %d, query k = %d, want 4/4", path, data.Count, data.Query.K)
		}
	}
}

func TestRecommendations_NonFiniteScoreIsNull(t *testing.T) {
	t.Parallel()
	b := abcBundle()
	b.Similarity[0][2] = math.NaN()
	env := newTestEnv(t, b, nil)

	var data RecommendationsResponse
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/recommendations?title=Movie+A"), &data)

	last := data.Results[len(data.Results)-1]
	if last.Title != "Movie C" || last.Score != nil {
		t.Errorf("last result = %+v, want Movie C with null score", last)
	}
}

func TestRecommendationsByMovieID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	var data RecommendationsResponse
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/recommendations/movie/2?k=1&posters=1"), &data)
	if data.Count != 1 || data.Results[0].Title != "Movie A" || data.Results[0].PosterURL != posterURL(1) {
		t.Errorf("results = %+v, want [Movie A] with poster", data.Results)
	}
	if data.Query.MovieID != 2 || data.Query.K != 1 {
		t.Errorf("query echo = %+v", data.Query)
	}

	expectError(t, env.serve(t, http.MethodGet, "/api/v1/recommendations/movie/999"), http.StatusNotFound, ErrCodeMovieNotFound)
	expectError(t, env.serve(t, http.MethodGet, "/api/v1/recommendations/movie/abc"), http.StatusBadRequest, ErrCodeValidationFailed)
	expectError(t, env.serve(t, http.MethodGet, "/api/v1/recommendations/movie/0"), http.StatusBadRequest, ErrCodeValidationFailed)
}

func TestMovies(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, gridBundle(12), nil)

	t.Run("catalog order with pagination", func(t *testing.T) {
		t.Parallel()
		var movies []MovieDTO
		resp := expectOK(t, env.serve(t, http.MethodGet, "/api/v1/movies?limit=5&offset=5"), &movies)

		if len(movies) != 5 || movies[0].Index != 5 || movies[0].Title != "Film 05" || movies[4].MovieID != 109 {
			t.Errorf("movies = %+v", movies)
		}
		p := resp.Meta.Pagination
		if p == nil || p.Total != 12 || p.Count != 5 || !p.HasMore {
			t.Errorf("pagination = %+v", p)
		}
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		t.Parallel()
		var movies []MovieDTO
		resp := expectOK(t, env.serve(t, http.MethodGet, "/api/v1/movies?q=FILM+1"), &movies)

		if len(movies) != 2 || movies[0].Title != "Film 10" || movies[1].Title != "Film 11" {
			t.Errorf("movies = %+v, want Film 10 and Film 11", movies)
		}
		if resp.Meta.Pagination.HasMore {
			t.Error("HasMore = true on last page")
		}
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		rec := env.serve(t, http.MethodGet, "/api/v1/movies?q=zzz")
		var movies []MovieDTO
		expectOK(t, rec, &movies)
		if len(movies) != 0 {
			t.Errorf("movies = %+v, want empty", movies)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()
		expectError(t, env.serve(t, http.MethodGet, "/api/v1/movies?limit=0"), http.StatusBadRequest, ErrCodeValidationFailed)
		expectError(t, env.serve(t, http.MethodGet, "/api/v1/movies?limit=5000"), http.StatusBadRequest, ErrCodeValidationFailed)
		expectError(t, env.serve(t, http.MethodGet, "/api/v1/movies?offset=-1"), http.StatusBadRequest, ErrCodeValidationFailed)
	})
}

func TestPoster(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	var data PosterDTO
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/posters/3"), &data)
	if data.MovieID != 3 || data.PosterURL != posterURL(3) {
		t.Errorf("poster = %+v", data)
	}

	expectError(t, env.serve(t, http.MethodGet, "/api/v1/posters/42"), http.StatusNotFound, ErrCodeMovieNotFound)
	expectError(t, env.serve(t, http.MethodGet, "/api/v1/posters/x"), http.StatusBadRequest, ErrCodeValidationFailed)

	if env.posters.callCount() != 1 {
		t.Errorf("resolver calls = %d, want 1 (non-catalog ids must not be resolved)", env.posters.callCount())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		breaker    BreakerReporter
		wantStatus string
		wantState  string
	}{
		{"no breaker", nil, "healthy", ""},
		{"breaker closed", fakeBreaker{state: "closed"}, "healthy", "closed"},
		{"breaker open", fakeBreaker{state: "open"}, "degraded", "open"},
		{"breaker half-open", fakeBreaker{state: "half-open"}, "degraded", "half-open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, abcBundle(), tt.breaker)

			var status HealthStatus
			expectOK(t, env.serve(t, http.MethodGet, "/api/v1/health"), &status)
			if status.Status != tt.wantStatus || status.TMDB.BreakerState != tt.wantState {
				t.Errorf("status = %s/%s, want %s/%s", status.Status, status.TMDB.BreakerState, tt.wantStatus, tt.wantState)
			}
			if status.Catalog.Movies != 3 || status.Version != "test" || !status.TMDB.APIKeyConfigured {
				t.Errorf("health = %+v", status)
			}
		})
	}
}

func TestHealth_BreakerCounts(t *testing.T) {
	t.Parallel()
	breaker := fakeBreaker{state: "open", counts: gobreaker.Counts{
		Requests:            7,
		TotalSuccesses:      2,
		TotalFailures:       5,
		ConsecutiveFailures: 5,
	}}
	env := newTestEnv(t, abcBundle(), breaker)

	var status HealthStatus
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/health"), &status)
	want := BreakerCounts{Requests: 7, TotalSuccesses: 2, TotalFailures: 5, ConsecutiveFailures: 5}
	if status.TMDB.Breaker == nil || *status.TMDB.Breaker != want {
		t.Errorf("breaker counts = %+v, want %+v", status.TMDB.Breaker, want)
	}

	noBreaker := newTestEnv(t, abcBundle(), nil)
	expectOK(t, noBreaker.serve(t, http.MethodGet, "/api/v1/health"), &status)
	if status.TMDB.Breaker != nil {
		t.Errorf("breaker counts without breaker = %+v, want nil", status.TMDB.Breaker)
	}
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, abcBundle(), nil)

	var live map[string]interface{}
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/health/live"), &live)
	if live["alive"] != true {
		t.Errorf("live = %v", live)
	}

	var ready map[string]interface{}
	expectOK(t, env.serve(t, http.MethodGet, "/api/v1/health/ready"), &ready)
	if ready["ready"] != true || ready["movies"] != float64(3) {
		t.Errorf("ready = %v", ready)
	}
}

func TestNewHandler_RequiresDeps(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New(abcBundle())
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, abcBundle(), nil)

	tests := []struct {
		name string
		deps Deps
	}{
		{"no catalog", Deps{Recommender: env.handler.recommender, Posters: env.posters}},
		{"no recommender", Deps{Catalog: cat, Posters: env.posters}},
		{"no posters", Deps{Catalog: cat, Recommender: env.handler.recommender}},
	}
	for _, tt := range tests {
		if _, err := NewHandler(tt.deps); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
