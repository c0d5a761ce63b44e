// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// fakePosters returns a deterministic URL per movie and records lookups.
type fakePosters struct {
	mu    sync.Mutex
	calls [][]int
}

func posterURL(id int) string {
	return fmt.Sprintf("https://img.test/%d.jpg", id)
}

func (f *fakePosters) ResolvePoster(_ context.Context, id int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, []int{id})
	return posterURL(id)
}

func (f *fakePosters) ResolveAll(_ context.Context, ids []int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]int(nil), ids...))
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = posterURL(id)
	}
	return out
}

func (f *fakePosters) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeBreaker struct {
	state  string
	counts gobreaker.Counts
}

func (b fakeBreaker) BreakerState() string { return b.state }

func (b fakeBreaker) BreakerCounts() gobreaker.Counts { return b.counts }

// abcBundle: Movie A is most similar to B, then C.
func abcBundle() catalog.Bundle {
	return catalog.Bundle{
		Movies: []catalog.Movie{
			{Title: "Movie A", MovieID: 1},
			{Title: "Movie B", MovieID: 2},
			{Title: "Movie C", MovieID: 3},
		},
		Similarity: [][]float64{
			{1.0, 0.9, 0.1},
			{0.9, 1.0, 0.2},
			{0.1, 0.2, 1.0},
		},
	}
}

// gridBundle has n movies; every other movie is similar to movie 0 with a
// score decreasing by index.
func gridBundle(n int) catalog.Bundle {
	b := catalog.Bundle{Movies: make([]catalog.Movie, n), Similarity: make([][]float64, n)}
	for i := 0; i < n; i++ {
		b.Movies[i] = catalog.Movie{Title: fmt.Sprintf("Film %02d", i), MovieID: 100 + i}
		b.Similarity[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			b.Similarity[i][j] = 1 - float64(j)/float64(n)
		}
	}
	return b
}

type testEnv struct {
	handler *Handler
	posters *fakePosters
}

func newTestEnv(t *testing.T, b catalog.Bundle, breaker BreakerReporter) *testEnv {
	t.Helper()
	return newTestEnvWithDeps(t, b, Deps{Breaker: breaker})
}

// newTestEnvWithDeps fills the catalog, recommender and posters into deps.
func newTestEnvWithDeps(t *testing.T, b catalog.Bundle, deps Deps) *testEnv {
	t.Helper()

	cat, err := catalog.New(b)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	rec, err := recommend.New(cat, recommend.DefaultConfig())
	if err != nil {
		t.Fatalf("recommend.New() error = %v", err)
	}
	posters := &fakePosters{}
	deps.Catalog = cat
	deps.Recommender = rec
	deps.Posters = posters
	deps.TMDBConfigured = true
	deps.Version = "test"
	h, err := NewHandler(deps)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return &testEnv{handler: h, posters: posters}
}

// serve runs req through the full router so chi URL params resolve.
func (e *testEnv) serve(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	rec := httptest.NewRecorder()
	NewRouter(e.handler, NewChiMiddleware(cfg)).Setup().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// envelope decodes the API response with Data kept raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v\nbody: %s", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) envelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec, nil)
	if env.Success {
		t.Error("Success = true on error response")
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
	return env
}

func expectOK(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec, data)
	if !env.Success || env.Error != nil {
		t.Fatalf("unexpected error envelope: %s", rec.Body.String())
	}
	return env
}
