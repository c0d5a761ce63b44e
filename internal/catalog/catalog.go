// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package catalog holds the movie table and the precomputed similarity
// matrix that the recommender reads.
//
// A Catalog is built once at startup from an artifact produced offline and
// is never mutated afterwards, so it can be shared by every request without
// locking. Row i of the similarity matrix belongs to Movies()[i].
//
// # Artifact Formats
//
//   - *.gob.gz, or a directory of versioned {name}_v{N}.gob.gz files (Store)
//   - *.json with {"movies": [...], "similarity": [[...]]}
//   - *.db / *.sqlite with movies and similarity tables
//   - *.duckdb with the same tables
//
// See Load for format detection.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidShape is returned when the matrix is not N×N for N movies.
	ErrInvalidShape = errors.New("similarity matrix shape does not match catalog")

	// ErrEmptyCatalog is returned by Load when an artifact holds no movies.
	ErrEmptyCatalog = errors.New("catalog artifact contains no movies")

	// ErrUnsupportedFormat is returned by Load for unknown file types.
	ErrUnsupportedFormat = errors.New("unsupported catalog artifact format")

	// ErrNonFiniteScore is returned in strict mode for NaN or Inf scores.
	ErrNonFiniteScore = errors.New("similarity matrix contains a non-finite score")
)

// Option configures New.
type Option func(*options)

type options struct {
	strictScores bool
}

// WithStrictScores makes New reject NaN and infinite scores. Without it
// such scores are kept and the recommender ranks NaN last.
func WithStrictScores() Option {
	return func(o *options) { o.strictScores = true }
}

// Movie is one catalog row.
type Movie struct {
	// Title is the display title. Titles are not guaranteed unique.
	Title string `json:"title"`

	// MovieID is the TMDB identifier used to look up metadata.
	MovieID int `json:"movie_id"`
}

// Bundle is the serialisable form of a catalog shared by every artifact
// format.
type Bundle struct {
	Movies     []Movie     `json:"movies"`
	Similarity [][]float64 `json:"similarity"`
}

// Source describes where a loaded catalog came from.
type Source struct {
	Path     string    `json:"path"`
	Format   string    `json:"format"`
	Version  int       `json:"version,omitempty"`
	Checksum string    `json:"checksum,omitempty"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Stats summarises a catalog for health reporting.
type Stats struct {
	Movies          int    `json:"movies"`
	DuplicateTitles int    `json:"duplicate_titles"`
	Source          Source `json:"source"`
}

// Catalog is an immutable movie table with its similarity matrix.
// It is safe for concurrent use.
type Catalog struct {
	movies     []Movie
	matrix     [][]float64
	titleIndex map[string]int
	idIndex    map[int]int
	duplicates int
	source     Source
}

// New validates the shape of the bundle and builds the lookup indexes.
//
// New takes ownership of b's slices; callers must not modify them
// afterwards.
func New(b Bundle, opts ...Option) (*Catalog, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n := len(b.Movies)
	if len(b.Similarity) != n {
		return nil, fmt.Errorf("%w: %d rows for %d movies", ErrInvalidShape, len(b.Similarity), n)
	}
	for i, row := range b.Similarity {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidShape, i, len(row), n)
		}
		if o.strictScores {
			for j, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: [%d][%d] = %v", ErrNonFiniteScore, i, j, v)
				}
			}
		}
	}

	c := &Catalog{
		movies:     b.Movies,
		matrix:     b.Similarity,
		titleIndex: make(map[string]int, n),
		idIndex:    make(map[int]int, n),
	}

	// First occurrence wins for both indexes.
	for i, m := range b.Movies {
		if _, ok := c.titleIndex[m.Title]; ok {
			c.duplicates++
		} else {
			c.titleIndex[m.Title] = i
		}
		if _, ok := c.idIndex[m.MovieID]; !ok {
			c.idIndex[m.MovieID] = i
		}
	}

	return c, nil
}

// withSource returns c annotated with its origin. Only used by loaders
// before the catalog is published.
func (c *Catalog) withSource(src Source) *Catalog {
	c.source = src
	return c
}

// Len returns the number of movies.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Movie returns the movie at row i. It panics if i is out of range, like a
// slice index.
func (c *Catalog) Movie(i int) Movie {
	return c.movies[i]
}

// Movies returns a copy of the movie table in catalog order.
func (c *Catalog) Movies() []Movie {
	out := make([]Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Titles returns every title in catalog order, duplicates included.
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Title
	}
	return out
}

// Row returns the similarity scores for row i. The slice aliases catalog
// storage and must be treated as read-only.
func (c *Catalog) Row(i int) []float64 {
	return c.matrix[i]
}

// IndexOfTitle returns the row of the first movie whose title equals title
// exactly (case-sensitive).
func (c *Catalog) IndexOfTitle(title string) (int, bool) {
	i, ok := c.titleIndex[title]
	return i, ok
}

// IndexOfMovieID returns the row of the first movie with the given id.
func (c *Catalog) IndexOfMovieID(id int) (int, bool) {
	i, ok := c.idIndex[id]
	return i, ok
}

// Stats returns a summary for health endpoints and startup logs.
func (c *Catalog) Stats() Stats {
	return Stats{
		Movies:          len(c.movies),
		DuplicateTitles: c.duplicates,
		Source:          c.source,
	}
}

// Bundle returns the catalog's movies and matrix for re-serialisation.
// The matrix aliases catalog storage.
func (c *Catalog) Bundle() Bundle {
	return Bundle{Movies: c.Movies(), Similarity: c.matrix}
}
