// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package tmdb

// Movie is the subset of GET /3/movie/{id} that Cinematch reads.
// A null poster_path decodes to "".
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Runtime       int     `json:"runtime"`
	Genres        []Genre `json:"genres"`
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HasPoster reports whether the movie has a poster path.
func (m *Movie) HasPoster() bool {
	return m != nil && m.PosterPath != ""
}
