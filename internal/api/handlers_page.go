// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

// The page always asks for ten results laid out five per row.
const (
	pageResults = 10
	pageColumns = 5
)

const noRecommendationsWarning = "No recommendations found."

//go:embed templates/index.html.tmpl
var templateFS embed.FS

// card is one grid cell.
type card struct {
	Title     string
	PosterURL string
}

type pageData struct {
	Nonce    string
	Titles   []string
	Selected string
	Warning  string
	Columns  int
	Rows     [][]card
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("api: parse page template: %w", err)
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

// render buffers the output so a template error still yields a clean 500.
func (p *pageRenderer) render(w http.ResponseWriter, r *http.Request, data *pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// Index handles GET / and GET /?title=X.
//
// Without a title the page shows the selection control only. With a title
// it asks for ten recommendations. An empty result shows the warning and
// nothing else. Otherwise posters are resolved in recommender order and
// laid out in rows of five.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	_, hasTitle := r.URL.Query()["title"]
	title := r.URL.Query().Get("title")

	data := &pageData{
		Nonce:    cspNonce(r.Context()),
		Titles:   h.catalog.Titles(),
		Selected: title,
		Columns:  pageColumns,
	}

	if hasTitle {
		recs, err := h.recommender.Recommend(title, pageResults)
		if err != nil && !errors.Is(err, recommend.ErrTitleNotFound) {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
		}
		if len(recs) == 0 {
			data.Warning = noRecommendationsWarning
		} else {
			urls := h.posters.ResolveAll(r.Context(), movieIDs(recs))
			data.Rows = gridRows(recs, urls, pageColumns)
		}
	}

	h.page.render(w, r, data)
}

// gridRows chunks recs into rows of at most columns cards.
func gridRows(recs []recommend.Recommendation, urls []string, columns int) [][]card {
	rows := make([][]card, 0, (len(recs)+columns-1)/columns)
	for start := 0; start < len(recs); start += columns {
		end := min(start+columns, len(recs))
		row := make([]card, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, card{Title: recs[i].Title, PosterURL: urls[i]})
		}
		rows = append(rows, row)
	}
	return rows
}
