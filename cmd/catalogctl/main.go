// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Command catalogctl manages Cinematch catalog artifacts.
//
//	catalogctl inspect [-title T] [-k N] <path>    print catalog stats, optionally sample recommendations
//	catalogctl pack -src bundle.json -out dir [-name catalog] [-keep 3]
//	catalogctl list <dir>                         list stored artifact versions
//
// pack accepts any readable artifact (.json, .db/.sqlite, .duckdb, .gob.gz or
// a store directory) and writes it as the next .gob.gz version in the
// output store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/catalog"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const usage = `usage: catalogctl <command> [flags]

commands:
  inspect [-title T] [-k N] <path>   print catalog stats
  pack -src PATH -out DIR [-name N] [-keep K]
  list <dir>                         list stored artifacts
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logging.Init(logging.Config{Level: "warn", Format: "console", Output: stderr})

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "inspect":
		err = runInspect(ctx, args[1:], stdout, stderr)
	case "pack":
		err = runPack(ctx, args[1:], stdout, stderr)
	case "list":
		err = runList(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "catalogctl %s: %v\n", args[0], err)
		return 1
	}
}

type inspectOutput struct {
	Stats           catalog.Stats      `json:"stats"`
	Query           string             `json:"query,omitempty"`
	Recommendations []inspectSampleRow `json:"recommendations,omitempty"`
}

type inspectSampleRow struct {
	Rank    int      `json:"rank"`
	Title   string   `json:"title"`
	MovieID int      `json:"movie_id"`
	Score   *float64 `json:"score"`
}

func runInspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("title", "", "sample recommendations for this exact title")
	k := fs.Int("k", 5, "number of sample recommendations")
	name := fs.String("name", catalog.DefaultName, "artifact name when path is a store directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "inspect: exactly one artifact path is required")
		return errUsage
	}

	cat, err := catalog.Load(ctx, fs.Arg(0), catalog.LoadOptions{Name: *name})
	if err != nil {
		return err
	}

	out := inspectOutput{Stats: cat.Stats()}
	if *title != "" {
		rec, err := recommend.New(cat, recommend.DefaultConfig())
		if err != nil {
			return err
		}
		recs, err := rec.Recommend(*title, *k)
		if err != nil {
			return err
		}
		out.Query = *title
		for _, r := range recs {
			out.Recommendations = append(out.Recommendations, inspectSampleRow{
				Rank: r.Rank, Title: r.Title, MovieID: r.MovieID, Score: finite(r.Score),
			})
		}
	}
	return writeJSON(stdout, out)
}

func runPack(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	src := fs.String("src", "", "source artifact (.json, .db, .duckdb, .gob.gz or store directory)")
	out := fs.String("out", "", "output store directory")
	name := fs.String("name", catalog.DefaultName, "artifact name")
	keep := fs.Int("keep", 3, "versions to keep after packing")
	builtAt := fs.String("built-at", "", "RFC 3339 time the matrix was computed (default: now)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *src == "" || *out == "" {
		fmt.Fprintln(stderr, "pack: -src and -out are required")
		return errUsage
	}

	meta := catalog.ArtifactMetadata{SourcePath: *src}
	if *builtAt != "" {
		t, err := time.Parse(time.RFC3339, *builtAt)
		if err != nil {
			return fmt.Errorf("parse -built-at: %w", err)
		}
		meta.BuiltAt = t.UTC()
	}

	b, _, err := catalog.ReadBundle(ctx, *src, catalog.LoadOptions{})
	if err != nil {
		return err
	}
	if len(b.Movies) == 0 {
		return catalog.ErrEmptyCatalog
	}

	store, err := catalog.NewStore(*out)
	if err != nil {
		return err
	}
	saved, err := store.Save(ctx, *name, b, meta)
	if err != nil {
		return err
	}
	removed, err := store.Prune(ctx, *name, *keep)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "packed %s v%d: %d movies, %d bytes, sha256 %s\n",
		saved.Name, saved.Version, saved.Movies, saved.SizeBytes, saved.Checksum)
	if removed > 0 {
		fmt.Fprintf(stdout, "pruned %d old version(s)\n", removed)
	}
	return nil
}

func runList(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "list: exactly one store directory is required")
		return errUsage
	}

	store, err := catalog.OpenStore(fs.Arg(0))
	if err != nil {
		return err
	}
	artifacts, err := store.List(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(stdout, artifacts)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tMOVIES\tSIZE\tSAVED\tCHECKSUM")
	for _, a := range artifacts {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			a.Name, a.Version, a.Movies, a.SizeBytes, a.SavedAt.Format(time.RFC3339), shortChecksum(a.Checksum))
	}
	return tw.Flush()
}

// parseFlags reports flag errors as usage errors. The flag package has
// already printed the details to stderr.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	return nil
}

// finite maps NaN and Inf to nil; JSON has no encoding for them.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
