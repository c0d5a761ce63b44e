// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewStore(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "catalogs")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
	}
	if _, ok := store.LatestVersion(DefaultName); ok {
		t.Error("empty store should report no versions")
	}
}

func TestOpenStore_MissingDir(t *testing.T) {
	t.Parallel()

	if _, err := OpenStore(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("OpenStore() on missing directory should fail")
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	meta, err := store.Save(ctx, "tmdb", testBundle(), ArtifactMetadata{SourcePath: "tmdb.json"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Version != 1 || meta.Movies != 3 || meta.Checksum == "" || meta.SizeBytes == 0 {
		t.Errorf("Save() metadata = %+v", meta)
	}

	b, loaded, err := store.Load(ctx, "tmdb", 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Checksum != meta.Checksum || loaded.SourcePath != "tmdb.json" {
		t.Errorf("Load() metadata = %+v, want %+v", loaded, meta)
	}
	if len(b.Movies) != 3 || b.Movies[1].Title != "Movie B" || b.Similarity[0][1] != 0.9 {
		t.Errorf("Load() bundle = %+v", b)
	}
}

func TestStore_Versions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Save(ctx, DefaultName, testBundle(), ArtifactMetadata{}); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}

	if v, ok := store.LatestVersion(DefaultName); !ok || v != 3 {
		t.Errorf("LatestVersion() = %d, %v; want 3, true", v, ok)
	}

	reopened, err := OpenStore(dir)
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	if v, _ := reopened.LatestVersion(DefaultName); v != 3 {
		t.Errorf("reopened LatestVersion() = %d, want 3", v)
	}

	list, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 || list[0].Version != 3 {
		t.Errorf("List() = %+v", list)
	}

	removed, err := reopened.Prune(ctx, DefaultName, 1)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}
	if _, _, err := reopened.Load(ctx, DefaultName, 1); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Load(v1) after prune error = %v, want ErrArtifactNotFound", err)
	}
	if _, _, err := reopened.Load(ctx, DefaultName, 0); err != nil {
		t.Errorf("Load(latest) after prune error = %v", err)
	}
}

func TestStore_LoadUnknownName(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, _, err := store.Load(context.Background(), "nope", 0); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Load() error = %v, want ErrArtifactNotFound", err)
	}
}

func TestStore_SaveRejectsBadShape(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	bad := Bundle{Movies: []Movie{{Title: "A"}}, Similarity: nil}
	if _, err := store.Save(context.Background(), DefaultName, bad, ArtifactMetadata{}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Save() error = %v, want ErrInvalidShape", err)
	}
}

func TestReadArtifactFile_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	meta, err := store.Save(ctx, DefaultName, testBundle(), ArtifactMetadata{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	path := store.artifactPath(DefaultName, meta.Version)
	sf, err := decodeStoredFile(path)
	if err != nil {
		t.Fatalf("decodeStoredFile() error = %v", err)
	}
	sf.Metadata.Checksum = "deadbeef"

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	_ = f.Close()

	if _, _, err := readArtifactFile(path); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("readArtifactFile() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestParseArtifactFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename    string
		wantName    string
		wantVersion int
		wantOK      bool
	}{
		{"catalog_v1.gob.gz", "catalog", 1, true},
		{"tmdb_5000_v12.gob.gz", "tmdb_5000", 12, true},
		{"catalog_v0.gob.gz", "", 0, false},
		{"catalog.gob.gz", "", 0, false},
		{"catalog_v1.json", "", 0, false},
		{"_v1.gob.gz", "", 0, false},
		{"catalog_vx.gob.gz", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			name, version, ok := parseArtifactFilename(tt.filename)
			if name != tt.wantName || version != tt.wantVersion || ok != tt.wantOK {
				t.Errorf("parseArtifactFilename(%q) = %q, %d, %v; want %q, %d, %v",
					tt.filename, name, version, ok, tt.wantName, tt.wantVersion, tt.wantOK)
			}
		})
	}
}
