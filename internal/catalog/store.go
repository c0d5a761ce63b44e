// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	// ErrArtifactNotFound is returned when a store holds no matching version.
	ErrArtifactNotFound = errors.New("catalog artifact not found")

	// ErrChecksumMismatch is returned when the decompressed payload does not
	// match the recorded SHA-256.
	ErrChecksumMismatch = errors.New("catalog artifact checksum mismatch")
)

const artifactExt = ".gob.gz"

// ArtifactMetadata describes one stored catalog version.
type ArtifactMetadata struct {
	// Name is the catalog name, e.g. "catalog" or "tmdb5000".
	Name string `json:"name"`

	// Version increases monotonically per name.
	Version int `json:"version"`

	// BuiltAt is when the similarity matrix was computed offline.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// Movies is the row count.
	Movies int `json:"movies"`

	// SourcePath records the bundle the artifact was packed from.
	SourcePath string `json:"source_path,omitempty"`

	// Checksum is the SHA-256 of the raw gob payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk layout of a .gob.gz artifact.
type storedFile struct {
	Metadata       ArtifactMetadata
	CompressedData []byte
}

// Store manages versioned catalog artifacts in a directory. Files are named
// {name}_v{version}.gob.gz.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per name
	versions map[string]int
}

// NewStore opens a store, creating the directory if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	return OpenStore(baseDir)
}

// OpenStore opens an existing store directory without creating it.
func OpenStore(baseDir string) (*Store, error) {
	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan catalog directory: %w", err)
	}
	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.baseDir
}

func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseArtifactFilename(entry.Name())
		if !ok {
			continue
		}
		if current, seen := s.versions[name]; !seen || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseArtifactFilename splits "catalog_v3.gob.gz" into ("catalog", 3).
func parseArtifactFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, artifactExt)
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(base, "_v")
	if idx < 1 {
		return "", 0, false
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version < 1 {
		return "", 0, false
	}
	return base[:idx], version, true
}

func (s *Store) artifactPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}

// versionsOf lists every version of name on disk, newest first.
func (s *Store) versionsOf(name string) ([]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read catalog directory: %w", err)
	}
	var versions []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, v, ok := parseArtifactFilename(entry.Name())
		if ok && n == name {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	slices.Reverse(versions)
	return versions, nil
}

// Save writes b as the next version of name and returns the stored
// metadata. The file is written to a temporary name and renamed into place,
// so a concurrent reader never sees a partial artifact.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, b Bundle, meta ArtifactMetadata) (ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return ArtifactMetadata{}, err
	}
	if _, err := New(b); err != nil {
		return ArtifactMetadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(b); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("encode catalog: %w", err)
	}
	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("compress catalog: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = s.versions[name] + 1
	meta.Movies = len(b.Movies)
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now().UTC()
	if meta.BuiltAt.IsZero() {
		meta.BuiltAt = meta.SavedAt
	}

	final := s.artifactPath(name, meta.Version)
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-"+name+"-*")
	if err != nil {
		return ArtifactMetadata{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return ArtifactMetadata{}, fmt.Errorf("write catalog artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("close catalog artifact: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		return ArtifactMetadata{}, fmt.Errorf("publish catalog artifact: %w", err)
	}

	s.versions[name] = meta.Version
	return meta, nil
}

// Load reads a stored version of name. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int) (Bundle, ArtifactMetadata, error) {
	if err := ctx.Err(); err != nil {
		return Bundle{}, ArtifactMetadata{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		latest, ok := s.versions[name]
		if !ok {
			return Bundle{}, ArtifactMetadata{}, fmt.Errorf("%w: no versions of %q in %s", ErrArtifactNotFound, name, s.baseDir)
		}
		version = latest
	}

	b, meta, err := readArtifactFile(s.artifactPath(name, version))
	if errors.Is(err, os.ErrNotExist) {
		return Bundle{}, ArtifactMetadata{}, fmt.Errorf("%w: %s v%d", ErrArtifactNotFound, name, version)
	}
	return b, meta, err
}

// LatestVersion returns the newest version of name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[name]
	return v, ok
}

// List returns metadata for every artifact in the store, ordered by name
// then newest version first. Unreadable files are skipped.
func (s *Store) List(ctx context.Context) ([]ArtifactMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	slices.Sort(names)

	var out []ArtifactMetadata
	for _, name := range names {
		versions, err := s.versionsOf(name)
		if err != nil {
			return nil, err
		}
		for _, v := range versions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			meta, err := readArtifactMetadata(s.artifactPath(name, v))
			if err != nil {
				continue
			}
			out = append(out, meta)
		}
	}
	return out, nil
}

// Prune removes old versions of name, keeping the newest keep versions.
// It returns the number of files removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.versionsOf(name)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := keep; i < len(versions); i++ {
		if err := os.Remove(s.artifactPath(name, versions[i])); err != nil {
			return removed, fmt.Errorf("remove %s v%d: %w", name, versions[i], err)
		}
		removed++
	}
	return removed, nil
}

func decodeStoredFile(path string) (storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return storedFile{}, fmt.Errorf("open catalog artifact: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return storedFile{}, fmt.Errorf("read catalog artifact %s: %w", path, err)
	}
	return sf, nil
}

func readArtifactMetadata(path string) (ArtifactMetadata, error) {
	sf, err := decodeStoredFile(path)
	if err != nil {
		return ArtifactMetadata{}, err
	}
	return sf.Metadata, nil
}

// readArtifactFile decodes a single .gob.gz artifact and verifies its
// checksum.
func readArtifactFile(path string) (Bundle, ArtifactMetadata, error) {
	sf, err := decodeStoredFile(path)
	if err != nil {
		return Bundle{}, ArtifactMetadata{}, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return Bundle{}, ArtifactMetadata{}, fmt.Errorf("decompress catalog: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // in-memory reader

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return Bundle{}, ArtifactMetadata{}, fmt.Errorf("read decompressed catalog: %w", err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != sf.Metadata.Checksum {
		return Bundle{}, ArtifactMetadata{}, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, got)
	}

	var b Bundle
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&b); err != nil {
		return Bundle{}, ArtifactMetadata{}, fmt.Errorf("decode catalog: %w", err)
	}
	return b, sf.Metadata, nil
}
