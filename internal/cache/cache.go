// Package cache persists extraction results between runs, keyed by file
// path and validated by a content fingerprint. A fingerprint mismatch is a
// miss, never an error, so a stale cache silently re-measures.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Freedom18946/audioquality/internal/metrics"
	"github.com/Freedom18946/audioquality/internal/safeio"
)

// Format version. Bumping it invalidates every existing cache file.
const Version = 1

// Fingerprint identifies one on-disk state of a file. All three components
// must match for a cache hit.
type Fingerprint struct {
	MtimeUnixSecs int64  `json:"mtimeUnixSecs"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	ContentSHA256 string `json:"contentSha256"`
}

type entry struct {
	Fingerprint Fingerprint     `json:"fingerprint"`
	Record      *metrics.Record `json:"record"`
}

// Cache maps normalized file paths to fingerprinted extraction records.
// Not safe for concurrent mutation; the batch runner serializes access.
type Cache struct {
	Version int              `json:"version"`
	Entries map[string]entry `json:"entries"`
}

// New returns an empty cache at the current format version.
func New() *Cache {
	return &Cache{Version: Version, Entries: make(map[string]entry)}
}

// Load reads a cache file. A missing file or a version mismatch yields a
// fresh empty cache; only unreadable or malformed content is an error.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse cache %s: %w", path, err)
	}
	if c.Version != Version {
		return New(), nil
	}
	if c.Entries == nil {
		c.Entries = make(map[string]entry)
	}
	return &c, nil
}

// Save writes the cache atomically. Safe mode refuses a symlinked
// destination.
func (c *Cache) Save(path string, safeMode bool) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	return safeio.WriteFileAtomic(path, data, safeMode)
}

// Lookup returns the cached record for path when its fingerprint still
// matches. The returned record is a copy marked as a cache hit.
func (c *Cache) Lookup(path string, fp Fingerprint) (*metrics.Record, bool) {
	e, ok := c.Entries[cacheKey(path)]
	if !ok || e.Record == nil {
		return nil, false
	}
	if e.Fingerprint != fp {
		return nil, false
	}
	rec := *e.Record
	rec.CacheHit = true
	return &rec, true
}

// Upsert stores or replaces the record for path under its fingerprint.
func (c *Cache) Upsert(path string, fp Fingerprint, rec *metrics.Record) {
	c.Entries[cacheKey(path)] = entry{Fingerprint: fp, Record: rec}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int { return len(c.Entries) }

// FingerprintFile computes the fingerprint of a file, hashing its full
// content with SHA-256.
func FingerprintFile(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s for hashing: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Fingerprint{}, fmt.Errorf("hash %s: %w", path, err)
	}

	return Fingerprint{
		MtimeUnixSecs: info.ModTime().Unix(),
		FileSizeBytes: info.Size(),
		ContentSHA256: fmt.Sprintf("%x", h.Sum(nil)),
	}, nil
}

// cacheKey normalizes a path so the same file found via different relative
// spellings shares one entry.
func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
