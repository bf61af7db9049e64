// Package cache holds a per-file cache of search results so that
// repeated sgrep runs over an unchanged tree skip re-lexing and
// re-matching files whose content and mtime haven't moved. Adapted
// from the teacher's internal.Cache, retargeted to store
// []result.Match instead of []tt.Issue.
package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/structgrep/sgrep/internal/result"
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

type entry struct {
	Metadata     fileMetadata
	PatternHash  string
	Matches      []result.Match
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache is a gob-backed, file-hash-keyed cache of search matches. It
// is safe for concurrent use by the worker pool that drives searches
// across many files at once.
type Cache struct {
	dir     string
	entries map[string]entry
	mutex   sync.RWMutex
	maxAge  time.Duration
}

// Open loads (or creates) the cache directory dir and its on-disk gob
// file. maxAge is how long an entry remains valid regardless of
// whether the source file itself changed.
func Open(dir string, maxAge time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:     dir,
		entries: make(map[string]entry),
		maxAge:  maxAge,
	}

	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return c, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, "sgrep_cache.gob")
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Set stores the matches found for filename against patternHash (a
// hash of the pattern source, so a cached entry from a previous
// pattern never leaks into a run with a different pattern).
func (c *Cache) Set(filename, patternHash string, matches []result.Match) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	metadata, err := fileMetadataOf(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.entries[filename] = entry{
		Metadata:     metadata,
		PatternHash:  patternHash,
		Matches:      matches,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	return c.save()
}

// Get returns the cached matches for filename under patternHash, if
// present and still valid.
func (c *Cache) Get(filename, patternHash string) ([]result.Match, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isStale(filename, patternHash, e) {
		delete(c.entries, filename)
		return nil, false
	}

	e.LastAccessed = time.Now()
	c.entries[filename] = e
	return e.Matches, true
}

func (c *Cache) isStale(filename, patternHash string, e entry) bool {
	if e.PatternHash != patternHash {
		return true
	}
	if c.maxAge > 0 && time.Since(e.CreatedAt) > c.maxAge {
		return true
	}
	current, err := fileMetadataOf(filename)
	if err != nil || current != e.Metadata {
		return true
	}
	return false
}

// InvalidateAll clears every entry, in memory and in the on-disk gob
// file.
func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]entry)
	_ = c.save()
}

func fileMetadataOf(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime(),
	}, nil
}

// PatternHash returns a stable digest of pattern source, used as the
// cache partition key so stale matches from a different pattern are
// never returned.
func PatternHash(patternSrc []byte) string {
	return fmt.Sprintf("%x", md5.Sum(patternSrc))
}
