package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raphi011/orgit/internal/storage"
)

// DefaultMaxAge is the age after which a cached response is ignored.
const DefaultMaxAge = 24 * time.Hour

const (
	fileName = "http-cache.json"
	lockName = "http-cache.lock"
)

// Entry is one cached response body.
type Entry struct {
	Data     json.RawMessage `json:"data"`
	CachedAt time.Time       `json:"cached_at"`
}

// IsStale reports whether the entry is older than maxAge.
// A zero CachedAt is always stale.
func (e *Entry) IsStale(now time.Time, maxAge time.Duration) bool {
	if e.CachedAt.IsZero() {
		return true
	}
	return now.Sub(e.CachedAt) > maxAge
}

type contents struct {
	Entries map[string]*Entry `json:"entries"`
}

// Store is a file-backed cache of JSON documents keyed by request.
// Every read and write holds an exclusive lock on the lock file, so several
// orgit processes can share one cache directory.
type Store struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// Open returns a Store in dir, creating the directory if needed.
// A non-positive maxAge means DefaultMaxAge.
func Open(dir string, maxAge time.Duration) (*Store, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

// Path returns the path of the cache file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, lockName)
}

// load reads the cache file. A missing or corrupted file is an empty cache.
func (s *Store) load() *contents {
	var c contents
	if err := storage.LoadJSON(s.Path(), &c); err != nil || c.Entries == nil {
		return &contents{Entries: make(map[string]*Entry)}
	}
	return &c
}

// Get returns the data cached under key if it is present and fresh.
func (s *Store) Get(key string) ([]byte, bool) {
	var (
		data []byte
		ok   bool
	)
	_ = withLock(s.lockPath(), func() error {
		e, found := s.load().Entries[key]
		if !found || e.IsStale(s.now(), s.maxAge) {
			return nil
		}
		// The file is indented; hand back the compact document.
		var buf bytes.Buffer
		if err := json.Compact(&buf, e.Data); err != nil {
			return nil
		}
		data, ok = buf.Bytes(), true
		return nil
	})
	return data, ok
}

// Set stores data under key. data must be valid JSON.
func (s *Store) Set(key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("cache entry %q is not valid JSON", key)
	}
	return withLock(s.lockPath(), func() error {
		c := s.load()
		c.Entries[key] = &Entry{Data: json.RawMessage(data), CachedAt: s.now()}
		s.prune(c)
		if err := storage.SaveJSON(s.Path(), c); err != nil {
			return fmt.Errorf("failed to save cache: %w", err)
		}
		return nil
	})
}

// prune drops entries that are stale.
func (s *Store) prune(c *contents) {
	now := s.now()
	for k, e := range c.Entries {
		if e.IsStale(now, s.maxAge) {
			delete(c.Entries, k)
		}
	}
}

// Clear removes all cached entries.
func (s *Store) Clear() error {
	return withLock(s.lockPath(), func() error {
		if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		return nil
	})
}

// Stats counts the fresh and stale entries of the cache file.
// A missing file has no entries. A file that cannot be decoded is an error.
func (s *Store) Stats() (fresh, stale int, err error) {
	err = withLock(s.lockPath(), func() error {
		var c contents
		if err := storage.LoadJSON(s.Path(), &c); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("corrupted cache file: %w", err)
		}
		now := s.now()
		for _, e := range c.Entries {
			if e.IsStale(now, s.maxAge) {
				stale++
			} else {
				fresh++
			}
		}
		return nil
	})
	return fresh, stale, err
}
