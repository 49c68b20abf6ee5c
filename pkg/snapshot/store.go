package snapshot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultStoreSize is the number of decoded snapshots a Store keeps.
const DefaultStoreSize = 64

// Store caches decoded snapshots by absolute path. An entry is reused only
// while the file's size and modification time are unchanged.
type Store struct {
	cache  *lru.Cache[string, storeEntry]
	logger *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type storeEntry struct {
	snap    *Snapshot
	modTime time.Time
	size    int64
}

// StoreStats reports cache effectiveness.
type StoreStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewStore returns a store holding up to size snapshots (DefaultStoreSize
// when size is zero or less).
func NewStore(size int, logger *slog.Logger) (*Store, error) {
	if size <= 0 {
		size = DefaultStoreSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	cache, err := lru.NewWithEvict(size, func(path string, _ storeEntry) {
		s.evictions.Add(1)
		logger.Debug("evicted snapshot", "path", path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Get returns the snapshot at path, decoding it when it is not cached or
// the file changed since it was cached.
func (s *Store) Get(path string) (*Snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		s.cache.Remove(abs)
		return nil, fmt.Errorf("failed to stat snapshot: %w", err)
	}

	if e, ok := s.cache.Get(abs); ok && e.size == stat.Size() && e.modTime.Equal(stat.ModTime()) {
		s.hits.Add(1)
		return e.snap, nil
	}
	s.misses.Add(1)

	start := time.Now()
	snap, err := Load(abs)
	if err != nil {
		s.cache.Remove(abs)
		return nil, err
	}
	s.cache.Add(abs, storeEntry{snap: snap, modTime: stat.ModTime(), size: stat.Size()})
	s.logger.Debug("decoded snapshot",
		"path", abs,
		"nodes", len(snap.Nodes()),
		"ms", time.Since(start).Milliseconds())
	return snap, nil
}

// Invalidate drops path from the cache.
func (s *Store) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		s.cache.Remove(abs)
	}
}

// Len returns the number of cached snapshots.
func (s *Store) Len() int { return s.cache.Len() }

// Stats returns cache counters.
func (s *Store) Stats() StoreStats {
	return StoreStats{
		Entries:   s.cache.Len(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}
