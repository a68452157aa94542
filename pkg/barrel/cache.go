package barrel

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/albertocavalcante/barrelle/pkg/extract"
)

// DefaultCacheSize bounds the export cache when no size is configured.
const DefaultCacheSize = 100

type cacheEntry struct {
	exports     []extract.Record
	mtimeMillis int64
}

// Cache memoizes export extraction per absolute file path, keyed by the
// file's modification time. Any mtime change invalidates that entry
// completely. The cache is bounded: once full, the oldest-inserted key is
// evicted. Scoped to one generator run; safe for concurrent use.
type Cache struct {
	extractor *extract.Extractor
	maxSize   int

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
}

// NewCache creates a cache over the given extractor. maxSize <= 0 selects
// DefaultCacheSize.
func NewCache(extractor *extract.Extractor, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		extractor: extractor,
		maxSize:   maxSize,
		entries:   make(map[string]cacheEntry),
	}
}

// Exports returns the exports of the file at path, reading and extracting
// only when the cached entry is missing or stale.
func (c *Cache) Exports(ctx context.Context, path string) ([]extract.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	mtime := info.ModTime().UnixMilli()

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok && entry.mtimeMillis == mtime {
		exports := entry.exports
		c.mu.Unlock()
		return exports, nil
	}
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	exports, err := c.extractor.Extract(ctx, path, string(data))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[path]; !ok {
		c.order = append(c.order, path)
	}
	c.entries[path] = cacheEntry{exports: exports, mtimeMillis: mtime}
	for len(c.entries) > c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return exports, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
