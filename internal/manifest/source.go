package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrManifestNotFound is returned when the manifest path is empty or missing.
var ErrManifestNotFound = errors.New("manifest file not found")

// Source produces a manifest. Implementations must be safe to call repeatedly.
type Source interface {
	Load(ctx context.Context) (*Manifest, error)
}

// Stamp identifies a revision of a file-backed source.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

// stamper is implemented by sources the cache can revalidate cheaply.
type stamper interface {
	Source
	CacheKey() string
	Stamp() (Stamp, error)
}

// FileSource reads a manifest from disk.
type FileSource struct {
	Path string
}

// Load reads and parses the file.
func (s FileSource) Load(ctx context.Context) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrManifestNotFound)
	}

	// #nosec G304 - path comes from trusted configuration
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, s.Path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseBytes(data, s.Path)
}

// CacheKey returns the absolute path of the file.
func (s FileSource) CacheKey() string {
	if abs, err := filepath.Abs(s.Path); err == nil {
		return abs
	}
	return s.Path
}

// Stamp returns the current modification time and size of the file.
func (s FileSource) Stamp() (Stamp, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Stamp{}, fmt.Errorf("%w: %s", ErrManifestNotFound, s.Path)
		}
		return Stamp{}, err
	}
	return Stamp{ModTime: info.ModTime(), Size: info.Size()}, nil
}

// MemorySource serves a manifest from bytes, typically a test fixture.
type MemorySource struct {
	Data []byte
}

// Load parses the in-memory document.
func (s MemorySource) Load(ctx context.Context) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseBytes(s.Data, "memory")
}

// Cache keeps parsed manifests between rebuilds of a long-running process.
//
// Entries are keyed by source and revalidated by file stamp on every Get,
// so a changed file is always re-read. Sources that cannot be stamped are
// loaded on every call.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	loads   int
}

type cacheEntry struct {
	stamp    Stamp
	manifest *Manifest
}

var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// DefaultCache returns the process-wide cache, creating it on first use.
func DefaultCache() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache()
	})
	return defaultCache
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the manifest for src, loading it when missing or stale.
func (c *Cache) Get(ctx context.Context, src Source) (*Manifest, error) {
	st, ok := src.(stamper)
	if !ok {
		c.mu.Lock()
		c.loads++
		c.mu.Unlock()
		return src.Load(ctx)
	}

	stamp, err := st.Stamp()
	if err != nil {
		c.evict(st.CacheKey())
		return nil, err
	}

	key := st.CacheKey()
	c.mu.Lock()
	entry, hit := c.entries[key]
	c.mu.Unlock()
	if hit && entry.stamp == stamp {
		return entry.manifest, nil
	}

	m, err := src.Load(ctx)
	if err != nil {
		c.evict(key)
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{stamp: stamp, manifest: m}
	c.loads++
	c.mu.Unlock()
	return m, nil
}

func (c *Cache) evict(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Reset drops every cached manifest.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.loads = 0
	c.mu.Unlock()
}

// Len returns the number of cached manifests.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Loads returns how many times a source was actually loaded since the last Reset.
func (c *Cache) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}
