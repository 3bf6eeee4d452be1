// Package cache stores backend responses that change rarely, such as the
// status definitions, so the console starts without waiting on them.
package cache

import (
	"bytes"
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/truckline/dispatchdesk/internal/logger"
	"github.com/truckline/dispatchdesk/pkg/api/interfaces"
)

// Cache is an interfaces.Cache that owns resources.
type Cache interface {
	interfaces.Cache

	// Close releases the underlying storage.
	Close() error
}

// Item is the stored envelope around a cached value.
type Item struct {
	Data      json.RawMessage `json:"data"`
	ExpiresAt time.Time       `json:"expires_at,omitzero"`
}

func (i *Item) expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

func newItem(value interface{}, ttl time.Duration) (*Item, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal cache value: %w", err)
	}

	item := &Item{Data: data}
	if ttl > 0 {
		item.ExpiresAt = time.Now().Add(ttl)
	}

	return item, nil
}

// FileCache is an LRU cache held in memory and optionally mirrored to one
// JSON file per key.
type FileCache struct {
	mu      sync.Mutex
	dir     string
	entries map[string]*list.Element
	lru     *list.List
	maxSize int
	logger  interfaces.Logger
}

type lruEntry struct {
	key  string
	item *Item
}

// NewMemoryCache returns an unbounded cache without persistence.
func NewMemoryCache() *FileCache {
	return NewMemoryCacheWithSize(0)
}

// NewMemoryCacheWithSize returns a cache that evicts the least recently used
// entry beyond maxSize entries. Zero means unbounded.
func NewMemoryCacheWithSize(maxSize int) *FileCache {
	return &FileCache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
		logger:  logger.GetPackageLogger("cache"),
	}
}

// NewFileCache returns a cache persisted under dir. Existing unexpired
// files are loaded.
func NewFileCache(dir string, maxSize int) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	c := NewMemoryCacheWithSize(maxSize)
	c.dir = dir

	if err := c.load(); err != nil {
		c.logger.Warn("Failed to load cache files from %s: %v", dir, err)
	}

	return c, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, url.PathEscape(key)+".json")
}

func (c *FileCache) load() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	now := time.Now()

	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		key, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}

		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			c.logger.Debug("Skipping unreadable cache file %s: %v", name, err)
			continue
		}

		var item Item
		if err := json.Unmarshal(data, &item); err != nil {
			c.logger.Debug("Skipping corrupt cache file %s: %v", name, err)
			continue
		}

		if item.expired(now) {
			_ = os.Remove(filepath.Join(c.dir, name))
			continue
		}

		c.entries[key] = c.lru.PushFront(&lruEntry{key: key, item: &item})
	}

	return nil
}

// Get implements interfaces.Cache.
func (c *FileCache) Get(key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false, nil
	}

	entry := el.Value.(*lruEntry)
	if entry.item.expired(time.Now()) {
		c.removeLocked(el)
		c.logger.Debug("Cache item expired: %s", key)

		return false, nil
	}

	c.lru.MoveToFront(el)

	if err := json.Unmarshal(entry.item.Data, dest); err != nil {
		return false, fmt.Errorf("unmarshal cache value %s: %w", key, err)
	}

	return true, nil
}

// Set implements interfaces.Cache.
func (c *FileCache) Set(key string, value interface{}, ttl time.Duration) error {
	item, err := newItem(value, ttl)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry).item = item
		c.lru.MoveToFront(el)
	} else {
		c.entries[key] = c.lru.PushFront(&lruEntry{key: key, item: item})

		if c.maxSize > 0 && c.lru.Len() > c.maxSize {
			c.removeLocked(c.lru.Back())
		}
	}

	if c.dir == "" {
		return nil
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal cache item: %w", err)
	}

	if err := atomic.WriteFile(c.path(key), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	return nil
}

// removeLocked drops el from memory and disk. c.mu must be held.
func (c *FileCache) removeLocked(el *list.Element) {
	if el == nil {
		return
	}

	entry := el.Value.(*lruEntry)
	c.lru.Remove(el)
	delete(c.entries, entry.key)

	if c.dir != "" {
		if err := os.Remove(c.path(entry.key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.logger.Debug("Failed to remove cache file for %s: %v", entry.key, err)
		}
	}
}

// Delete implements interfaces.Cache.
func (c *FileCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
		return nil
	}

	if c.dir != "" {
		if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}

	return nil
}

// Clear implements interfaces.Cache.
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for el := c.lru.Front(); el != nil; {
		next := el.Next()
		c.removeLocked(el)
		el = next
	}

	return nil
}

// Len returns the number of entries held, expired or not.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

var (
	globalMu    sync.Mutex
	globalCache Cache
)

// InitGlobalCache opens the badger store under cacheDir/badger. If badger
// cannot be opened, for example because another console holds the lock,
// the global cache falls back to a FileCache under cacheDir/files and the
// badger error is returned.
func InitGlobalCache(cacheDir string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCache != nil {
		return nil
	}

	badgerCache, err := NewBadgerCache(filepath.Join(cacheDir, "badger"))
	if err == nil {
		globalCache = badgerCache
		return nil
	}

	log := logger.GetPackageLogger("cache")
	log.Warn("Badger cache unavailable, using file cache: %v", err)

	fileCache, ferr := NewFileCache(filepath.Join(cacheDir, "files"), 256)
	if ferr != nil {
		log.Warn("File cache unavailable, using memory cache: %v", ferr)
		globalCache = NewMemoryCache()

		return errors.Join(err, ferr)
	}

	globalCache = fileCache

	return err
}

// GetGlobalCache returns the shared cache, or a memory cache if
// InitGlobalCache was never called.
func GetGlobalCache() Cache {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCache == nil {
		globalCache = NewMemoryCache()
	}

	return globalCache
}

// CloseGlobalCache closes and forgets the shared cache.
func CloseGlobalCache() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCache == nil {
		return nil
	}

	err := globalCache.Close()
	globalCache = nil

	return err
}
