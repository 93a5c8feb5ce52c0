// Package cache stores compiled render modules between runs, keyed by a
// content hash of their inputs. Watch mode consults it before
// recompiling, so a file event that leaves the content unchanged skips
// straight to the previous output.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Cache is a size-bounded artifact store backed by one directory. Keys
// are content hashes, so an existing entry never goes stale; entries
// only leave through LRU eviction or Clear.
type Cache struct {
	mu      sync.Mutex
	dir     string
	maxSize int64
	index   *index

	size      int64
	hits      int64
	misses    int64
	evictions int64
}

type index struct {
	Version string            `json:"version"`
	Entries map[string]*entry `json:"entries"`
	Updated time.Time         `json:"updated"`
}

type entry struct {
	Key        string    `json:"key"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	Created    time.Time `json:"created"`
	LastAccess time.Time `json:"last_access"`
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int
	Size      int64
}

// Config holds cache configuration.
type Config struct {
	// Dir is the cache directory. Empty selects the default under the
	// user cache dir.
	Dir string
	// MaxSize bounds the total artifact bytes. Zero or negative means
	// unbounded.
	MaxSize int64
}

// DefaultConfig returns the per-user default location with a 256 MB
// bound.
func DefaultConfig() Config {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return Config{
		Dir:     filepath.Join(base, "vex"),
		MaxSize: 256 << 20,
	}
}

// New opens or creates the cache at cfg.Dir. A missing or corrupted
// index starts fresh; existing artifacts are simply forgotten.
func New(cfg Config) (*Cache, error) {
	if cfg.Dir == "" {
		def := DefaultConfig()
		cfg.Dir = def.Dir
		if cfg.MaxSize == 0 {
			cfg.MaxSize = def.MaxSize
		}
	}
	if err := os.MkdirAll(filepath.Join(cfg.Dir, "artifacts"), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	c := &Cache{
		dir:     cfg.Dir,
		maxSize: cfg.MaxSize,
		index: &index{
			Version: "1",
			Entries: make(map[string]*entry),
		},
	}
	c.loadIndex()
	return c, nil
}

// Key hashes the given parts into a cache key. Parts are separated in
// the hash input, so shifting bytes between adjacent parts changes the
// key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the artifact stored under key. A missing backing file
// drops the entry and counts as a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	e, ok := c.index.Entries[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return nil, false
	}
	path := e.Path
	c.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		c.mu.Lock()
		c.removeLocked(key)
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	if e, ok := c.index.Entries[key]; ok {
		e.LastAccess = time.Now()
	}
	c.hits++
	c.mu.Unlock()
	return data, true
}

// Put stores data under key, evicting least-recently-used entries when
// the size bound would be exceeded. Storing an existing key is a no-op.
func (c *Cache) Put(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index.Entries[key]; ok {
		return nil
	}

	size := int64(len(data))
	if c.maxSize > 0 {
		for c.size+size > c.maxSize && len(c.index.Entries) > 0 {
			c.evictOldestLocked()
		}
	}

	path := filepath.Join(c.dir, "artifacts", artifactName(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache artifact: %w", err)
	}

	now := time.Now()
	c.index.Entries[key] = &entry{
		Key:        key,
		Path:       path,
		Size:       size,
		Created:    now,
		LastAccess: now,
	}
	c.size += size
	return c.saveIndexLocked()
}

// Clear removes every artifact and resets the index.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(c.dir, "artifacts")); err != nil {
		return fmt.Errorf("clear cache artifacts: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(c.dir, "artifacts"), 0o755); err != nil {
		return fmt.Errorf("recreate artifacts directory: %w", err)
	}
	c.index.Entries = make(map[string]*entry)
	c.size = 0
	return c.saveIndexLocked()
}

// Stats returns a snapshot of activity since New.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Entries:   len(c.index.Entries),
		Size:      c.size,
	}
}

// Close persists the index, including access times updated by Get.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveIndexLocked()
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.index.Entries {
		if oldestKey == "" || e.LastAccess.Before(oldest) {
			oldestKey = key
			oldest = e.LastAccess
		}
	}
	if oldestKey != "" {
		c.removeLocked(oldestKey)
		c.evictions++
	}
}

func (c *Cache) removeLocked(key string) {
	e, ok := c.index.Entries[key]
	if !ok {
		return
	}
	if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: remove cache artifact %s: %v\n", e.Path, err)
	}
	delete(c.index.Entries, key)
	c.size -= e.Size
}

func (c *Cache) loadIndex() {
	data, err := os.ReadFile(filepath.Join(c.dir, "index.json"))
	if err != nil {
		return
	}
	var idx index
	if err := json.Unmarshal(data, &idx); err != nil || idx.Entries == nil {
		return
	}
	c.index = &idx
	for _, e := range idx.Entries {
		c.size += e.Size
	}
}

func (c *Cache) saveIndexLocked() error {
	c.index.Updated = time.Now()
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, "index.json"), data, 0o644)
}

// artifactName keeps file names filesystem-safe even for keys that did
// not come from Key.
func artifactName(key string) string {
	if len(key) == sha256.Size*2 && isHex(key) {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
