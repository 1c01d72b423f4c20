// Package diskcache implements the content-addressed on-disk store (C12):
// a single flat directory of `dir/{key}` files, fronted by an in-process
// LRU so repeat lookups of hot keys avoid a disk read, per spec §4.11.
package diskcache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidKey is returned when a key fails validation (§4.11): empty,
// containing a path separator or `..`, or any character outside
// alphanumeric/hyphen/underscore.
var ErrInvalidKey = errors.New("diskcache: invalid key")

// Cache is a content-addressed on-disk store keyed by opaque strings
// (in practice, hex-encoded SHA-256 digests). All reads go through an
// LRU front; writes update both the front and the disk.
type Cache struct {
	dir   string
	front *lru.Cache[string, []byte]
}

// Option configures a Cache at construction time.
type Option func(*config)

type config struct {
	frontSize int
}

// WithFrontSize sets the in-process LRU's entry capacity. Default 256.
func WithFrontSize(n int) Option {
	return func(c *config) { c.frontSize = n }
}

// New creates a cache rooted at dir, creating the directory if absent.
func New(dir string, opts ...Option) (*Cache, error) {
	cfg := config{frontSize: 256}
	for _, o := range opts {
		o(&cfg)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	front, err := lru.New[string, []byte](cfg.frontSize)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, front: front}, nil
}

// validateKey rejects anything that could escape the cache directory or
// collide with reserved filenames, per §4.11's key validation rule.
func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	for _, r := range key {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return ErrInvalidKey
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key)
}

// GetBytes returns the payload stored under key, or (nil, false) if
// absent. A missing file is not an error, per §4.11.
func (c *Cache) GetBytes(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	if data, ok := c.front.Get(key); ok {
		return data, true, nil
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	c.front.Add(key, data)
	return data, true, nil
}

// SetBytes atomically writes data under key (temp file + rename, so a
// concurrent reader never observes a partially written file) and
// populates the LRU front.
func (c *Cache) SetBytes(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	c.front.Add(key, data)
	return nil
}

// Has reports whether key exists on disk, checking the LRU front first.
func (c *Cache) Has(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	if c.front.Contains(key) {
		return true, nil
	}
	_, err := os.Stat(c.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Remove deletes key from disk and the LRU front. A missing file is
// success, per §4.11.
func (c *Cache) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.front.Remove(key)
	err := os.Remove(c.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every entry from disk and the LRU front.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	c.front.Purge()
	return nil
}
