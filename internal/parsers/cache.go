package parsers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/maypok86/otter"
	"github.com/mvp-joe/extract-method/internal/jsast"
)

// Cache memoizes parsed trees by path and content hash. Trees handed out are
// shared and must be treated as read-only. A Cache belongs to one run; there
// is no process-wide instance.
type Cache struct {
	trees otter.Cache[string, *jsast.Program]
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// NewCache creates a cache holding at most capacity trees.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	trees, err := otter.MustBuilder[string, *jsast.Program](capacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build tree cache: %w", err)
	}
	return &Cache{trees: trees}, nil
}

// Load reads path and returns its tree, parsing only when this exact content
// has not been seen before.
func (c *Cache) Load(ctx context.Context, path string) (*jsast.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.Parse(ctx, path, source)
}

// Parse is Parse with memoization.
func (c *Cache) Parse(ctx context.Context, path string, source []byte) (*jsast.Program, error) {
	key := cacheKey(path, source)
	if tree, ok := c.trees.Get(key); ok {
		return tree, nil
	}

	tree, err := Parse(ctx, path, source)
	if err != nil {
		return nil, err
	}
	c.trees.Set(key, tree)
	return tree, nil
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() CacheStats {
	s := c.trees.Stats()
	return CacheStats{Hits: s.Hits(), Misses: s.Misses()}
}

// Close releases the cache.
func (c *Cache) Close() {
	c.trees.Close()
}

// Digest fingerprints source; trees from Parse carry it as Program.Digest.
func Digest(source []byte) [32]byte {
	return sha256.Sum256(source)
}

func cacheKey(path string, source []byte) string {
	sum := Digest(source)
	return path + "@" + hex.EncodeToString(sum[:])
}

// FileLoader parses files without caching.
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, path string) (*jsast.Program, error) {
	return ParseFile(ctx, path)
}
