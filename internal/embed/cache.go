package embed

import (
	"context"
	"sync"
)

// defaultCacheSize bounds the per-process vector cache.
const defaultCacheSize = 512

// cachingEmbedder wraps an Embedder with a fixed-capacity memoization
// cache keyed by text, evicting the oldest written entry at capacity.
// Sentences repeat across fields of the same document, so this keeps one
// network call per distinct sentence.
type cachingEmbedder struct {
	inner Embedder

	mu      sync.Mutex
	entries map[string][]float32
	order   []string // oldest first
	maxSize int
}

// WithCache wraps an embedder with a bounded memoization cache.
// size <= 0 selects the default capacity.
func WithCache(inner Embedder, size int) Embedder {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &cachingEmbedder{
		inner:   inner,
		entries: make(map[string][]float32),
		maxSize: size,
	}
}

func (c *cachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	if vec, ok := c.entries[text]; ok {
		c.mu.Unlock()
		return vec, nil
	}
	c.mu.Unlock()

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[text]; !ok {
		if len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			delete(c.entries, oldest)
			c.order = c.order[1:]
		}
		c.entries[text] = vec
		c.order = append(c.order, text)
	}
	return vec, nil
}

func (c *cachingEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}
