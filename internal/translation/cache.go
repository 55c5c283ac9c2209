package translation

import (
	"context"
	"sync"

	"github.com/djairjr/translate-folder/internal/textutil"
)

// RunCache deduplicates translation calls within a single run. The
// same Chinese text appearing in many spans costs one network call.
// Nothing is persisted: re-running the tool starts from an empty cache,
// and an already-translated tree is a no-op because the script detector
// finds nothing left to send.
type RunCache struct {
	mu     sync.RWMutex
	memory map[string]string // hash of source text -> translated text
}

// NewRunCache creates an empty in-memory cache.
func NewRunCache() *RunCache {
	return &RunCache{memory: make(map[string]string)}
}

// Get retrieves a cached translation for the source text.
func (c *RunCache) Get(sourceText string) (string, bool) {
	hash := textutil.Hash(sourceText)
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.memory[hash]
	return v, ok
}

// Set stores a translation for the source text.
func (c *RunCache) Set(sourceText, translated string) {
	hash := textutil.Hash(sourceText)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory[hash] = translated
}

// Len reports the number of cached entries.
func (c *RunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Cached wraps a Translator with the run cache.
type Cached struct {
	Inner Translator
	Cache *RunCache
}

// Translate consults the cache before delegating to the inner
// translator, and stores successful results.
func (c *Cached) Translate(ctx context.Context, text string) (string, error) {
	if v, ok := c.Cache.Get(text); ok {
		return v, nil
	}
	translated, err := c.Inner.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	c.Cache.Set(text, translated)
	return translated, nil
}
