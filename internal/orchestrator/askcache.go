package orchestrator

import (
	"sync"
	"time"
)

// Default lifetime of an unanswered quality prompt
const DefaultSelectionTTL = time.Hour

// SelectionCache correlates a quality prompt message with the URL that
// triggered it, so the ask interaction can resume as a fresh orchestration
// run. Entries are single-use and expire when the user never answers.
type SelectionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]selectionEntry
	now     func() time.Time
}

type selectionEntry struct {
	url   string
	added time.Time
}

// NewSelectionCache creates a cache whose entries expire after ttl
func NewSelectionCache(ttl time.Duration) *SelectionCache {
	if ttl <= 0 {
		ttl = DefaultSelectionTTL
	}
	return &SelectionCache{
		ttl:     ttl,
		entries: make(map[string]selectionEntry),
		now:     time.Now,
	}
}

// Put parks a URL under the prompt message key
func (c *SelectionCache) Put(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpired()
	c.entries[key] = selectionEntry{url: url, added: c.now()}
}

// Consume removes and returns the URL for key. The second return is false
// when the prompt expired or was already answered.
func (c *SelectionCache) Consume(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpired()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	delete(c.entries, key)
	return entry.url, true
}

// Len returns the number of pending prompts
func (c *SelectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictExpired drops stale prompts. Callers hold the mutex.
func (c *SelectionCache) evictExpired() {
	cutoff := c.now().Add(-c.ttl)
	for key, entry := range c.entries {
		if entry.added.Before(cutoff) {
			delete(c.entries, key)
		}
	}
}
