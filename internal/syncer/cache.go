package syncer

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// cacheEntry holds one fetched payload and the tags that can evict it.
type cacheEntry struct {
	payload any
	tags    []Tag
}

// tagCache is the process-local read cache. Entries are created on first
// successful fetch, overwritten on refetch, and removed only by tag
// invalidation (or process teardown - there is no eviction policy).
//
// Concurrent reads of a missing key collapse into one in-flight fetch via
// singleflight; failed fetches are never cached. The generation counter
// bumps on every invalidation: a fetch that was in flight when an
// invalidation landed may carry a pre-sync payload, so it is served to its
// callers but never stored.
type tagCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	gen     uint64
	group   singleflight.Group
}

func newTagCache() *tagCache {
	return &tagCache{entries: make(map[string]cacheEntry)}
}

// getOrFetch returns the cached payload for key, or runs fetch to fill it.
// The tags returned by fetch bind the entry to invalidation groups.
func (c *tagCache) getOrFetch(ctx context.Context, key string, fetch func(context.Context) (any, []Tag, error)) (any, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return entry.payload, nil
	}

	payload, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the group: a concurrent caller may have filled
		// the entry between the miss and the flight starting.
		c.mu.RLock()
		entry, ok := c.entries[key]
		gen := c.gen
		c.mu.RUnlock()
		if ok {
			return entry.payload, nil
		}

		payload, tags, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = cacheEntry{payload: payload, tags: tags}
		}
		c.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// invalidate removes every entry carrying a tag matched by any of the
// given invalidation tags and returns the number of entries dropped.
func (c *tagCache) invalidate(tags ...Tag) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	dropped := 0
	for key, entry := range c.entries {
		if entryMatchesAny(entry.tags, tags) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

func entryMatchesAny(entryTags, invTags []Tag) bool {
	for _, inv := range invTags {
		for _, et := range entryTags {
			if inv.matches(et) {
				return true
			}
		}
	}
	return false
}

// len returns the number of cached entries. Test hook.
func (c *tagCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
