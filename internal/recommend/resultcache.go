// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// resultCache is a TTL cache for complete rankings. Keys include the
// catalog generation, so a reload invalidates prior results implicitly;
// stale generations are evicted lazily and on InvalidateBefore.
type resultCache struct {
	mu         sync.RWMutex
	entries    map[string]resultCacheEntry
	ttl        time.Duration
	maxEntries int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type resultCacheEntry struct {
	response   *Response
	generation uint64
	createdAt  time.Time
	expiresAt  time.Time
}

// CacheStats reports result-cache effectiveness.
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

func newResultCache(cfg ResultCacheConfig) *resultCache {
	return &resultCache{
		entries:    make(map[string]resultCacheEntry),
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
	}
}

// cacheKey derives a deterministic key from the normalized query profile,
// the request shape, and the catalog generation.
func cacheKey(canonical string, k int, minScore float64, generation uint64) string {
	payload, err := json.Marshal(struct {
		Canonical  string  `json:"q"`
		K          int     `json:"k"`
		MinScore   float64 `json:"m"`
		Generation uint64  `json:"g"`
	}{canonical, k, minScore, generation})
	if err != nil {
		// Marshalling a flat struct of scalars cannot fail; keep a
		// degenerate key rather than panic.
		return "invalid"
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// get returns the cached response if present and unexpired.
func (c *resultCache) get(key string) (*Response, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return entry.response, true
}

// put stores a response, evicting expired then oldest entries when full.
func (c *resultCache) put(key string, resp *Response, generation uint64) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}

	c.entries[key] = resultCacheEntry{
		response:   resp,
		generation: generation,
		createdAt:  now,
		expiresAt:  now.Add(c.ttl),
	}
}

// invalidateBefore drops all entries built from catalog generations older
// than the given one. Called after a catalog reload.
func (c *resultCache) invalidateBefore(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.generation < generation {
			delete(c.entries, key)
			c.evictions.Add(1)
		}
	}
}

// invalidateAll drops every entry. Called when the scoring configuration
// changes, since cached rankings embed the weights they were computed with.
func (c *resultCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		delete(c.entries, key)
		c.evictions.Add(1)
	}
}

// evictLocked removes expired entries; if none expired, the oldest entry
// goes. Caller holds the write lock.
func (c *resultCache) evictLocked(now time.Time) {
	var oldestKey string
	var oldestAt time.Time
	removed := false

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			c.evictions.Add(1)
			removed = true
			continue
		}
		if oldestKey == "" || entry.createdAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.createdAt
		}
	}

	if !removed && oldestKey != "" {
		delete(c.entries, oldestKey)
		c.evictions.Add(1)
	}
}

// stats returns a snapshot of cache counters.
func (c *resultCache) stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Entries:   entries,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
