// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package embedding

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Entry is a cached template embedding. The vector is valid only while
// the template's content hash and the provider's model version both
// still match.
type Entry struct {
	// ContentHash is the hash of the template's canonical text at the
	// time the vector was computed.
	ContentHash string

	// ModelVersion identifies the model that produced the vector.
	ModelVersion string

	// Vector is the embedding.
	Vector []float32

	// CreatedAt is when the vector was computed.
	CreatedAt time.Time
}

// Cache is the in-memory vector cache with snapshot persistence, keyed
// by template ID. Safe for concurrent use; the snapshot flush lock is
// separate from the entry lock, so lookups never wait on disk I/O.
type Cache struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	entries map[string]Entry

	// flushMu serializes snapshot writes. It is never held while the
	// entry lock is held, and never spans a provider call.
	flushMu sync.Mutex
}

// NewCache creates an empty cache persisting to the given snapshot path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCache(path string, logger zerolog.Logger) *Cache {
	return &Cache{
		path:    path,
		logger:  logger.With().Str("component", "embedding_cache").Logger(),
		entries: make(map[string]Entry),
	}
}

// Load reads the snapshot from disk. A missing or corrupt snapshot
// degrades to an empty cache and is never fatal; the cause is logged and
// the cache rebuilds through normal misses.
func (c *Cache) Load() int {
	entries, err := readSnapshot(c.path)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", c.path).
			Msg("Embedding snapshot unusable, starting with a cold cache")
		return 0
	}
	if entries == nil {
		return 0
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Info().Int("vectors", len(entries)).Str("path", c.path).
		Msg("Embedding snapshot loaded")
	return len(entries)
}

// Get returns the cached vector for a template if the content hash and
// model version both match. Any mismatch is a miss.
func (c *Cache) Get(templateID, contentHash, modelVersion string) ([]float32, bool) {
	c.mu.RLock()
	entry, ok := c.entries[templateID]
	c.mu.RUnlock()

	if !ok || entry.ContentHash != contentHash || entry.ModelVersion != modelVersion {
		return nil, false
	}
	return entry.Vector, true
}

// Put stores a vector for a template, replacing any previous entry.
func (c *Cache) Put(templateID, contentHash, modelVersion string, vec []float32) {
	c.mu.Lock()
	c.entries[templateID] = Entry{
		ContentHash:  contentHash,
		ModelVersion: modelVersion,
		Vector:       vec,
		CreatedAt:    time.Now(),
	}
	c.mu.Unlock()
}

// Prune drops entries whose template ID is no longer in the catalog.
// Returns the number of entries removed.
func (c *Cache) Prune(validIDs map[string]struct{}) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id := range c.entries {
		if _, ok := validIDs[id]; !ok {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Flush writes a complete snapshot to disk: temp file, fsync, atomic
// rename. Concurrent flushes are serialized; lookups and stores proceed
// while the snapshot is written.
func (c *Cache) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	snapshot := make(map[string]Entry, len(c.entries))
	for id, entry := range c.entries {
		snapshot[id] = entry
	}
	c.mu.RUnlock()

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	if err := writeSnapshot(c.path, snapshot); err != nil {
		return err
	}

	c.logger.Debug().Int("vectors", len(snapshot)).Str("path", c.path).
		Msg("Embedding snapshot flushed")
	return nil
}
