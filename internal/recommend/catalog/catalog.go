// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package catalog

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/siteforge-io/siteforge/internal/metrics"
	"github.com/siteforge-io/siteforge/internal/recommend"
)

// catalogFile is the on-disk catalog shape.
type catalogFile struct {
	Templates []recommend.Template `json:"templates"`
}

// Store holds the active catalog snapshot. Reload builds a complete new
// snapshot before swapping it in, so concurrent readers never observe a
// partially loaded catalog. A failed reload keeps the previous snapshot.
type Store struct {
	path   string
	logger zerolog.Logger

	current    atomic.Pointer[recommend.Catalog]
	generation atomic.Uint64
	reloadMu   sync.Mutex
}

// NewStore creates a catalog store reading from the given JSON file.
// No catalog is loaded until Load is called.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Load reads, parses, and validates the catalog file, then swaps the new
// snapshot in under a fresh generation. Safe to call concurrently;
// reloads are serialized.
func (s *Store) Load() (*recommend.Catalog, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, &recommend.LoadError{Path: s.path, Reason: "cannot read catalog file", Err: err}
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, &recommend.LoadError{Path: s.path, Reason: "malformed catalog JSON", Err: err}
	}

	if err := validateTemplates(file.Templates); err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, err
	}

	generation := s.generation.Add(1)
	catalog, err := recommend.NewCatalog(file.Templates, generation)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		return nil, err
	}

	s.current.Store(catalog)
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.CatalogTemplates.Set(float64(catalog.Len()))

	s.logger.Info().
		Int("templates", catalog.Len()).
		Uint64("generation", generation).
		Str("path", s.path).
		Msg("Catalog loaded")

	return catalog, nil
}

// Snapshot returns the current catalog, or nil before the first
// successful Load.
func (s *Store) Snapshot() *recommend.Catalog {
	return s.current.Load()
}

// validateTemplates rejects structurally invalid templates before a
// snapshot is built. Duplicate and empty IDs are checked by NewCatalog.
func validateTemplates(templates []recommend.Template) error {
	if len(templates) == 0 {
		return &recommend.LoadError{Reason: "catalog contains no templates"}
	}
	for i, t := range templates {
		if t.Name == "" {
			return &recommend.LoadError{
				Reason: fmt.Sprintf("template %q at position %d has no name", t.ID, i),
			}
		}
	}
	return nil
}
