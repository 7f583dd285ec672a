// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/siteforge-io/siteforge/internal/metrics"
	"github.com/siteforge-io/siteforge/internal/recommend"
)

// VectorStore is the persistent vector cache the warmup loop maintains.
// Satisfied by *embedding.Cache.
type VectorStore interface {
	recommend.VectorCache

	// Prune drops entries for templates no longer in the catalog.
	Prune(validIDs map[string]struct{}) int

	// Flush writes the snapshot to disk atomically.
	Flush(ctx context.Context) error

	// Len returns the number of cached vectors.
	Len() int
}

// WarmupConfig holds configuration for the warmup service.
type WarmupConfig struct {
	// FlushInterval is how often the vector cache snapshot is rewritten.
	FlushInterval time.Duration `json:"flush_interval" koanf:"flush_interval"`

	// EmbedTimeout bounds a single template embedding call during warmup.
	EmbedTimeout time.Duration `json:"embed_timeout" koanf:"embed_timeout"`
}

// DefaultWarmupConfig returns warmup defaults.
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		FlushInterval: 5 * time.Minute,
		EmbedTimeout:  30 * time.Second,
	}
}

// WarmupService prepares the semantic scoring paths in the background so
// first requests don't pay the cost: it trains the fallback model from
// the catalog, precomputes missing template embeddings, prunes vectors
// for removed templates, and flushes the snapshot periodically. When the
// catalog generation changes it re-runs the whole pass.
//
// Warmup is best-effort. The engine serves correct (possibly degraded)
// rankings whether or not a pass has completed.
type WarmupService struct {
	catalog  recommend.CatalogSource
	provider recommend.EmbeddingProvider
	vectors  VectorStore
	fallback recommend.FallbackModel
	config   WarmupConfig
	metrics  *metrics.RecommendMetrics
	logger   zerolog.Logger
	name     string

	lastGeneration uint64
}

// NewWarmupService creates the warmup service. Provider, vectors, and
// fallback may each be nil; the service skips the corresponding work.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWarmupService(
	catalog recommend.CatalogSource,
	provider recommend.EmbeddingProvider,
	vectors VectorStore,
	fallback recommend.FallbackModel,
	cfg WarmupConfig,
	m *metrics.RecommendMetrics,
	logger zerolog.Logger,
) *WarmupService {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultWarmupConfig().FlushInterval
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = DefaultWarmupConfig().EmbedTimeout
	}
	return &WarmupService{
		catalog:  catalog,
		provider: provider,
		vectors:  vectors,
		fallback: fallback,
		config:   cfg,
		metrics:  m,
		logger:   logger.With().Str("service", "warmup").Logger(),
		name:     "recommend-warmup",
	}
}

// Serve implements the suture.Service interface. It runs an initial
// warmup pass, then re-flushes on a timer and re-warms whenever the
// catalog generation changes.
func (s *WarmupService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("flush_interval", s.config.FlushInterval).
		Msg("Warmup service starting")

	s.pass(ctx)

	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final flush so vectors computed since the last tick
			// survive the restart.
			s.flush(context.Background())
			s.logger.Info().Msg("Warmup service shutting down")
			return ctx.Err()

		case <-ticker.C:
			catalog := s.catalog.Snapshot()
			if catalog != nil && catalog.Generation() != s.lastGeneration {
				s.pass(ctx)
				continue
			}
			s.flush(ctx)
		}
	}
}

// pass runs one full warmup cycle against the current catalog snapshot.
func (s *WarmupService) pass(ctx context.Context) {
	catalog := s.catalog.Snapshot()
	if catalog == nil || catalog.Len() == 0 {
		s.logger.Warn().Msg("Warmup skipped, catalog not ready")
		return
	}
	s.lastGeneration = catalog.Generation()

	start := time.Now()

	if s.fallback != nil {
		if err := s.fallback.Train(ctx, catalog.All()); err != nil {
			s.logger.Warn().Err(err).Msg("Fallback model training failed")
		} else {
			s.logger.Info().Int("templates", catalog.Len()).Msg("Fallback model trained")
		}
	}

	if s.vectors != nil {
		if s.provider != nil && s.provider.Enabled() {
			s.precompute(ctx, catalog)
		}
		if removed := s.vectors.Prune(catalog.IDs()); removed > 0 {
			s.logger.Info().Int("removed", removed).Msg("Pruned vectors for removed templates")
		}
		s.flush(ctx)
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Uint64("generation", s.lastGeneration).
		Msg("Warmup pass complete")
}

// precompute embeds every template whose vector is missing or stale.
// Provider failures stop the pass early; the breaker is already open and
// per-request embedding will retry later.
func (s *WarmupService) precompute(ctx context.Context, catalog *recommend.Catalog) {
	version := s.provider.ModelVersion()
	computed := 0

	for _, t := range catalog.All() {
		if ctx.Err() != nil {
			return
		}

		hash := recommend.ContentHash(t)
		if _, ok := s.vectors.Get(t.ID, hash, version); ok {
			continue
		}

		embedCtx, cancel := context.WithTimeout(ctx, s.config.EmbedTimeout)
		vec, err := s.provider.Embed(embedCtx, recommend.ProfileTemplate(t).Canonical)
		cancel()
		if err != nil {
			s.metrics.EmbeddingRequest("error")
			s.logger.Warn().Err(err).Str("template_id", t.ID).
				Msg("Warmup embedding failed, stopping precompute pass")
			return
		}
		s.metrics.EmbeddingRequest("ok")
		s.vectors.Put(t.ID, hash, version, vec)
		computed++
	}

	if computed > 0 {
		s.logger.Info().
			Int("computed", computed).
			Int("cached", s.vectors.Len()).
			Msg("Template embeddings precomputed")
	}
}

func (s *WarmupService) flush(ctx context.Context) {
	if s.vectors == nil {
		return
	}
	if err := s.vectors.Flush(ctx); err != nil {
		s.metrics.EmbeddingFlush("error")
		s.logger.Warn().Err(err).Msg("Vector snapshot flush failed")
		return
	}
	s.metrics.EmbeddingFlush("ok")
}

// String returns the service name for logging.
func (s *WarmupService) String() string {
	return s.name
}
