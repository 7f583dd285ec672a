// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

// Package main is the entry point for the SiteForge recommendation server.
//
// The server ranks website templates from a JSON catalog against a
// free-text project description, blending a weighted feature-overlap
// score with semantic similarity from OpenAI embeddings. When embeddings
// are disabled or unreachable it degrades to a TF-IDF fallback model
// trained from the catalog, and finally to rule-only scoring.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Catalog: Load the template catalog JSON into an immutable snapshot
//  3. Engine: Construct the recommendation engine with scorers and caches
//  4. Embedding (optional): OpenAI provider with circuit breaker and vector snapshot cache
//  5. Supervisor tree: Warmup service (engine layer) and HTTP server (API layer)
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (HTTP_PORT, CATALOG_PATH, EMBEDDING_API_KEY, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Embeddings
//
// Semantic scoring through OpenAI is opt-in:
//   - EMBEDDING_ENABLED=true
//   - EMBEDDING_API_KEY: OpenAI API key
//   - EMBEDDING_MODEL: embedding model (default text-embedding-3-small)
//
// Without embeddings the engine still serves: the TF-IDF fallback model
// is trained from the catalog at startup and covers the semantic share
// of the blend.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Flushes the embedding vector snapshot to disk
//
// # Example Usage
//
// Rule-only scoring (no external dependencies):
//
//	export CATALOG_PATH=data/templates.json
//	./siteforge
//
// With OpenAI embeddings:
//
//	export CATALOG_PATH=data/templates.json
//	export EMBEDDING_ENABLED=true
//	export EMBEDDING_API_KEY=sk-...
//	./siteforge
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siteforge-io/siteforge/internal/api"
	"github.com/siteforge-io/siteforge/internal/config"
	"github.com/siteforge-io/siteforge/internal/logging"
	"github.com/siteforge-io/siteforge/internal/metrics"
	"github.com/siteforge-io/siteforge/internal/recommend"
	"github.com/siteforge-io/siteforge/internal/recommend/catalog"
	"github.com/siteforge-io/siteforge/internal/recommend/embedding"
	"github.com/siteforge-io/siteforge/internal/recommend/scoring"
	"github.com/siteforge-io/siteforge/internal/recommend/services"
	"github.com/siteforge-io/siteforge/internal/supervisor"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(cfg.Logging.ToLogging())

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("catalog_path", cfg.Catalog.Path).
		Bool("embedding_enabled", cfg.Embedding.Enabled).
		Msg("Starting SiteForge recommendation server")

	logger := logging.Logger()

	// Load the template catalog. A missing or invalid catalog at startup
	// is fatal: unlike a reload, there is no previous snapshot to keep
	// serving from.
	store := catalog.NewStore(cfg.Catalog.Path, logger)
	loaded, err := store.Load()
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load template catalog")
	}
	logging.Info().
		Int("templates", loaded.Len()).
		Uint64("generation", loaded.Generation()).
		Msg("Template catalog loaded")

	// Fallback model covers the semantic share of the blend whenever the
	// embedding provider can't. The warmup service trains it.
	fallback := scoring.NewTFIDF()

	recommendMetrics := metrics.NewRecommendMetrics()

	engineOpts := []recommend.EngineOption{
		recommend.WithFallback(fallback),
		recommend.WithMetrics(recommendMetrics),
	}

	// Optional OpenAI embedding provider with persistent vector cache.
	var provider recommend.EmbeddingProvider
	var vectors *embedding.Cache
	if cfg.Embedding.Enabled {
		openAIProvider, err := embedding.NewOpenAIProvider(cfg.Embedding.OpenAI, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize embedding provider")
		}
		provider = openAIProvider

		vectors = embedding.NewCache(cfg.Embedding.CachePath, logger)
		restored := vectors.Load()

		engineOpts = append(engineOpts, recommend.WithEmbedding(provider, vectors))
		logging.Info().
			Str("model", cfg.Embedding.OpenAI.Model).
			Int("cached_vectors", restored).
			Msg("OpenAI embedding provider initialized")
	} else {
		provider = embedding.NewDisabled()
		logging.Info().Msg("Embeddings disabled, semantic scoring uses the TF-IDF fallback")
	}

	engine, err := recommend.NewEngine(
		cfg.Recommend,
		store,
		scoring.NewRuleBased(),
		scoring.NewCosine(),
		logger,
		engineOpts...,
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.OnCatalogReload(loaded.Generation())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog so sutureslog can log supervisor events.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Warmup trains the fallback model and precomputes template
	// embeddings so first requests don't pay the cost. Only the enabled
	// provider warms vectors; the store interface is nil without one.
	var vectorStore services.VectorStore
	if vectors != nil {
		vectorStore = vectors
	}
	warmup := services.NewWarmupService(store, provider, vectorStore, fallback, cfg.Warmup, recommendMetrics, logger)
	tree.AddEngineService(warmup)

	// HTTP layer
	handler := api.NewHandler(engine, store, logger)
	middleware := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins:   cfg.API.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,
		RateLimitRequests:    cfg.API.RateLimitRequests,
		RateLimitWindow:      cfg.API.RateLimitWindow,
	})
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Re-rank configuration on config file changes without a restart.
	// Watching is best-effort; a missing config file just means env-only
	// configuration.
	if path := config.ActiveConfigPath(); path != "" {
		watchErr := config.WatchConfigFile(path, func() {
			reloaded, err := config.Load()
			if err != nil {
				logging.Warn().Err(err).Msg("Config reload failed, keeping current configuration")
				return
			}
			if err := engine.UpdateConfig(reloaded.Recommend); err != nil {
				logging.Warn().Err(err).Msg("Rejected reloaded engine configuration")
				return
			}
			logging.Info().Msg("Engine configuration reloaded from config file")
		})
		if watchErr != nil {
			logging.Warn().Err(watchErr).Str("path", path).Msg("Config file watch unavailable")
		}
	}

	// Signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Server stopped gracefully")
}
