// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

/*
Package config provides centralized configuration management for SiteForge
services.

Configuration is loaded with Koanf v2 from three layered sources, each
overriding the previous one:

 1. Built-in defaults
 2. Optional YAML config file (config.yaml, or CONFIG_PATH)
 3. Environment variables

# Configuration Structure

The package organizes configuration into logical groups:

  - ServerConfig: HTTP server settings (host, port, timeouts)
  - APIConfig: Rate limiting and CORS
  - CatalogConfig: Template catalog file location
  - recommend.Config: Scoring weights, blend, result cache
  - EmbeddingConfig: OpenAI-compatible embedding provider and vector snapshot
  - services.WarmupConfig: Background warmup intervals
  - LoggingConfig: Log level and output format

# Environment Variables

Commonly used variables:

	HTTP_HOST          - Bind address (default: 0.0.0.0)
	HTTP_PORT          - Listen port (default: 8086)
	CATALOG_PATH       - Template catalog JSON file (default: data/templates.json)
	EMBEDDING_ENABLED  - Enable the embedding provider (default: false)
	EMBEDDING_API_KEY  - API key for the embedding endpoint
	LOG_LEVEL          - trace, debug, info, warn, error (default: info)
	LOG_FORMAT         - json or console (default: json)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Cannot load configuration")
	}
	logging.Init(cfg.Logging.ToLogging())

Config is immutable after Load() and safe for concurrent reads.
*/
package config
