// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package config

import (
	"fmt"
	"time"

	"github.com/siteforge-io/siteforge/internal/logging"
	"github.com/siteforge-io/siteforge/internal/recommend"
	"github.com/siteforge-io/siteforge/internal/recommend/embedding"
	"github.com/siteforge-io/siteforge/internal/recommend/services"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access
// from multiple goroutines.
type Config struct {
	Server    ServerConfig          `koanf:"server"`
	API       APIConfig             `koanf:"api"`
	Catalog   CatalogConfig         `koanf:"catalog"`
	Recommend recommend.Config      `koanf:"recommend"`
	Embedding EmbeddingConfig       `koanf:"embedding"`
	Warmup    services.WarmupConfig `koanf:"warmup"`
	Logging   LoggingConfig         `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 8086
	Port int `koanf:"port"`

	// ReadTimeout bounds reading the full request including the body.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds the graceful drain on shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is the deployment environment: development or production.
	Environment string `koanf:"environment"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds API surface settings.
type APIConfig struct {
	// RateLimitRequests is the allowed requests per window per client IP.
	// Zero disables rate limiting.
	RateLimitRequests int `koanf:"rate_limit_requests"`

	// RateLimitWindow is the rate limit window duration.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins. Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`
}

// CatalogConfig holds template catalog settings.
type CatalogConfig struct {
	// Path is the JSON catalog file the engine recommends from.
	Path string `koanf:"path"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Enabled turns the OpenAI-compatible embedding provider on. When
	// false the engine uses the TF-IDF fallback for semantic scoring.
	Enabled bool `koanf:"enabled"`

	// OpenAI holds provider connection settings.
	OpenAI embedding.OpenAIConfig `koanf:"openai"`

	// CachePath is the on-disk vector snapshot location.
	CachePath string `koanf:"cache_path"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file:line in log output.
	Caller bool `koanf:"caller"`
}

// ToLogging converts to the logging package's Config.
func (l LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if env := c.Server.Environment; env != "development" && env != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", env)
	}

	if c.API.RateLimitRequests < 0 {
		return fmt.Errorf("api.rate_limit_requests must not be negative")
	}
	if c.API.RateLimitRequests > 0 && c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive when rate limiting is enabled")
	}

	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}

	if c.Embedding.Enabled {
		if c.Embedding.OpenAI.APIKey == "" {
			return fmt.Errorf("embedding.openai.api_key is required when embedding is enabled")
		}
		if c.Embedding.OpenAI.Model == "" {
			return fmt.Errorf("embedding.openai.model is required when embedding is enabled")
		}
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return nil
}
