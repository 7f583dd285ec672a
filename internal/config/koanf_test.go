// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8086 {
		t.Errorf("Server.Port = %d, want 8086", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Server.Environment = %q, want development", cfg.Server.Environment)
	}

	if cfg.API.RateLimitRequests != 100 {
		t.Errorf("API.RateLimitRequests = %d, want 100", cfg.API.RateLimitRequests)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "*" {
		t.Errorf("API.CORSOrigins = %v, want [*]", cfg.API.CORSOrigins)
	}

	if cfg.Catalog.Path != "data/templates.json" {
		t.Errorf("Catalog.Path = %q, want data/templates.json", cfg.Catalog.Path)
	}

	// Embedding must be opt-in
	if cfg.Embedding.Enabled {
		t.Error("Embedding.Enabled should be false by default")
	}
	if cfg.Embedding.OpenAI.Model == "" {
		t.Error("Embedding.OpenAI.Model should have a default")
	}

	if cfg.Recommend.DefaultK != 5 {
		t.Errorf("Recommend.DefaultK = %d, want 5", cfg.Recommend.DefaultK)
	}
	if cfg.Recommend.Cache.TTL != time.Hour {
		t.Errorf("Recommend.Cache.TTL = %v, want 1h", cfg.Recommend.Cache.TTL)
	}

	if cfg.Warmup.FlushInterval != 5*time.Minute {
		t.Errorf("Warmup.FlushInterval = %v, want 5m", cfg.Warmup.FlushInterval)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}

	// Defaults must validate
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations.
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Server
		{"HTTP_HOST", "server.host"},
		{"HTTP_PORT", "server.port"},
		{"HTTP_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"ENVIRONMENT", "server.environment"},

		// API
		{"RATE_LIMIT_REQUESTS", "api.rate_limit_requests"},
		{"CORS_ORIGINS", "api.cors_origins"},

		// Catalog
		{"CATALOG_PATH", "catalog.path"},

		// Recommendation engine
		{"RECOMMEND_MIN_SCORE", "recommend.min_score"},
		{"RECOMMEND_DEFAULT_K", "recommend.default_k"},
		{"RECOMMEND_MAX_K", "recommend.max_k"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache.ttl"},
		{"RECOMMEND_RULE_WEIGHT", "recommend.blend.rule"},
		{"RECOMMEND_SEMANTIC_WEIGHT", "recommend.blend.semantic"},

		// Embedding
		{"EMBEDDING_ENABLED", "embedding.enabled"},
		{"EMBEDDING_API_KEY", "embedding.openai.api_key"},
		{"EMBEDDING_BASE_URL", "embedding.openai.base_url"},
		{"EMBEDDING_MODEL", "embedding.openai.model"},
		{"EMBEDDING_CACHE_PATH", "embedding.cache_path"},

		// Warmup
		{"WARMUP_FLUSH_INTERVAL", "warmup.flush_interval"},

		// Logging
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FORMAT", "logging.format"},

		// Unknown keys are skipped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_UNRELATED_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
server:
  port: 9090
catalog:
  path: /tmp/templates.json
recommend:
  default_k: 7
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (from file)", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/tmp/templates.json" {
		t.Errorf("Catalog.Path = %q, want /tmp/templates.json", cfg.Catalog.Path)
	}
	if cfg.Recommend.DefaultK != 7 {
		t.Errorf("Recommend.DefaultK = %d, want 7 (from file)", cfg.Recommend.DefaultK)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug (from file)", cfg.Logging.Level)
	}

	// Untouched values keep defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0", cfg.Server.Host)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 (env wins over file)", cfg.Server.Port)
	}
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.API.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.API.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.API.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.API.CORSOrigins[i], origin)
		}
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HTTP_PORT", "99999")

	if _, err := Load(); err == nil {
		t.Error("Load() must reject an out-of-range port")
	}
}
