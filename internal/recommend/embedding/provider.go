// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"

	"github.com/siteforge-io/siteforge/internal/recommend"
)

// OpenAIConfig configures the OpenAI-compatible embedding provider.
type OpenAIConfig struct {
	// APIKey authenticates against the embedding endpoint.
	APIKey string `json:"-" koanf:"api_key"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	// Empty means the official OpenAI endpoint.
	BaseURL string `json:"base_url" koanf:"base_url"`

	// Model is the embedding model identifier. It doubles as the model
	// version tag on cached vectors.
	Model string `json:"model" koanf:"model"`

	// BreakerThreshold is the consecutive-failure count that opens the
	// circuit.
	BreakerThreshold uint32 `json:"breaker_threshold" koanf:"breaker_threshold"`

	// BreakerCooldown is how long the circuit stays open before probing.
	BreakerCooldown time.Duration `json:"breaker_cooldown" koanf:"breaker_cooldown"`
}

// DefaultOpenAIConfig returns provider defaults.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:            string(openai.SmallEmbedding3),
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// OpenAIProvider embeds text through an OpenAI-compatible API. All calls
// go through a circuit breaker: once the upstream fails repeatedly, the
// breaker opens and requests fail immediately, letting the engine degrade
// to the fallback model instead of stacking up slow network errors.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker[[]float32]
	logger  zerolog.Logger
}

// NewOpenAIProvider creates the provider.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewOpenAIProvider(cfg OpenAIConfig, logger zerolog.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	log := logger.With().Str("component", "embedding").Logger()

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = DefaultOpenAIConfig().BreakerThreshold
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = DefaultOpenAIConfig().BreakerCooldown
	}

	breaker := gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:        "embedding",
		MaxRequests: 3,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Embedding circuit breaker state changed")
		},
	})

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		breaker: breaker,
		logger:  log,
	}, nil
}

// Embed returns the embedding vector for the given text. All failures,
// including an open breaker, wrap recommend.ErrEmbeddingUnavailable.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.breaker.Execute(func() ([]float32, error) {
		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.model),
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding response")
		}
		return resp.Data[0].Embedding, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrEmbeddingUnavailable, err)
	}
	return vec, nil
}

// ModelVersion returns the model identifier tagged onto cached vectors.
func (p *OpenAIProvider) ModelVersion() string {
	return p.model
}

// Enabled reports whether the provider can serve requests.
func (p *OpenAIProvider) Enabled() bool {
	return true
}

// Disabled is the no-op provider used when embeddings are turned off.
// The engine sees Enabled() == false and routes straight to the fallback.
type Disabled struct{}

// NewDisabled creates the disabled provider.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Embed always fails with ErrEmbeddingUnavailable.
func (d *Disabled) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, recommend.ErrEmbeddingUnavailable
}

// ModelVersion returns an empty version.
func (d *Disabled) ModelVersion() string {
	return ""
}

// Enabled reports false.
func (d *Disabled) Enabled() bool {
	return false
}
