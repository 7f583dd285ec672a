// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Rule defines the sub-score weights for the rule-based scorer.
	// Weights are re-normalized at runtime, so they don't need to sum to 1.0.
	Rule RuleWeights `json:"rule" koanf:"rule"`

	// Blend defines the relative contribution of the rule-based and
	// semantic scores to the combined score.
	Blend BlendWeights `json:"blend" koanf:"blend"`

	// MinScore is the default combined-score threshold; results below it
	// are dropped. Requests may override it.
	MinScore float64 `json:"min_score" koanf:"min_score"`

	// DefaultK is the number of recommendations returned when a request
	// does not specify one.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK caps the number of recommendations a single request may ask for.
	MaxK int `json:"max_k" koanf:"max_k"`

	// RequestTimeout bounds a single recommendation computation. When it
	// elapses the request fails whole; partial rankings are never returned.
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`

	// Cache contains result-cache parameters.
	Cache ResultCacheConfig `json:"cache" koanf:"cache"`
}

// RuleWeights defines the relative contribution of each rule-based
// sub-score. A zero weight disables its sub-score entirely.
type RuleWeights struct {
	// Industry weights the industry-tag overlap sub-score.
	Industry float64 `json:"industry" koanf:"industry"`

	// Description weights the description keyword-similarity sub-score.
	Description float64 `json:"description" koanf:"description"`

	// Audience weights the target-audience overlap sub-score.
	Audience float64 `json:"audience" koanf:"audience"`

	// SellingPoints weights the selling-point / feature overlap sub-score.
	SellingPoints float64 `json:"selling_points" koanf:"selling_points"`

	// Style weights the style-tag match sub-score.
	Style float64 `json:"style" koanf:"style"`
}

// Sum returns the total of all sub-score weights.
func (w RuleWeights) Sum() float64 {
	return w.Industry + w.Description + w.Audience + w.SellingPoints + w.Style
}

// Normalize returns a copy with weights scaled to sum to 1.0.
// All-zero weights normalize to the defaults rather than NaN.
func (w RuleWeights) Normalize() RuleWeights {
	sum := w.Sum()
	if sum == 0 {
		return DefaultConfig().Rule
	}
	return RuleWeights{
		Industry:      w.Industry / sum,
		Description:   w.Description / sum,
		Audience:      w.Audience / sum,
		SellingPoints: w.SellingPoints / sum,
		Style:         w.Style / sum,
	}
}

// BlendWeights defines how rule-based and semantic scores combine.
// When the semantic side is unavailable for a request, its weight is
// dropped and the blend re-normalizes over the remaining weight.
type BlendWeights struct {
	// Rule is the weight of the rule-based score.
	Rule float64 `json:"rule" koanf:"rule"`

	// Semantic is the weight of the semantic similarity score.
	Semantic float64 `json:"semantic" koanf:"semantic"`
}

// ResultCacheConfig contains result-cache parameters.
type ResultCacheConfig struct {
	// Enabled toggles the result cache.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is how long a cached ranking stays valid.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries bounds cache memory; oldest entries are evicted first.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Rule: RuleWeights{
			Industry:      0.35,
			Description:   0.25,
			Audience:      0.15,
			SellingPoints: 0.15,
			Style:         0.10,
		},
		Blend: BlendWeights{
			Rule:     0.5,
			Semantic: 0.5,
		},
		MinScore:       0.1,
		DefaultK:       5,
		MaxK:           50,
		RequestTimeout: 10 * time.Second,
		Cache: ResultCacheConfig{
			Enabled:    true,
			TTL:        time.Hour,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Rule.Industry < 0 || c.Rule.Description < 0 || c.Rule.Audience < 0 ||
		c.Rule.SellingPoints < 0 || c.Rule.Style < 0 {
		return fmt.Errorf("rule weights must be non-negative: %+v", c.Rule)
	}
	if c.Rule.Sum() == 0 {
		return fmt.Errorf("at least one rule weight must be positive")
	}
	if c.Blend.Rule < 0 || c.Blend.Semantic < 0 {
		return fmt.Errorf("blend weights must be non-negative: %+v", c.Blend)
	}
	if c.Blend.Rule == 0 && c.Blend.Semantic == 0 {
		return fmt.Errorf("at least one blend weight must be positive")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0, 1], got %f", c.MinScore)
	}
	if c.DefaultK <= 0 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() Config {
	return *c
}
