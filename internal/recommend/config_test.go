// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"math"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("rule weights sum to approximately 1", func(t *testing.T) {
		if sum := cfg.Rule.Sum(); sum < 0.99 || sum > 1.01 {
			t.Errorf("rule weights sum = %f, want ~1.0", sum)
		}
	})

	t.Run("documented default weights", func(t *testing.T) {
		if cfg.Rule.Industry != 0.35 {
			t.Errorf("Industry = %f, want 0.35", cfg.Rule.Industry)
		}
		if cfg.Rule.Description != 0.25 {
			t.Errorf("Description = %f, want 0.25", cfg.Rule.Description)
		}
		if cfg.Rule.Audience != 0.15 {
			t.Errorf("Audience = %f, want 0.15", cfg.Rule.Audience)
		}
		if cfg.Rule.SellingPoints != 0.15 {
			t.Errorf("SellingPoints = %f, want 0.15", cfg.Rule.SellingPoints)
		}
		if cfg.Rule.Style != 0.10 {
			t.Errorf("Style = %f, want 0.10", cfg.Rule.Style)
		}
	})

	t.Run("operational defaults", func(t *testing.T) {
		if cfg.DefaultK != 5 {
			t.Errorf("DefaultK = %d, want 5", cfg.DefaultK)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %s, want 1h", cfg.Cache.TTL)
		}
		if cfg.RequestTimeout <= 0 {
			t.Error("RequestTimeout must be positive")
		}
	})

	t.Run("defaults validate", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestRuleWeightsNormalize(t *testing.T) {
	tests := []struct {
		name    string
		weights RuleWeights
	}{
		{"already normalized", DefaultConfig().Rule},
		{"arbitrary scale", RuleWeights{Industry: 7, Description: 2, Audience: 1}},
		{"single weight", RuleWeights{Style: 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.weights.Normalize()
			if sum := n.Sum(); math.Abs(sum-1.0) > 1e-9 {
				t.Errorf("normalized sum = %f, want 1.0", sum)
			}
		})
	}

	t.Run("all zero falls back to defaults", func(t *testing.T) {
		n := RuleWeights{}.Normalize()
		if n != DefaultConfig().Rule {
			t.Errorf("Normalize() of zero weights = %+v, want defaults", n)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"negative rule weight", func(c *Config) { c.Rule.Industry = -0.1 }, true},
		{"all rule weights zero", func(c *Config) { c.Rule = RuleWeights{} }, true},
		{"negative blend weight", func(c *Config) { c.Blend.Semantic = -1 }, true},
		{"all blend weights zero", func(c *Config) { c.Blend = BlendWeights{} }, true},
		{"min score above one", func(c *Config) { c.MinScore = 1.5 }, true},
		{"min score negative", func(c *Config) { c.MinScore = -0.5 }, true},
		{"zero default k", func(c *Config) { c.DefaultK = 0 }, true},
		{"max k below default k", func(c *Config) { c.MaxK = c.DefaultK - 1 }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"cache enabled without ttl", func(c *Config) { c.Cache.TTL = 0 }, true},
		{"cache disabled ignores ttl", func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }, false},
		{"rule-only blend is valid", func(c *Config) { c.Blend = BlendWeights{Rule: 1} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid.Clone()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
