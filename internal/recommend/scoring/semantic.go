// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package scoring

import "math"

// Cosine scores embedding-vector similarity. Cosine similarity lives in
// [-1, 1]; the re-map (cos + 1) / 2 shifts it into [0, 1] so it composes
// with the rule-based score.
type Cosine struct{}

// NewCosine creates the semantic vector scorer.
func NewCosine() *Cosine {
	return &Cosine{}
}

// Score returns (cos(query, tmpl) + 1) / 2, clamped to [0, 1].
// Mismatched dimensions or zero vectors score 0.
func (c *Cosine) Score(query, tmpl []float32) float64 {
	cos, ok := cosineSimilarity(query, tmpl)
	if !ok {
		return 0
	}

	score := (cos + 1) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// ok is false for mismatched dimensions or zero magnitude.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
