// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package scoring

import (
	"github.com/siteforge-io/siteforge/internal/recommend"
)

// RuleBased scores templates by weighted feature overlap with the query.
// Stateless and safe for concurrent use.
type RuleBased struct{}

// NewRuleBased creates the rule-based scorer.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Score computes the weighted sum of the sub-scores that can contribute,
// normalized by their weight sum so the result stays in [0, 1] for any
// non-negative weights.
//
// Sub-scores are skipped in two cases: their weight is zero, or the query
// carries no signal for them (no audience tags, no description text, and
// so on). Industry is the exception: a query naming no industry scores a
// neutral 1.0 rather than being skipped, so industry-agnostic queries do
// not penalize specialized templates.
func (s *RuleBased) Score(query, tmpl *recommend.FeatureProfile, weights recommend.RuleWeights) float64 {
	var weighted, contributing float64

	if weights.Industry > 0 {
		score := 1.0
		if len(query.Industries) > 0 {
			score = jaccard(query.Industries, tmpl.Industries)
		}
		weighted += weights.Industry * score
		contributing += weights.Industry
	}

	if weights.Description > 0 && query.Description != "" {
		weighted += weights.Description * KeywordSimilarity(query.Description, tmpl.Description)
		contributing += weights.Description
	}

	if weights.Audience > 0 && len(query.Audience) > 0 {
		weighted += weights.Audience * jaccard(query.Audience, tmpl.Audience)
		contributing += weights.Audience
	}

	if weights.SellingPoints > 0 && len(query.SellingPoints) > 0 {
		weighted += weights.SellingPoints * jaccard(query.SellingPoints, tmpl.SellingPoints)
		contributing += weights.SellingPoints
	}

	if weights.Style > 0 {
		if score, ok := styleScore(query, tmpl); ok {
			weighted += weights.Style * score
			contributing += weights.Style
		}
	}

	if contributing == 0 {
		return 0
	}
	return weighted / contributing
}

// styleScore is an any-match signal: 1.0 when any template style tag
// appears among the query's style tags or description keywords. Returns
// ok == false when the query carries no style signal at all.
func styleScore(query, tmpl *recommend.FeatureProfile) (float64, bool) {
	if len(query.Style) == 0 && query.Description == "" {
		return 0, false
	}
	if len(tmpl.Style) == 0 {
		return 0, true
	}

	keywords := keywordSet(query.Description)
	for tag := range tmpl.Style {
		if _, ok := query.Style[tag]; ok {
			return 1.0, true
		}
		if _, ok := keywords[tag]; ok {
			return 1.0, true
		}
	}
	return 0, true
}
