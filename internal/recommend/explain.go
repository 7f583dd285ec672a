// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"sort"
	"strings"
)

// MatchReason builds a short, interpretable explanation for why a template
// was recommended. Reasons are derived from the same profiles the scorers
// used, so they never claim a match the scores didn't see.
func MatchReason(query, tmpl *FeatureProfile, score float64) string {
	var aspects []string

	if shared := sharedTags(query.Industries, tmpl.Industries); len(shared) > 0 {
		aspects = append(aspects, "designed for the "+joinTags(shared)+" industry")
	}
	if shared := sharedTags(query.Audience, tmpl.Audience); len(shared) > 0 {
		aspects = append(aspects, "aimed at "+joinTags(shared))
	}
	if shared := sharedTags(query.SellingPoints, tmpl.SellingPoints); len(shared) > 0 {
		aspects = append(aspects, "supports "+joinTags(shared))
	}

	reason := confidenceTier(score) + " for your project"
	if len(aspects) > 0 {
		reason += ": " + strings.Join(aspects, "; ")
	}
	return reason
}

// confidenceTier maps a combined score to a confidence phrase.
func confidenceTier(score float64) string {
	switch {
	case score > 0.9:
		return "Exceptional match"
	case score > 0.8:
		return "Strong match"
	case score > 0.7:
		return "Good match"
	default:
		return "Moderate match"
	}
}

// sharedTags returns the sorted intersection of two tag sets. Sorting
// keeps explanations deterministic across runs.
func sharedTags(a, b map[string]struct{}) []string {
	var shared []string
	for tag := range a {
		if _, ok := b[tag]; ok {
			shared = append(shared, tag)
		}
	}
	sort.Strings(shared)
	return shared
}

// joinTags renders up to three tags as a readable list.
func joinTags(tags []string) string {
	if len(tags) > 3 {
		tags = tags[:3]
	}
	switch len(tags) {
	case 1:
		return tags[0]
	case 2:
		return tags[0] + " and " + tags[1]
	default:
		return strings.Join(tags[:len(tags)-1], ", ") + " and " + tags[len(tags)-1]
	}
}
