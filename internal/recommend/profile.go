// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Profile derivation is pure: the same input always yields the same
// profile, canonical text, and content hash. Canonical field order is
// fixed (name, description, industries, features, style, audience) so
// embeddings and hashes stay stable across re-computation.

// ProfileTemplate derives the feature profile for a catalog template.
func ProfileTemplate(t Template) *FeatureProfile {
	industries := normalizeTags(t.Industries)
	features := normalizeTags(t.Features)
	style := normalizeTags(t.Style)
	audience := normalizeTags(t.Audience)
	description := normalizeText(t.Description)

	return &FeatureProfile{
		Industries:    tagSet(industries),
		Audience:      tagSet(audience),
		Style:         tagSet(style),
		SellingPoints: tagSet(features),
		Description:   description,
		Canonical:     canonicalText(normalizeText(t.Name), description, industries, features, style, audience),
	}
}

// ProfileQuery derives the feature profile for a user query. Selling
// points fill the features slot so both sides compare like for like.
func ProfileQuery(q Query) *FeatureProfile {
	industries := normalizeTags(q.Industries)
	sellingPoints := normalizeTags(q.SellingPoints)
	audience := normalizeTags(q.Audience)
	description := normalizeText(q.Text)

	return &FeatureProfile{
		Industries:    tagSet(industries),
		Audience:      tagSet(audience),
		Style:         map[string]struct{}{},
		SellingPoints: tagSet(sellingPoints),
		Description:   description,
		Canonical:     canonicalText(normalizeText(q.Name), description, industries, sellingPoints, nil, audience),
	}
}

// ContentHash returns the hex SHA-256 of a template's canonical text.
// It changes exactly when a text-bearing attribute changes, which is what
// invalidates the template's cached embedding.
func ContentHash(t Template) string {
	sum := sha256.Sum256([]byte(ProfileTemplate(t).Canonical))
	return hex.EncodeToString(sum[:])
}

// canonicalText assembles the embedding input. Empty sections are
// omitted; present sections always appear in the same order.
func canonicalText(name, description string, industries, features, style, audience []string) string {
	var b strings.Builder
	write := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString(". ")
		}
		b.WriteString(s)
	}

	write(name)
	write(description)
	if len(industries) > 0 {
		write("Industries: " + strings.Join(industries, ", "))
	}
	if len(features) > 0 {
		write("Features: " + strings.Join(features, ", "))
	}
	if len(style) > 0 {
		write("Style: " + strings.Join(style, ", "))
	}
	if len(audience) > 0 {
		write("Target audience: " + strings.Join(audience, ", "))
	}
	if b.Len() > 0 {
		b.WriteString(".")
	}

	return b.String()
}

// normalizeTags lowercases, trims, and deduplicates tags while preserving
// first-seen order. Order matters for canonical text stability.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		t := normalizeText(tag)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}

// normalizeText lowercases, trims, and collapses interior whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}
