// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

/*
Package scoring implements the scorers the recommendation engine blends.

Three scorers live here:

  - RuleBased: weighted feature-overlap scoring over normalized tag sets
    and description keywords. Sub-scores with zero weight or no query-side
    signal are skipped; the result re-normalizes over the contributing
    weight sum.
  - Cosine: embedding-vector similarity, re-mapped from [-1, 1] into
    [0, 1] via (cos + 1) / 2.
  - TFIDF: a trainable term-frequency similarity model fitted from the
    catalog at startup. It serves as the semantic path when the embedding
    provider is unavailable.

All scorers are deterministic: identical inputs always produce identical
scores, which keeps rankings reproducible and cacheable.
*/
package scoring
