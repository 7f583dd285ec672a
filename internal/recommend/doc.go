// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

// Package recommend implements the hybrid template recommendation engine.
//
// # Architecture
//
// The engine ranks a fixed catalog of site templates against a user's
// project description by blending two scorers:
//
//   - Rule-based: weighted overlap of industry, description keywords,
//     audience, selling points, and style tags
//   - Semantic: embedding cosine similarity, with a trainable TF-IDF
//     fallback when the embedding provider is unavailable
//
// # Design Principles
//
//   - Deterministic: identical inputs produce identical rankings; ties
//     break by catalog load order
//   - Degradable: embedding failures narrow the blend, they never fail a
//     request; a rule-only ranking is always available
//   - Observable: metrics exposed for requests, caches, and the provider
//   - Durable: template vectors persist across restarts, invalidated by
//     content hash and model version
//   - Traceable: request IDs propagated through context
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, catalogStore,
//	    scoring.NewRuleBased(), scoring.NewCosine(), logger,
//	    recommend.WithEmbedding(provider, vectorCache),
//	    recommend.WithFallback(scoring.NewTFIDF()),
//	)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Query:    recommend.Query{Text: "a modern bakery with online ordering"},
//	    K:        -1, // use the configured default
//	    MinScore: -1,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Catalog reloads are
// copy-and-swap, so in-flight requests keep scoring against the snapshot
// they started with; the result cache is keyed by catalog generation and
// identical concurrent queries share a single computation.
package recommend
