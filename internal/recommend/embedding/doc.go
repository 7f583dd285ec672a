// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

/*
Package embedding provides text embedding for semantic template scoring.

Two provider implementations exist: OpenAI (any OpenAI-compatible
endpoint, wrapped in a circuit breaker so a failing upstream trips fast
instead of stalling every request) and Disabled (embeddings off, the
engine degrades to its fallback model).

The Cache persists computed template vectors across restarts. Entries are
keyed by template ID and validated against the template's content hash
and the provider's model version; either mismatch is a miss, which is how
template edits and model upgrades invalidate stale vectors without any
bookkeeping. Snapshots are written whole: gob-encoded, gzip-compressed,
checksummed, and renamed into place atomically, so a crash mid-flush
leaves the previous snapshot intact. A corrupt snapshot degrades to an
empty cache, never a startup failure.
*/
package embedding
