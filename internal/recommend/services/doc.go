// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

// Package services provides suture service wrappers for the
// recommendation engine's background work: the HTTP server lifecycle and
// the warmup loop that trains the fallback model, precomputes template
// embeddings, and flushes the vector cache snapshot.
package services
