// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

/*
Package catalog loads the template catalog and serves immutable snapshots.

The catalog is a JSON file of templates. Load parses and validates the
whole file, builds an indexed snapshot, and swaps it in atomically under
a new generation number. Readers hold a snapshot for the duration of a
request, so a concurrent reload never changes a ranking mid-flight.

A failed reload (missing file, malformed JSON, duplicate IDs) keeps the
previous snapshot serving; the error surfaces to the caller as a
recommend.LoadError.
*/
package catalog
