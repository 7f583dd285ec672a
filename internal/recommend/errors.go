// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recommendation engine. Handlers map these to
// HTTP statuses; everything else surfaces as an internal error.
var (
	// ErrEmbeddingUnavailable indicates the embedding provider could not
	// serve a request. The engine absorbs it by degrading to the fallback
	// model; it never aborts a recommendation on its own.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrRecommendationTimeout indicates the per-request deadline elapsed
	// before a complete ranking was produced. Partial rankings are never
	// returned.
	ErrRecommendationTimeout = errors.New("recommendation timed out")

	// ErrCatalogNotReady indicates no catalog snapshot has been loaded,
	// or the loaded catalog is empty.
	ErrCatalogNotReady = errors.New("template catalog not ready")
)

// LoadError reports a failure to build a catalog snapshot: a missing or
// unreadable source, malformed JSON, or duplicate template identifiers.
type LoadError struct {
	// Path is the catalog source path, if the failure is tied to one.
	Path string

	// Reason describes what was wrong with the catalog data.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("catalog load failed for %s: %s: %v", e.Path, e.Reason, e.Err)
	case e.Path != "":
		return fmt.Sprintf("catalog load failed for %s: %s", e.Path, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("catalog load failed: %s: %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("catalog load failed: %s", e.Reason)
	}
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is (or wraps) a catalog LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
