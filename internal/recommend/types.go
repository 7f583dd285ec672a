// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"context"
	"fmt"
	"time"
)

// Note: This package has no dependencies on other internal packages. The
// CatalogSource, scorer, and provider interfaces let the catalog, scoring,
// and embedding subpackages plug in without circular imports; concrete
// implementations are wired in cmd/server.

// Template represents a site template from the catalog.
type Template struct {
	// ID is the stable unique template identifier.
	ID string `json:"id"`

	// Name is the display name of the template.
	Name string `json:"name"`

	// Description is the free-text template description.
	Description string `json:"description"`

	// Industries lists the industries the template is designed for.
	Industries []string `json:"industries"`

	// Features is the ordered list of key features / selling points.
	Features []string `json:"features"`

	// Style lists the design-style tags (modern, minimal, warm, ...).
	Style []string `json:"style"`

	// Audience lists the target audience descriptors.
	Audience []string `json:"audience"`

	// PreviewURL points at a rendered preview image, if any.
	PreviewURL string `json:"preview_url,omitempty"`
}

// FeatureProfile is the normalized, comparable form of a template or query.
// Profiles are derived identically for both sides so overlap measures and
// embedding inputs stay symmetric.
type FeatureProfile struct {
	// Industries is the deduplicated set of normalized industry tags.
	Industries map[string]struct{}

	// Audience is the deduplicated set of normalized audience tags.
	Audience map[string]struct{}

	// Style is the deduplicated set of normalized style tags.
	Style map[string]struct{}

	// SellingPoints is the deduplicated set of normalized feature tags.
	SellingPoints map[string]struct{}

	// Description is the normalized free-text description.
	Description string

	// Canonical is the text representation fed to the embedding model.
	// Field order is fixed (name, description, industries, features,
	// style, audience) so re-derived embeddings stay stable.
	Canonical string
}

// Query represents the user-supplied side of a recommendation request.
type Query struct {
	// Text is the free-text project or business description.
	Text string `json:"text"`

	// Name is an optional business or project name.
	Name string `json:"name,omitempty"`

	// Industries is an optional industry filter.
	Industries []string `json:"industries,omitempty"`

	// Audience optionally narrows the target audience.
	Audience []string `json:"audience,omitempty"`

	// SellingPoints optionally lists unique selling points.
	SellingPoints []string `json:"selling_points,omitempty"`
}

// Request represents a recommendation request.
type Request struct {
	// Query is the user input to match against the catalog.
	Query Query `json:"query"`

	// K is the maximum number of recommendations to return.
	// Zero yields an empty result; negative means "use the default".
	K int `json:"k"`

	// MinScore filters out results below this combined score.
	// Negative means "use the configured default".
	MinScore float64 `json:"min_score"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredTemplate pairs a template with its combined score.
type ScoredTemplate struct {
	// Template is the recommended template.
	Template Template `json:"template"`

	// Score is the combined recommendation score (0-1, higher is better).
	Score float64 `json:"score"`

	// Scores is a breakdown by scorer ("rule", "semantic").
	Scores map[string]float64 `json:"scores,omitempty"`

	// Reason provides an interpretable explanation for the recommendation.
	Reason string `json:"reason,omitempty"`
}

// SemanticMode identifies which semantic scoring path served a request.
type SemanticMode int

const (
	// SemanticEmbedding means the embedding provider scored the request.
	SemanticEmbedding SemanticMode = iota
	// SemanticFallback means the trained fallback model scored the request.
	SemanticFallback
	// SemanticDisabled means no semantic path was available and the blend
	// re-normalized over the rule-based score alone.
	SemanticDisabled
)

// String returns a human-readable mode name.
func (m SemanticMode) String() string {
	switch m {
	case SemanticEmbedding:
		return "embedding"
	case SemanticFallback:
		return "fallback"
	case SemanticDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Response represents a recommendation response.
type Response struct {
	// Items is the ordered list of recommended templates.
	Items []ScoredTemplate `json:"items"`

	// TotalCandidates is the number of catalog templates considered.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// CatalogGeneration is the catalog snapshot the ranking was built from.
	CatalogGeneration uint64 `json:"catalog_generation"`

	// SemanticMode reports which semantic path served the request.
	SemanticMode string `json:"semantic_mode"`

	// LatencyMS is the total recommendation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// CatalogSource provides the current immutable catalog snapshot.
// Reload is copy-and-swap, so readers always observe a complete snapshot.
type CatalogSource interface {
	// Snapshot returns the current catalog, or nil before the first load.
	Snapshot() *Catalog
}

// RuleScorer computes the weighted feature-overlap score between a query
// profile and a template profile.
type RuleScorer interface {
	// Score returns a value in [0, 1]. Sub-scores with zero weight are
	// skipped and the result is normalized by the contributing weight sum.
	Score(query, tmpl *FeatureProfile, weights RuleWeights) float64
}

// SemanticScorer computes a bounded similarity between embedding vectors.
type SemanticScorer interface {
	// Score returns the cosine similarity of the two vectors re-mapped
	// from [-1, 1] into [0, 1].
	Score(query, tmpl []float32) float64
}

// FallbackModel scores profile similarity when embeddings are unavailable.
// It is trained from the catalog at startup, never per request.
type FallbackModel interface {
	// Train fits the model on the catalog templates.
	Train(ctx context.Context, templates []Template) error

	// Trained reports whether the model is usable.
	Trained() bool

	// Score returns a similarity in [0, 1] between two feature profiles.
	Score(query, tmpl *FeatureProfile) float64
}

// EmbeddingProvider turns canonical text into a fixed-length vector.
// Vectors are valid only for a single model version; vectors from
// different versions must never be compared.
type EmbeddingProvider interface {
	// Embed returns the embedding vector for the given text. Errors wrap
	// ErrEmbeddingUnavailable when the model cannot be reached.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelVersion identifies the model producing the vectors.
	ModelVersion() string

	// Enabled reports whether the provider can serve requests at all.
	Enabled() bool
}

// VectorCache persists computed template vectors across restarts.
type VectorCache interface {
	// Get returns a cached vector only if the stored content hash and
	// model version both match; any mismatch is a miss, not an error.
	Get(templateID, contentHash, modelVersion string) ([]float32, bool)

	// Put stores the vector for the given identity.
	Put(templateID, contentHash, modelVersion string, vec []float32)
}

// Catalog is an immutable, indexed snapshot of all templates.
type Catalog struct {
	templates  []Template
	index      map[string]int
	generation uint64
	loadedAt   time.Time
}

// NewCatalog builds a catalog snapshot from templates in load order.
// Duplicate identifiers are a load-time error, never silently overwritten.
func NewCatalog(templates []Template, generation uint64) (*Catalog, error) {
	index := make(map[string]int, len(templates))
	for i, t := range templates {
		if t.ID == "" {
			return nil, &LoadError{Reason: fmt.Sprintf("template at position %d has no id", i)}
		}
		if prev, ok := index[t.ID]; ok {
			return nil, &LoadError{Reason: fmt.Sprintf("duplicate template id %q at positions %d and %d", t.ID, prev, i)}
		}
		index[t.ID] = i
	}

	return &Catalog{
		templates:  templates,
		index:      index,
		generation: generation,
		loadedAt:   time.Now(),
	}, nil
}

// Get returns the template with the given identifier.
func (c *Catalog) Get(id string) (Template, bool) {
	i, ok := c.index[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}

// All returns the templates in catalog load order. The returned slice is
// shared; callers must not modify it.
func (c *Catalog) All() []Template {
	return c.templates
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Generation returns the snapshot version marker. It is incremented on
// each reload and participates in derived cache keys.
func (c *Catalog) Generation() uint64 {
	return c.generation
}

// LoadedAt returns when this snapshot was created.
func (c *Catalog) LoadedAt() time.Time {
	return c.loadedAt
}

// IDs returns the set of template identifiers in the catalog.
func (c *Catalog) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.templates))
	for _, t := range c.templates {
		ids[t.ID] = struct{}{}
	}
	return ids
}
