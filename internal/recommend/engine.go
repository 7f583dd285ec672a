// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/siteforge-io/siteforge/internal/metrics"
)

// Engine blends the rule-based and semantic scorers into a single ranking
// over the template catalog. It is safe for concurrent use.
type Engine struct {
	config   Config
	configMu sync.RWMutex

	logger zerolog.Logger

	catalog  CatalogSource
	rule     RuleScorer
	semantic SemanticScorer

	// Optional semantic dependencies; any of these may be nil.
	provider EmbeddingProvider
	vectors  VectorCache
	fallback FallbackModel

	cache  *resultCache
	flight singleflight.Group

	metrics *metrics.RecommendMetrics
}

// EngineOption configures optional engine dependencies.
type EngineOption func(*Engine)

// WithEmbedding wires an embedding provider and its persistent vector
// cache into the semantic scoring path.
func WithEmbedding(provider EmbeddingProvider, vectors VectorCache) EngineOption {
	return func(e *Engine) {
		e.provider = provider
		e.vectors = vectors
	}
}

// WithFallback wires the trainable fallback similarity model, used when
// the embedding provider is unavailable.
func WithFallback(model FallbackModel) EngineOption {
	return func(e *Engine) {
		e.fallback = model
	}
}

// WithMetrics wires prometheus collectors for the engine and its caches.
func WithMetrics(m *metrics.RecommendMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg Config, catalog CatalogSource, rule RuleScorer, semantic SemanticScorer, logger zerolog.Logger, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if rule == nil {
		return nil, fmt.Errorf("rule scorer is required")
	}
	if semantic == nil {
		return nil, fmt.Errorf("semantic scorer is required")
	}

	e := &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		catalog:  catalog,
		rule:     rule,
		semantic: semantic,
		cache:    newResultCache(cfg.Cache),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the current engine configuration.
func (e *Engine) Config() Config {
	e.configMu.RLock()
	defer e.configMu.RUnlock()
	return e.config.Clone()
}

// UpdateConfig replaces the engine configuration after validating it.
// In-flight requests finish with the configuration they started with.
// Cached rankings are dropped, since they were ranked under the old
// weights and the cache key does not carry the configuration.
func (e *Engine) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}

	e.configMu.Lock()
	e.config = cfg
	e.configMu.Unlock()

	e.cache.invalidateAll()

	e.logger.Info().Msg("Engine configuration updated")
	return nil
}

// OnCatalogReload evicts cached rankings built from catalog generations
// older than the given one. New requests pick up the new snapshot through
// the generation-keyed cache key regardless.
func (e *Engine) OnCatalogReload(generation uint64) {
	e.cache.invalidateBefore(generation)
	e.metrics.SetCatalogGeneration(generation)
}

// Recommend generates template recommendations for a request.
//
// The five steps: derive the query profile, score every catalog template
// with the rule-based scorer, score semantically (embeddings, then the
// fallback model, then drop the semantic weight), blend, then filter,
// sort, and truncate. Ties break by catalog load order.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	cfg := e.Config()

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	k := req.K
	if k < 0 {
		k = cfg.DefaultK
	}
	if k > cfg.MaxK {
		k = cfg.MaxK
	}

	minScore := req.MinScore
	if minScore < 0 {
		minScore = cfg.MinScore
	}

	catalog := e.catalog.Snapshot()
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrCatalogNotReady
	}

	query := ProfileQuery(req.Query)

	// k == 0 is a valid request for an empty ranking.
	if k == 0 {
		return e.finalize(&Response{
			Items:           []ScoredTemplate{},
			TotalCandidates: catalog.Len(),
			Metadata: ResponseMetadata{
				CatalogGeneration: catalog.Generation(),
				SemanticMode:      SemanticDisabled.String(),
			},
		}, req.RequestID, false, start), nil
	}

	if !cfg.Cache.Enabled {
		resp, err := e.compute(ctx, cfg, catalog, query, k, minScore)
		if err != nil {
			e.observe(start, "error", "")
			return nil, err
		}
		e.observe(start, "ok", resp.Metadata.SemanticMode)
		return e.finalize(resp, req.RequestID, false, start), nil
	}

	key := cacheKey(query.Canonical, k, minScore, catalog.Generation())
	if resp, ok := e.cache.get(key); ok {
		e.metrics.ResultCacheHit()
		e.observe(start, "ok", resp.Metadata.SemanticMode)
		return e.finalize(resp, req.RequestID, true, start), nil
	}
	e.metrics.ResultCacheMiss()

	// Concurrent identical queries share one computation.
	v, err, shared := e.flight.Do(key, func() (interface{}, error) {
		resp, err := e.compute(ctx, cfg, catalog, query, k, minScore)
		if err != nil {
			return nil, err
		}
		e.cache.put(key, resp, catalog.Generation())
		return resp, nil
	})
	if err != nil {
		e.observe(start, "error", "")
		return nil, err
	}

	resp := v.(*Response)
	e.observe(start, "ok", resp.Metadata.SemanticMode)
	return e.finalize(resp, req.RequestID, shared, start), nil
}

// finalize stamps per-request metadata onto a shallow copy so cached
// responses stay immutable.
func (e *Engine) finalize(resp *Response, requestID string, cacheHit bool, start time.Time) *Response {
	out := *resp
	out.Metadata.RequestID = requestID
	out.Metadata.CacheHit = cacheHit
	out.Metadata.LatencyMS = time.Since(start).Milliseconds()
	out.Metadata.Timestamp = time.Now()
	return &out
}

func (e *Engine) observe(start time.Time, outcome, mode string) {
	e.metrics.ObserveRequest(outcome, mode, time.Since(start))
}

// scoredCandidate carries the profile alongside the score so explanations
// reuse the exact profile the scorers saw.
type scoredCandidate struct {
	template Template
	profile  *FeatureProfile
	score    float64
	scores   map[string]float64
}

// compute produces a complete ranking or fails whole. A deadline that
// elapses mid-computation surfaces ErrRecommendationTimeout, never a
// partial ranking.
func (e *Engine) compute(ctx context.Context, cfg Config, catalog *Catalog, query *FeatureProfile, k int, minScore float64) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	mode, queryVec := e.semanticSetup(ctx, cfg, query)
	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	ruleWeights := cfg.Rule.Normalize()
	templates := catalog.All()
	candidates := make([]scoredCandidate, 0, len(templates))

	for _, t := range templates {
		if err := checkDeadline(ctx); err != nil {
			return nil, err
		}

		profile := ProfileTemplate(t)
		ruleScore := e.rule.Score(query, profile, ruleWeights)

		semScore, semOK := e.semanticScore(ctx, mode, queryVec, query, t, profile)

		var combined float64
		scores := map[string]float64{"rule": ruleScore}
		if semOK {
			combined = (cfg.Blend.Rule*ruleScore + cfg.Blend.Semantic*semScore) /
				(cfg.Blend.Rule + cfg.Blend.Semantic)
			scores["semantic"] = semScore
		} else {
			// Semantic side unavailable: the blend re-normalizes over
			// the rule weight alone.
			combined = ruleScore
		}

		if combined < minScore {
			continue
		}

		candidates = append(candidates, scoredCandidate{
			template: t,
			profile:  profile,
			score:    combined,
			scores:   scores,
		})
	}

	if err := checkDeadline(ctx); err != nil {
		return nil, err
	}

	// Stable sort preserves catalog load order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	items := make([]ScoredTemplate, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, ScoredTemplate{
			Template: c.template,
			Score:    c.score,
			Scores:   c.scores,
			Reason:   MatchReason(query, c.profile, c.score),
		})
	}

	return &Response{
		Items:           items,
		TotalCandidates: len(templates),
		Metadata: ResponseMetadata{
			CatalogGeneration: catalog.Generation(),
			SemanticMode:      mode.String(),
		},
	}, nil
}

// semanticSetup decides which semantic path serves this request and
// embeds the query when the provider is usable. Provider failures degrade
// to the fallback model; they never abort the request.
func (e *Engine) semanticSetup(ctx context.Context, cfg Config, query *FeatureProfile) (SemanticMode, []float32) {
	if cfg.Blend.Semantic <= 0 {
		return SemanticDisabled, nil
	}

	if e.provider != nil && e.provider.Enabled() {
		vec, err := e.provider.Embed(ctx, query.Canonical)
		if err == nil {
			e.metrics.EmbeddingRequest("ok")
			return SemanticEmbedding, vec
		}
		if ctx.Err() == nil {
			e.metrics.EmbeddingRequest("error")
			e.logger.Warn().Err(err).Msg("Query embedding unavailable, degrading to fallback model")
		}
	}

	if e.fallback != nil && e.fallback.Trained() {
		e.metrics.FallbackUsed()
		return SemanticFallback, nil
	}

	return SemanticDisabled, nil
}

// semanticScore scores one template on the active semantic path. A miss
// on the embedding path (vector unavailable for just this template)
// degrades to the fallback model for that template only.
func (e *Engine) semanticScore(ctx context.Context, mode SemanticMode, queryVec []float32, query *FeatureProfile, t Template, profile *FeatureProfile) (float64, bool) {
	switch mode {
	case SemanticEmbedding:
		if vec := e.templateVector(ctx, t, profile); vec != nil {
			return e.semantic.Score(queryVec, vec), true
		}
		if e.fallback != nil && e.fallback.Trained() {
			return e.fallback.Score(query, profile), true
		}
		return 0, false
	case SemanticFallback:
		return e.fallback.Score(query, profile), true
	default:
		return 0, false
	}
}

// templateVector returns the template's embedding, from the persistent
// cache when the content hash and model version still match, otherwise
// from the provider. Returns nil when no vector can be produced.
func (e *Engine) templateVector(ctx context.Context, t Template, profile *FeatureProfile) []float32 {
	sum := sha256.Sum256([]byte(profile.Canonical))
	hash := hex.EncodeToString(sum[:])
	version := e.provider.ModelVersion()

	if e.vectors != nil {
		if vec, ok := e.vectors.Get(t.ID, hash, version); ok {
			e.metrics.VectorCacheHit()
			return vec
		}
		e.metrics.VectorCacheMiss()
	}

	vec, err := e.provider.Embed(ctx, profile.Canonical)
	if err != nil {
		if ctx.Err() == nil {
			e.metrics.EmbeddingRequest("error")
			e.logger.Debug().Err(err).Str("template_id", t.ID).Msg("Template embedding unavailable")
		}
		return nil
	}
	e.metrics.EmbeddingRequest("ok")

	if e.vectors != nil {
		e.vectors.Put(t.ID, hash, version, vec)
	}
	return vec
}

// checkDeadline maps deadline expiry to the timeout error and passes
// through caller cancellation unchanged.
func checkDeadline(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrRecommendationTimeout
	}
	return err
}

// Status describes the engine's readiness and its dependencies.
type Status struct {
	// CatalogReady reports whether a non-empty catalog snapshot exists.
	CatalogReady bool `json:"catalog_ready"`

	// CatalogSize is the number of templates in the current snapshot.
	CatalogSize int `json:"catalog_size"`

	// CatalogGeneration is the current snapshot generation.
	CatalogGeneration uint64 `json:"catalog_generation"`

	// CatalogLoadedAt is when the current snapshot was created.
	CatalogLoadedAt time.Time `json:"catalog_loaded_at,omitempty"`

	// EmbeddingEnabled reports whether the embedding provider is usable.
	EmbeddingEnabled bool `json:"embedding_enabled"`

	// EmbeddingModel is the active embedding model version, if any.
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// FallbackTrained reports whether the fallback model is usable.
	FallbackTrained bool `json:"fallback_trained"`

	// ResultCache reports result-cache effectiveness.
	ResultCache CacheStats `json:"result_cache"`
}

// Status returns the engine's current status.
func (e *Engine) Status() Status {
	s := Status{
		ResultCache: e.cache.stats(),
	}

	if catalog := e.catalog.Snapshot(); catalog != nil {
		s.CatalogReady = catalog.Len() > 0
		s.CatalogSize = catalog.Len()
		s.CatalogGeneration = catalog.Generation()
		s.CatalogLoadedAt = catalog.LoadedAt()
	}

	if e.provider != nil && e.provider.Enabled() {
		s.EmbeddingEnabled = true
		s.EmbeddingModel = e.provider.ModelVersion()
	}

	s.FallbackTrained = e.fallback != nil && e.fallback.Trained()
	return s
}

// Ready reports whether the engine can serve recommendations.
func (e *Engine) Ready() bool {
	catalog := e.catalog.Snapshot()
	return catalog != nil && catalog.Len() > 0
}
