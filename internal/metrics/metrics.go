// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Catalog Metrics
	CatalogTemplates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_templates",
			Help: "Number of templates in the active catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of catalog reload attempts",
		},
		[]string{"outcome"}, // "ok", "error"
	)
)

// RecordAPIRequest records an API request with its duration.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecommendMetrics holds the recommendation engine collectors. A nil
// receiver is valid everywhere, so tests can run the engine without
// touching the default registry.
type RecommendMetrics struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	resultCacheHits  prometheus.Counter
	resultCacheMiss  prometheus.Counter
	vectorCacheHits  prometheus.Counter
	vectorCacheMiss  prometheus.Counter
	embeddingReqs    *prometheus.CounterVec
	fallbackUsed     prometheus.Counter
	catalogGen       prometheus.Gauge
	embeddingFlushes *prometheus.CounterVec
}

// NewRecommendMetrics registers the engine collectors on the default
// prometheus registry.
func NewRecommendMetrics() *RecommendMetrics {
	return &RecommendMetrics{
		requests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recommend_requests_total",
				Help: "Total number of recommendation requests",
			},
			[]string{"outcome", "semantic_mode"},
		),
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recommend_request_duration_seconds",
				Help:    "Recommendation request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),
		resultCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recommend_result_cache_hits_total",
				Help: "Total number of result cache hits",
			},
		),
		resultCacheMiss: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recommend_result_cache_misses_total",
				Help: "Total number of result cache misses",
			},
		),
		vectorCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "embedding_cache_hits_total",
				Help: "Total number of embedding cache hits",
			},
		),
		vectorCacheMiss: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "embedding_cache_misses_total",
				Help: "Total number of embedding cache misses (content hash or model version mismatch included)",
			},
		),
		embeddingReqs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedding_requests_total",
				Help: "Total number of embedding provider calls",
			},
			[]string{"outcome"}, // "ok", "error"
		),
		fallbackUsed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recommend_fallback_requests_total",
				Help: "Total number of requests served by the fallback similarity model",
			},
		),
		catalogGen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_generation",
				Help: "Current catalog snapshot generation",
			},
		),
		embeddingFlushes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "embedding_cache_flushes_total",
				Help: "Total number of embedding cache snapshot flushes",
			},
			[]string{"outcome"}, // "ok", "error"
		),
	}
}

// ObserveRequest records a completed recommendation request.
func (m *RecommendMetrics) ObserveRequest(outcome, semanticMode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome, semanticMode).Inc()
	m.requestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ResultCacheHit records a result cache hit.
func (m *RecommendMetrics) ResultCacheHit() {
	if m == nil {
		return
	}
	m.resultCacheHits.Inc()
}

// ResultCacheMiss records a result cache miss.
func (m *RecommendMetrics) ResultCacheMiss() {
	if m == nil {
		return
	}
	m.resultCacheMiss.Inc()
}

// VectorCacheHit records an embedding cache hit.
func (m *RecommendMetrics) VectorCacheHit() {
	if m == nil {
		return
	}
	m.vectorCacheHits.Inc()
}

// VectorCacheMiss records an embedding cache miss.
func (m *RecommendMetrics) VectorCacheMiss() {
	if m == nil {
		return
	}
	m.vectorCacheMiss.Inc()
}

// EmbeddingRequest records an embedding provider call outcome.
func (m *RecommendMetrics) EmbeddingRequest(outcome string) {
	if m == nil {
		return
	}
	m.embeddingReqs.WithLabelValues(outcome).Inc()
}

// FallbackUsed records a request served by the fallback model.
func (m *RecommendMetrics) FallbackUsed() {
	if m == nil {
		return
	}
	m.fallbackUsed.Inc()
}

// SetCatalogGeneration records the active catalog generation.
func (m *RecommendMetrics) SetCatalogGeneration(generation uint64) {
	if m == nil {
		return
	}
	m.catalogGen.Set(float64(generation))
}

// EmbeddingFlush records an embedding cache snapshot flush outcome.
func (m *RecommendMetrics) EmbeddingFlush(outcome string) {
	if m == nil {
		return
	}
	m.embeddingFlushes.WithLabelValues(outcome).Inc()
}
