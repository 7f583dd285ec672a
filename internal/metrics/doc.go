// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package instruments the recommendation service using the Prometheus
client library, exposing metrics for monitoring performance, errors, and
cache effectiveness.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Recommendation metrics:
  - recommend_requests_total: Recommendation requests (counter)
    Labels: outcome, semantic_mode
  - recommend_request_duration_seconds: Request latency (histogram)
  - recommend_result_cache_hits_total / _misses_total: Result cache (counters)
  - recommend_fallback_requests_total: Requests served by the fallback model

Embedding metrics:
  - embedding_requests_total: Provider calls (counter), Labels: outcome
  - embedding_cache_hits_total / _misses_total: Vector cache (counters)
  - embedding_cache_flushes_total: Snapshot flushes (counter), Labels: outcome

Catalog metrics:
  - catalog_templates: Templates in the active snapshot (gauge)
  - catalog_generation: Active snapshot generation (gauge)
  - catalog_reloads_total: Reload attempts (counter), Labels: outcome
*/
package metrics
