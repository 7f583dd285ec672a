// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

/*
Package api provides the HTTP REST API layer for the template
recommendation service.

Key Components:

  - Router: Chi route configuration and middleware stack
  - Handler: Request handlers for recommendation and catalog endpoints
  - Response formatting: Standardized JSON envelope with metadata
  - Request validation: go-playground/validator on decoded bodies
  - Rate limiting: go-chi/httprate IP-keyed limiting
  - CORS: go-chi/cors for browser clients

Endpoints:

	POST /api/v1/recommendations         - Rank templates for a project description
	GET  /api/v1/recommendations/status  - Engine and cache status
	POST /api/v1/recommendations/reload  - Reload the catalog file and swap snapshots
	GET  /api/v1/templates               - List the active catalog
	GET  /api/v1/templates/{id}          - Fetch one template
	GET  /api/v1/health/live             - Liveness probe
	GET  /api/v1/health/ready            - Readiness probe (requires loaded catalog)
	GET  /metrics                        - Prometheus scrape endpoint

Error Mapping:

Engine errors map to HTTP statuses: a request against an unloaded
catalog returns 503, a request that hits its deadline returns 504 with
no partial ranking, and validation failures return 400 with
field-oriented details.

All responses share the APIResponse envelope: a success flag, the data
payload or an APIError, and APIMeta with the request ID, timestamp, and
processing duration.
*/
package api
