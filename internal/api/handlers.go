// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/siteforge-io/siteforge/internal/logging"
	"github.com/siteforge-io/siteforge/internal/recommend"
	"github.com/siteforge-io/siteforge/internal/recommend/catalog"
)

// Handler serves the template recommendation API endpoints.
type Handler struct {
	engine  *recommend.Engine
	catalog *catalog.Store
	logger  zerolog.Logger
	started time.Time
}

// NewHandler creates the API handler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(engine *recommend.Engine, store *catalog.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		catalog: store,
		logger:  logger.With().Str("component", "api").Logger(),
		started: time.Now(),
	}
}

// Recommendations handles POST /api/v1/recommendations.
// It validates the request body, runs the engine, and maps engine
// errors to HTTP statuses: catalog not ready is 503, a deadline hit
// is 504.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.ValidationError("Invalid recommendation request", err.Error())
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	resp, err := h.engine.Recommend(r.Context(), req.ToEngineRequest(requestID))
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrCatalogNotReady):
			rw.ServiceUnavailable("Template catalog is not loaded yet")
		case errors.Is(err, recommend.ErrRecommendationTimeout):
			rw.GatewayTimeout("Recommendation timed out")
		default:
			logging.CtxErr(r.Context(), err).Msg("Recommendation failed")
			rw.InternalError("Failed to compute recommendations")
		}
		return
	}

	rw.Success(resp)
}

// RecommendStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.Status())
}

// ReloadCatalog handles POST /api/v1/recommendations/reload.
// It re-reads the catalog file, swaps the snapshot, and invalidates
// cached results built from earlier generations. A failed reload keeps
// the previous snapshot serving.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	loaded, err := h.catalog.Load()
	if err != nil {
		logging.CtxErr(r.Context(), err).Msg("Catalog reload failed, previous snapshot kept")
		rw.ErrorWithDetails(http.StatusInternalServerError, ErrCodeCatalogError,
			"Catalog reload failed, previous snapshot kept", err.Error())
		return
	}

	h.engine.OnCatalogReload(loaded.Generation())

	logging.CtxInfo(r.Context()).
		Uint64("generation", loaded.Generation()).
		Int("templates", loaded.Len()).
		Msg("Catalog reloaded")

	rw.Success(map[string]interface{}{
		"generation": loaded.Generation(),
		"templates":  loaded.Len(),
		"loaded_at":  loaded.LoadedAt(),
	})
}

// Templates handles GET /api/v1/templates.
func (h *Handler) Templates(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	snapshot := h.catalog.Snapshot()
	if snapshot == nil {
		rw.ServiceUnavailable("Template catalog is not loaded yet")
		return
	}

	rw.Success(map[string]interface{}{
		"templates":  snapshot.All(),
		"count":      snapshot.Len(),
		"generation": snapshot.Generation(),
	})
}

// TemplateByID handles GET /api/v1/templates/{id}.
func (h *Handler) TemplateByID(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	snapshot := h.catalog.Snapshot()
	if snapshot == nil {
		rw.ServiceUnavailable("Template catalog is not loaded yet")
		return
	}

	id := chi.URLParam(r, "id")
	tmpl, ok := snapshot.Get(id)
	if !ok {
		rw.NotFound("Template not found: " + id)
		return
	}

	rw.Success(tmpl)
}

// HealthLive handles GET /api/v1/health/live.
// Liveness means the process is serving; it never checks dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// HealthReady handles GET /api/v1/health/ready.
// Readiness requires a loaded catalog; embedding availability is NOT a
// readiness condition because the engine degrades to rule-only scoring.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if !h.engine.Ready() {
		rw.ServiceUnavailable("Template catalog is not loaded yet")
		return
	}

	status := h.engine.Status()
	rw.Success(map[string]interface{}{
		"status":             "ready",
		"catalog_generation": status.CatalogGeneration,
		"catalog_size":       status.CatalogSize,
		"embedding_enabled":  status.EmbeddingEnabled,
		"fallback_trained":   status.FallbackTrained,
	})
}
