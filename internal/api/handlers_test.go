// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/siteforge-io/siteforge/internal/recommend"
	"github.com/siteforge-io/siteforge/internal/recommend/catalog"
	"github.com/siteforge-io/siteforge/internal/recommend/scoring"
)

const testCatalogJSON = `{
	"templates": [
		{
			"id": "artisan-shop",
			"name": "Artisan Shop",
			"description": "online store for handmade goods and small retailers",
			"industries": ["retail", "crafts"],
			"features": ["product gallery", "checkout"],
			"style": ["warm"],
			"audience": ["shoppers"]
		},
		{
			"id": "bistro",
			"name": "Bistro",
			"description": "restaurant site with menu and reservations",
			"industries": ["restaurant", "food"],
			"features": ["menu", "reservations"],
			"style": ["elegant"],
			"audience": ["diners"]
		},
		{
			"id": "launchpad",
			"name": "Launchpad",
			"description": "product landing page for startups",
			"industries": ["technology", "saas"],
			"features": ["hero section", "signup form"],
			"style": ["modern", "minimal"],
			"audience": ["early adopters"]
		}
	]
}`

// newTestHandler builds a handler over a real engine and a catalog
// store backed by a temp file. loadCatalog controls whether the initial
// load runs, so not-ready paths can be exercised.
func newTestHandler(t *testing.T, loadCatalog bool) (*Handler, *catalog.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte(testCatalogJSON), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	store := catalog.NewStore(path, zerolog.Nop())
	if loadCatalog {
		if _, err := store.Load(); err != nil {
			t.Fatalf("load catalog: %v", err)
		}
	}

	engine, err := recommend.NewEngine(
		recommend.DefaultConfig(),
		store,
		scoring.NewRuleBased(),
		scoring.NewCosine(),
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}

	return NewHandler(engine, store, zerolog.Nop()), store
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return resp
}

func TestRecommendationsRanksMatchingTemplate(t *testing.T) {
	h, _ := newTestHandler(t, true)

	body := `{
		"description": "a cozy restaurant with a seasonal menu and table reservations",
		"industries": ["restaurant"],
		"min_score": 0
	}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	h.Recommendations(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	envelope := decodeEnvelope(t, w)
	if !envelope.Success {
		t.Fatalf("Success = false: %s", w.Body.String())
	}

	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var resp recommend.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if len(resp.Items) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	if resp.Items[0].Template.ID != "bistro" {
		t.Errorf("top template = %q, want bistro", resp.Items[0].Template.ID)
	}
	if resp.TotalCandidates != 3 {
		t.Errorf("TotalCandidates = %d, want 3", resp.TotalCandidates)
	}
}

func TestRecommendationsValidationFailure(t *testing.T) {
	h, _ := newTestHandler(t, true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(`{}`))
	h.Recommendations(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if envelope.Error == nil || envelope.Error.Code != ErrCodeValidationFailed {
		t.Errorf("Error = %+v, want code %s", envelope.Error, ErrCodeValidationFailed)
	}
}

func TestRecommendationsCatalogNotReady(t *testing.T) {
	h, _ := newTestHandler(t, false)

	body := `{"description": "anything"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	h.Recommendations(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if envelope.Error == nil || envelope.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("Error = %+v, want code %s", envelope.Error, ErrCodeServiceUnavailable)
	}
}

func TestRecommendStatus(t *testing.T) {
	h, _ := newTestHandler(t, true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/status", nil)
	h.RecommendStatus(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data is %T, want object", envelope.Data)
	}
	if ready, _ := data["catalog_ready"].(bool); !ready {
		t.Error("catalog_ready = false, want true")
	}
	if size, _ := data["catalog_size"].(float64); size != 3 {
		t.Errorf("catalog_size = %v, want 3", data["catalog_size"])
	}
}

func TestReloadCatalogBumpsGeneration(t *testing.T) {
	h, store := newTestHandler(t, true)

	before := store.Snapshot().Generation()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/reload", nil)
	h.ReloadCatalog(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if after := store.Snapshot().Generation(); after != before+1 {
		t.Errorf("generation = %d, want %d", after, before+1)
	}
}

func TestReloadCatalogFailureKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte(testCatalogJSON), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	store := catalog.NewStore(path, zerolog.Nop())
	if _, err := store.Load(); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store,
		scoring.NewRuleBased(), scoring.NewCosine(), zerolog.Nop())
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	h := NewHandler(engine, store, zerolog.Nop())

	// Corrupt the file so the reload fails.
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt catalog: %v", err)
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/reload", nil)
	h.ReloadCatalog(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if envelope.Error == nil || envelope.Error.Code != ErrCodeCatalogError {
		t.Errorf("Error = %+v, want code %s", envelope.Error, ErrCodeCatalogError)
	}
	if store.Snapshot() == nil || store.Snapshot().Len() != 3 {
		t.Error("previous snapshot must keep serving after a failed reload")
	}
}

func TestTemplatesList(t *testing.T) {
	h, _ := newTestHandler(t, true)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	h.Templates(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data is %T, want object", envelope.Data)
	}
	if count, _ := data["count"].(float64); count != 3 {
		t.Errorf("count = %v, want 3", data["count"])
	}
}

func TestTemplatesNotLoaded(t *testing.T) {
	h, _ := newTestHandler(t, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	h.Templates(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHealthLive(t *testing.T) {
	h, _ := newTestHandler(t, false)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	h.HealthLive(w, r)

	// Liveness never depends on the catalog.
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestHealthReady(t *testing.T) {
	t.Run("catalog loaded", func(t *testing.T) {
		h, _ := newTestHandler(t, true)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
		h.HealthReady(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("catalog not loaded", func(t *testing.T) {
		h, _ := newTestHandler(t, false)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
		h.HealthReady(w, r)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}
