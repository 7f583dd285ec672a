// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/siteforge-io/siteforge/internal/recommend"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing catalog fixture: %v", err)
	}
	return path
}

const validCatalog = `{
  "templates": [
    {
      "id": "shop",
      "name": "Shopfront",
      "description": "E-commerce template",
      "industries": ["retail"],
      "features": ["checkout"],
      "style": ["modern"],
      "audience": ["shoppers"]
    },
    {
      "id": "bistro",
      "name": "Bistro",
      "description": "Restaurant template",
      "industries": ["restaurant"],
      "features": ["menu"],
      "style": ["warm"],
      "audience": ["diners"]
    }
  ]
}`

func TestStoreLoad(t *testing.T) {
	store := NewStore(writeCatalog(t, validCatalog), zerolog.Nop())

	if store.Snapshot() != nil {
		t.Fatal("snapshot must be nil before first load")
	}

	catalog, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if catalog.Len() != 2 {
		t.Errorf("Len() = %d, want 2", catalog.Len())
	}
	if catalog.Generation() != 1 {
		t.Errorf("Generation() = %d, want 1", catalog.Generation())
	}

	if got := store.Snapshot(); got != catalog {
		t.Error("Snapshot() must return the loaded catalog")
	}

	tmpl, ok := catalog.Get("shop")
	if !ok || tmpl.Name != "Shopfront" {
		t.Errorf("Get(shop) = %+v, %v", tmpl, ok)
	}
}

func TestStoreLoadPreservesOrder(t *testing.T) {
	store := NewStore(writeCatalog(t, validCatalog), zerolog.Nop())

	catalog, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	all := catalog.All()
	if all[0].ID != "shop" || all[1].ID != "bistro" {
		t.Errorf("All() order = [%s, %s], want [shop, bistro]", all[0].ID, all[1].ID)
	}
}

func TestStoreReloadBumpsGeneration(t *testing.T) {
	store := NewStore(writeCatalog(t, validCatalog), zerolog.Nop())

	first, err := store.Load()
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := store.Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	if second.Generation() <= first.Generation() {
		t.Errorf("reload generation %d must exceed %d", second.Generation(), first.Generation())
	}
}

func TestStoreLoadFailureKeepsPreviousSnapshot(t *testing.T) {
	path := writeCatalog(t, validCatalog)
	store := NewStore(path, zerolog.Nop())

	catalog, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupting fixture: %v", err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("Load() of malformed JSON must fail")
	}
	if got := store.Snapshot(); got != catalog {
		t.Error("failed reload must keep the previous snapshot")
	}
}

func TestStoreLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed json",
			content: `{"templates": [`,
		},
		{
			name:    "empty catalog",
			content: `{"templates": []}`,
		},
		{
			name: "duplicate ids",
			content: `{"templates": [
				{"id": "a", "name": "One"},
				{"id": "a", "name": "Two"}
			]}`,
		},
		{
			name: "missing id",
			content: `{"templates": [
				{"id": "", "name": "One"}
			]}`,
		},
		{
			name: "missing name",
			content: `{"templates": [
				{"id": "a", "name": ""}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(writeCatalog(t, tt.content), zerolog.Nop())

			_, err := store.Load()
			if err == nil {
				t.Fatal("Load() must fail")
			}
			if !recommend.IsLoadError(err) {
				t.Errorf("error %v must be a LoadError", err)
			}
		})
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), zerolog.Nop())

	_, err := store.Load()
	if err == nil {
		t.Fatal("Load() of missing file must fail")
	}
	if !recommend.IsLoadError(err) {
		t.Errorf("error %v must be a LoadError", err)
	}
}
