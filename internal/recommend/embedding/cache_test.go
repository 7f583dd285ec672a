// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package embedding

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return NewCache(filepath.Join(t.TempDir(), "vectors.gob.gz"), zerolog.Nop())
}

func TestCacheGetPut(t *testing.T) {
	cache := newTestCache(t)
	vec := []float32{0.1, 0.2, 0.3}

	cache.Put("shop", "hash1", "model-a", vec)

	got, ok := cache.Get("shop", "hash1", "model-a")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !reflect.DeepEqual(got, vec) {
		t.Errorf("Get() = %v, want %v", got, vec)
	}
}

func TestCacheMissOnMismatch(t *testing.T) {
	cache := newTestCache(t)
	cache.Put("shop", "hash1", "model-a", []float32{1})

	tests := []struct {
		name    string
		id      string
		hash    string
		version string
	}{
		{"unknown template", "bistro", "hash1", "model-a"},
		{"content hash changed", "shop", "hash2", "model-a"},
		{"model version changed", "shop", "hash1", "model-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := cache.Get(tt.id, tt.hash, tt.version); ok {
				t.Error("expected cache miss")
			}
		})
	}
}

func TestCachePutReplaces(t *testing.T) {
	cache := newTestCache(t)
	cache.Put("shop", "hash1", "model-a", []float32{1})
	cache.Put("shop", "hash2", "model-a", []float32{2})

	if _, ok := cache.Get("shop", "hash1", "model-a"); ok {
		t.Error("old hash must miss after replacement")
	}
	got, ok := cache.Get("shop", "hash2", "model-a")
	if !ok || got[0] != 2 {
		t.Errorf("Get() = %v, %v; want replacement vector", got, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCachePrune(t *testing.T) {
	cache := newTestCache(t)
	cache.Put("shop", "h", "m", []float32{1})
	cache.Put("bistro", "h", "m", []float32{2})
	cache.Put("gone", "h", "m", []float32{3})

	removed := cache.Prune(map[string]struct{}{"shop": {}, "bistro": {}})
	if removed != 1 {
		t.Errorf("Prune() removed = %d, want 1", removed)
	}
	if _, ok := cache.Get("gone", "h", "m"); ok {
		t.Error("pruned entry must miss")
	}
	if _, ok := cache.Get("shop", "h", "m"); !ok {
		t.Error("surviving entry must still hit")
	}
}

func TestCacheFlushLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob.gz")

	cache := NewCache(path, zerolog.Nop())
	cache.Put("shop", "hash1", "model-a", []float32{0.5, -0.5})
	cache.Put("bistro", "hash2", "model-a", []float32{1, 2, 3})

	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	reloaded := NewCache(path, zerolog.Nop())
	if n := reloaded.Load(); n != 2 {
		t.Fatalf("Load() = %d, want 2", n)
	}

	got, ok := reloaded.Get("shop", "hash1", "model-a")
	if !ok || !reflect.DeepEqual(got, []float32{0.5, -0.5}) {
		t.Errorf("Get() after reload = %v, %v", got, ok)
	}
}

func TestCacheLoadMissingSnapshot(t *testing.T) {
	cache := newTestCache(t)

	if n := cache.Load(); n != 0 {
		t.Errorf("Load() of missing snapshot = %d, want 0", n)
	}
}

func TestCacheLoadCorruptSnapshotDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob.gz")
	if err := os.WriteFile(path, []byte("not a snapshot"), 0o600); err != nil {
		t.Fatalf("writing corrupt snapshot: %v", err)
	}

	cache := NewCache(path, zerolog.Nop())
	if n := cache.Load(); n != 0 {
		t.Errorf("Load() of corrupt snapshot = %d, want 0", n)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want empty cache after corrupt load", cache.Len())
	}

	// The cache must remain fully usable.
	cache.Put("shop", "h", "m", []float32{1})
	if _, ok := cache.Get("shop", "h", "m"); !ok {
		t.Error("cache must accept entries after corrupt load")
	}
}

func TestCacheFlushTruncatedFileFailsChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob.gz")

	cache := NewCache(path, zerolog.Nop())
	cache.Put("shop", "h", "m", []float32{1, 2, 3, 4})
	if err := cache.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)/2], 0o600); err != nil {
		t.Fatalf("truncating snapshot: %v", err)
	}

	reloaded := NewCache(path, zerolog.Nop())
	if n := reloaded.Load(); n != 0 {
		t.Errorf("Load() of truncated snapshot = %d, want 0", n)
	}
}

func TestCacheFlushCancelledContext(t *testing.T) {
	cache := newTestCache(t)
	cache.Put("shop", "h", "m", []float32{1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := cache.Flush(ctx); err == nil {
		t.Error("Flush() with cancelled context must fail")
	}
}
