// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package scoring

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "stop words removed",
			text: "the best bakery in the city",
			want: []string{"best", "bakery", "city"},
		},
		{
			name: "short words removed",
			text: "an AI co op for dogs",
			want: []string{"dogs"},
		},
		{
			name: "punctuation stripped",
			text: "hand-crafted, artisanal bread!",
			want: []string{"hand", "crafted", "artisanal", "bread"},
		},
		{
			name: "duplicates removed preserving order",
			text: "coffee shop coffee roastery shop",
			want: []string{"coffee", "shop", "roastery"},
		},
		{
			name: "case folded",
			text: "Online Store ONLINE ordering",
			want: []string{"online", "store", "ordering"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKeywordSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{
			name: "identical texts",
			a:    "modern bakery website",
			b:    "modern bakery website",
			want: 1.0,
		},
		{
			name: "no overlap",
			a:    "modern bakery website",
			b:    "tech startup landing",
			want: 0.0,
		},
		{
			name: "both empty",
			a:    "",
			b:    "",
			want: 0.0,
		},
		{
			name: "partial overlap",
			a:    "bakery website",
			b:    "bakery storefront",
			want: 1.0 / 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("KeywordSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestKeywordSimilaritySymmetric(t *testing.T) {
	a := "handmade jewelry and custom gifts"
	b := "custom engraved gifts for weddings"

	if KeywordSimilarity(a, b) != KeywordSimilarity(b, a) {
		t.Error("keyword similarity must be symmetric")
	}
}
