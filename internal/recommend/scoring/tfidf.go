// SiteForge - Website Builder Platform Services
// Copyright 2026 SiteForge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/siteforge-io/siteforge

package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/siteforge-io/siteforge/internal/recommend"
)

// TFIDF is the fallback similarity model: term-frequency vectors over
// profile tokens, weighted by inverse document frequency learned from the
// catalog. It approximates semantic similarity without any external model
// and serves requests when the embedding provider is unavailable.
//
// Safe for concurrent use. Train replaces the fitted state atomically
// with respect to Score.
type TFIDF struct {
	mu        sync.RWMutex
	idf       map[string]float64
	docCount  int
	trained   bool
	trainedAt time.Time
}

// NewTFIDF creates an untrained fallback model.
func NewTFIDF() *TFIDF {
	return &TFIDF{}
}

// Train fits document frequencies from the catalog templates.
// Training on an empty catalog is an error; the previous fit is kept.
func (m *TFIDF) Train(ctx context.Context, templates []recommend.Template) error {
	if len(templates) == 0 {
		return fmt.Errorf("cannot train fallback model on empty catalog")
	}

	df := make(map[string]int)
	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return err
		}

		seen := make(map[string]struct{})
		for _, token := range profileTokens(recommend.ProfileTemplate(t)) {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	n := len(templates)
	idf := make(map[string]float64, len(df))
	for token, count := range df {
		// Smoothed IDF keeps weights positive even for tokens present
		// in every document.
		idf[token] = math.Log(1+float64(n)/float64(1+count)) + 1
	}

	m.mu.Lock()
	m.idf = idf
	m.docCount = n
	m.trained = true
	m.trainedAt = time.Now()
	m.mu.Unlock()

	return nil
}

// Trained reports whether the model has been fitted.
func (m *TFIDF) Trained() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trained
}

// TrainedAt returns when the model was last fitted.
func (m *TFIDF) TrainedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trainedAt
}

// Score returns the cosine similarity of the TF-IDF vectors of the two
// profiles. Token weights are non-negative, so the result is in [0, 1].
func (m *TFIDF) Score(query, tmpl *recommend.FeatureProfile) float64 {
	m.mu.RLock()
	idf := m.idf
	docCount := m.docCount
	trained := m.trained
	m.mu.RUnlock()

	if !trained {
		return 0
	}

	qv := m.vectorize(profileTokens(query), idf, docCount)
	tv := m.vectorize(profileTokens(tmpl), idf, docCount)
	return sparseCosine(qv, tv)
}

// vectorize builds the TF-IDF weight map for a token sequence.
// Unseen tokens get the maximum IDF so rare query terms still count.
func (m *TFIDF) vectorize(tokens []string, idf map[string]float64, docCount int) map[string]float64 {
	if len(tokens) == 0 {
		return nil
	}

	tf := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		tf[token]++
	}

	unseenIDF := math.Log(1+float64(docCount)) + 1
	weights := make(map[string]float64, len(tf))
	for token, count := range tf {
		w, ok := idf[token]
		if !ok {
			w = unseenIDF
		}
		weights[token] = count * w
	}
	return weights
}

// sparseCosine computes cosine similarity over sparse weight maps.
func sparseCosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for token, wa := range a {
		normA += wa * wa
		if wb, ok := b[token]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// profileTokens flattens a feature profile into the token sequence the
// model trains and scores on: tag sets in sorted order plus description
// keywords. Sorting keeps the sequence deterministic.
func profileTokens(p *recommend.FeatureProfile) []string {
	tokens := make([]string, 0, 16)
	for _, set := range []map[string]struct{}{p.Industries, p.Audience, p.Style, p.SellingPoints} {
		tags := make([]string, 0, len(set))
		for tag := range set {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			tokens = append(tokens, ExtractKeywords(tag)...)
		}
	}
	tokens = append(tokens, ExtractKeywords(p.Description)...)
	return tokens
}
