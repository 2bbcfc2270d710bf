// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries external fragrance catalog indexes and
// returns candidate record summaries. Each catalog (Parfumo,
// Fragrantica) implements the Client interface; the engine treats the
// clients as collaborators that may fail transiently, in which case
// their evidence is simply absent.
package catalog

import (
	"context"

	"github.com/meshintel/fragmapper/internal/clues"
	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// Client searches a single catalog index.
type Client interface {
	Name() string

	// SeparatesConcentrations reports whether the catalog keeps one
	// page per concentration. Only then does the concentration gate
	// apply to its candidates.
	SeparatesConcentrations() bool

	// Search runs one query and returns a bounded candidate list.
	// Transient failures return an error; the caller absorbs it as
	// zero evidence.
	Search(ctx context.Context, query string, rs *rules.Set, cfg types.CatalogConfig) ([]types.CandidateRecord, error)
}

const defaultMaxResults = 10

// maxResults bounds the candidate set per query: the configured result
// limit, clamped by the rule set's max_candidates threshold.
func maxResults(cfg types.CatalogConfig, rs *rules.Set) int {
	limit := cfg.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}
	if m := rs.Thresholds.MaxCandidates; m > 0 && m < limit {
		limit = m
	}
	return limit
}

// deriveFromTitle reads concentration, flanker terms, and year out of a
// candidate title with the same vocabulary used for listing extraction.
func deriveFromTitle(title string, rs *rules.Set) (types.Concentration, []string, int) {
	c := clues.ExtractTitle(title, rs)
	return c.Concentration, c.Flankers, c.Year
}
