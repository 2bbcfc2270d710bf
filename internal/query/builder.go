// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns extracted clues into a ranked sequence of catalog
// search queries, best-first. Widening adds discriminating terms for
// short or known-ambiguous core names, and on retry after an empty
// first pass.
package query

import (
	"strings"

	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// Plan is the query sequence for one resolution.
type Plan struct {
	// Queries is the best-first sequence for the first search pass.
	Queries []string

	// Widened holds the broader queries reserved for a retry pass when
	// the first pass would otherwise end in NOT_FOUND. Empty when
	// widening already applied (short or ambiguous core names widen
	// automatically).
	Widened []string

	// Limited is true when brand or core name is missing. The decision
	// engine lowers its confidence ceiling for limited evidence.
	Limited bool
}

// Build derives the query plan from clues. No query is ever emitted
// without at least one of brand and core name; with neither present the
// plan is empty and limited.
func Build(c types.Clues, rs *rules.Set) Plan {
	var base []string
	if c.Brand != "" {
		base = append(base, rules.Clean(c.Brand))
	}
	if c.CoreName != "" {
		base = append(base, c.CoreName)
	}
	if len(base) == 0 {
		return Plan{Limited: true}
	}

	primary := strings.Join(base, " ")
	all := []string{primary}

	if c.Concentration != types.ConcUnknown {
		all = appendQuery(all, primary+" "+concToken(c.Concentration))
	}
	if len(c.Flankers) > 0 {
		all = appendQuery(all, primary+" "+strings.Join(c.Flankers, " "))
	}
	if len(c.Notes) > 0 {
		notes := c.Notes
		if len(notes) > 2 {
			notes = notes[:2]
		}
		widest := primary
		if c.Concentration != types.ConcUnknown {
			widest += " " + concToken(c.Concentration)
		}
		if len(c.Flankers) > 0 {
			widest += " " + strings.Join(c.Flankers, " ")
		}
		all = appendQuery(all, widest+" "+strings.Join(notes, " "))
	}

	max := rs.Thresholds.MaxQueries
	if max > 0 && len(all) > max {
		all = all[:max]
	}

	plan := Plan{Limited: !c.Searchable()}
	if autoWiden(c, rs) {
		plan.Queries = all
		return plan
	}
	plan.Queries = all[:1]
	plan.Widened = all[1:]
	return plan
}

// autoWiden reports whether the core name alone is too weak a key:
// short names and reserved ambiguous names widen without waiting for an
// empty first pass.
func autoWiden(c types.Clues, rs *rules.Set) bool {
	if c.CoreName == "" {
		return false
	}
	if len(c.CoreName) <= rs.Thresholds.ShortNameLen {
		return true
	}
	return rs.IsShortName(c.CoreName)
}

func appendQuery(list []string, q string) []string {
	q = strings.Join(strings.Fields(q), " ")
	for _, existing := range list {
		if existing == q {
			return list
		}
	}
	return append(list, q)
}

// concToken maps the concentration enum back to its canonical query token.
func concToken(c types.Concentration) string {
	return strings.ToLower(string(c))
}
