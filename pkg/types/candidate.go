// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CandidateRecord is one catalog entry returned by a catalog index
// client. The URL is the canonical identifier and unique key; derived
// fields are best-effort readings of the candidate's title and page.
// The engine only reads candidate records, never mutates them.
type CandidateRecord struct {
	// URL is the canonical catalog page address.
	URL string `json:"url" yaml:"url"`

	// Title is the candidate page title as returned by the index.
	Title string `json:"title" yaml:"title"`

	// Brand is the fragrance house as reported by the index.
	Brand string `json:"brand" yaml:"brand"`

	// Concentration is derived from the title or page when possible.
	Concentration Concentration `json:"concentration,omitempty" yaml:"concentration,omitempty"`

	// Flankers lists edition terms derived from the title.
	Flankers []string `json:"flankers,omitempty" yaml:"flankers,omitempty"`

	// Year is the release year when derivable; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Source identifies which catalog backend found this candidate
	// (e.g. "parfumo", "fragrantica").
	Source string `json:"source" yaml:"source"`

	// Verified is true when the backend guarantees the URL is a
	// canonical fragrance page rather than a search, listing, review,
	// or forum page. Unverified candidates take a scoring penalty.
	Verified bool `json:"verified" yaml:"verified"`

	// ConcentrationPaged is true when the source catalog keeps separate
	// pages per concentration; only then does the concentration gate apply.
	ConcentrationPaged bool `json:"concentration_paged" yaml:"concentration_paged"`
}

// GateKind identifies a hard pass/fail filter applied before soft scoring.
type GateKind string

const (
	GateBrand         GateKind = "brand"
	GateConcentration GateKind = "concentration"
	GateFlanker       GateKind = "flanker"
)

// ScoredCandidate pairs a candidate with its soft match score and any
// gate failures. A candidate with gate failures is excluded from the
// final ranked set regardless of score. Request-local.
type ScoredCandidate struct {
	Candidate    CandidateRecord `json:"candidate" yaml:"candidate"`
	Score        float64         `json:"score" yaml:"score"`
	GateFailures []GateKind      `json:"gate_failures,omitempty" yaml:"gate_failures,omitempty"`
}

// Passed reports whether the candidate cleared every applicable gate.
func (s ScoredCandidate) Passed() bool { return len(s.GateFailures) == 0 }
