// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// MatchStatus is the terminal state of one resolution.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "MATCH"
	StatusAmbiguous MatchStatus = "AMBIGUOUS"
	StatusNotFound  MatchStatus = "NOT_FOUND"

	// StatusExcluded marks listings that can never map to a canonical
	// full-bottle page (decants, samples, empty bottles). Rendered as
	// NOT_FOUND at the boundary but kept distinct in history records.
	StatusExcluded MatchStatus = "EXCLUDED"
)

// MaxAmbiguousURLs bounds the candidate list in an ambiguous result.
const MaxAmbiguousURLs = 5

// ResolutionResult is the engine's sole externally visible output.
// Invariants: Ambiguous carries 2 to 5 URLs ordered best-first; Matched
// is only emitted when gates pass and the top score clears the
// confidence margin over the runner-up.
type ResolutionResult struct {
	Status MatchStatus `json:"status" yaml:"status"`

	// URL is set only when Status is StatusMatched.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Candidates holds the ambiguous URL set, best-first.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	// Confidence is the winning soft score for a match, informational only.
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Matched builds a single-match result.
func Matched(url string, confidence float64) ResolutionResult {
	return ResolutionResult{Status: StatusMatched, URL: url, Confidence: confidence}
}

// Ambiguous builds an ambiguous result from best-first URLs, truncated
// to MaxAmbiguousURLs.
func Ambiguous(urls []string) ResolutionResult {
	if len(urls) > MaxAmbiguousURLs {
		urls = urls[:MaxAmbiguousURLs]
	}
	return ResolutionResult{Status: StatusAmbiguous, Candidates: urls}
}

// NotFound builds the no-match result.
func NotFound() ResolutionResult {
	return ResolutionResult{Status: StatusNotFound}
}

// Excluded builds the excluded result (non-resolvable listing class).
func Excluded() ResolutionResult {
	return ResolutionResult{Status: StatusExcluded}
}

// Render produces the exact output contract: a single URL line for a
// match, "AMBIGUOUS" followed by one URL per line, or "NOT_FOUND".
// Nothing else is ever emitted.
func (r ResolutionResult) Render() string {
	switch r.Status {
	case StatusMatched:
		if r.URL != "" {
			return r.URL
		}
		return "NOT_FOUND"
	case StatusAmbiguous:
		if len(r.Candidates) == 0 {
			return "NOT_FOUND"
		}
		return "AMBIGUOUS\n" + strings.Join(r.Candidates, "\n")
	default:
		return "NOT_FOUND"
	}
}

// Report is the structured envelope for one resolution: the result plus
// the evidence behind it. Plain output renders only Result; --json
// emits the whole envelope for regression comparison.
type Report struct {
	Mode     string            `json:"mode" yaml:"mode"`
	Input    string            `json:"input" yaml:"input"`
	Clues    Clues             `json:"clues" yaml:"clues"`
	Queries  []string          `json:"queries,omitempty" yaml:"queries,omitempty"`
	Ranked   []ScoredCandidate `json:"ranked,omitempty" yaml:"ranked,omitempty"`
	Rejected []ScoredCandidate `json:"rejected,omitempty" yaml:"rejected,omitempty"`
	Result   ResolutionResult  `json:"result" yaml:"result"`
	Notes    []string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}
