// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decide applies the confidence thresholds to the ranked
// candidate list and produces the terminal resolution result. The
// decision is pure: no retries happen here, and no state survives it.
package decide

import (
	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// Decide turns the ranked (post-gate, best-first) candidates into a
// result. limited marks resolutions missing brand or core name; those
// get a raised acceptance bar so thin evidence cannot produce a
// confident single match.
func Decide(ranked []types.ScoredCandidate, limited bool, th rules.Thresholds) types.ResolutionResult {
	if len(ranked) == 0 {
		return types.NotFound()
	}

	minAccept := th.MinAcceptScore
	if limited {
		minAccept += th.ConfidenceMargin
	}

	top := ranked[0]

	if len(ranked) == 1 {
		if top.Score >= minAccept {
			return types.Matched(top.Candidate.URL, top.Score)
		}
		return types.NotFound()
	}

	second := ranked[1]
	if top.Score >= minAccept && top.Score-second.Score >= th.ConfidenceMargin {
		return types.Matched(top.Candidate.URL, top.Score)
	}

	var plausible []string
	for _, sc := range ranked {
		if sc.Score >= th.PlausibilityFloor {
			plausible = append(plausible, sc.Candidate.URL)
		}
		if len(plausible) == types.MaxAmbiguousURLs {
			break
		}
	}
	if len(plausible) >= 2 {
		return types.Ambiguous(plausible)
	}

	return types.NotFound()
}
