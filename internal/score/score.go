// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes the multi-factor match score between extracted
// clues and catalog candidates. Hard gates (brand, concentration,
// flanker) run first; candidates failing any gate never reach the
// ranked set regardless of soft score.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/meshintel/fragmapper/internal/clues"
	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// components holds the unweighted soft-score terms, each in [0,1].
// The field order is the tie-break order.
type components struct {
	name          float64
	flanker       float64
	concentration float64
	notesAudience float64
	year          float64
}

type scored struct {
	rec   types.ScoredCandidate
	comps components
	// candYear is kept for the recency tie-break.
	candYear int
}

// Score gates and scores every candidate. It returns the gate-passing
// candidates ranked best-first with deterministic tie-breaking, and the
// gated-out candidates with their failures recorded.
func Score(c types.Clues, cands []types.CandidateRecord, rs *rules.Set) (ranked, rejected []types.ScoredCandidate) {
	var passed []scored

	for _, cand := range cands {
		failures := gate(c, cand, rs)
		if len(failures) > 0 {
			rejected = append(rejected, types.ScoredCandidate{
				Candidate:    cand,
				GateFailures: failures,
			})
			continue
		}

		comps := soft(c, cand, rs)
		w := rs.Weights
		total := w.Name*comps.name +
			w.Flanker*comps.flanker +
			w.Concentration*comps.concentration +
			w.NotesAudience*comps.notesAudience +
			w.Year*comps.year
		if !cand.Verified {
			total -= rs.Thresholds.VerificationPendingPenalty
		}
		total = clamp01(total)

		passed = append(passed, scored{
			rec:      types.ScoredCandidate{Candidate: cand, Score: total},
			comps:    comps,
			candYear: cand.Year,
		})
	}

	sortRanked(passed, c)

	for _, s := range passed {
		ranked = append(ranked, s.rec)
	}
	return ranked, rejected
}

// gate applies the hard rules. A provisional (guessed) brand never
// disqualifies a candidate; its uncertainty is already priced into the
// name-similarity penalty.
func gate(c types.Clues, cand types.CandidateRecord, rs *rules.Set) []types.GateKind {
	var failures []types.GateKind

	if c.Brand != "" && !c.BrandProvisional && cand.Brand != "" && !rs.SameBrand(c.Brand, cand.Brand) {
		failures = append(failures, types.GateBrand)
	}

	if c.Concentration != types.ConcUnknown &&
		cand.ConcentrationPaged &&
		cand.Concentration != types.ConcUnknown &&
		cand.Concentration != c.Concentration {
		failures = append(failures, types.GateConcentration)
	}

	// A base page never stands in for a flanker: when the listing names
	// an edition, candidates without one are out.
	if c.HasFlankers() && len(cand.Flankers) == 0 {
		failures = append(failures, types.GateFlanker)
	}

	return failures
}

func soft(c types.Clues, cand types.CandidateRecord, rs *rules.Set) components {
	title := clues.ExtractTitle(cand.Title, rs)

	var comps components

	comps.name = nameSimilarity(c, cand, title, rs)
	if c.BrandProvisional {
		comps.name *= rs.Thresholds.ProvisionalBrandPenalty
	}

	comps.flanker = flankerOverlap(c.Flankers, cand.Flankers)

	if c.Concentration != types.ConcUnknown && cand.Concentration == c.Concentration {
		comps.concentration = 1
	}

	comps.notesAudience = notesAudience(c, cand, title)

	if c.Year != 0 && cand.Year != 0 {
		window := float64(rs.Thresholds.YearWindow)
		diff := math.Abs(float64(c.Year - cand.Year))
		if diff <= window {
			comps.year = 1 - diff/(window+1)
		}
	}

	return comps
}

// nameSimilarity measures brand+core-name token agreement between the
// clues and the candidate. Containment of the candidate name in the
// listing weighs more than the reverse: listings carry extra words,
// candidate titles rarely do.
func nameSimilarity(c types.Clues, cand types.CandidateRecord, title types.Clues, rs *rules.Set) float64 {
	clueTokens := nameTokens(c.Brand, c.CoreName)

	candBrand := cand.Brand
	if candBrand == "" {
		candBrand = title.Brand
	}
	candCore := title.CoreName
	if candCore == "" {
		candCore = rules.Clean(cand.Title)
	}
	candTokens := nameTokens(candBrand, candCore)

	if len(clueTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	matched := 0
	used := make([]bool, len(clueTokens))
	for _, ct := range candTokens {
		for i, lt := range clueTokens {
			if used[i] {
				continue
			}
			if tokensClose(ct, lt) {
				used[i] = true
				matched++
				break
			}
		}
	}

	inCand := float64(matched) / float64(len(candTokens))
	inClue := float64(matched) / float64(len(clueTokens))
	return 0.6*inCand + 0.4*inClue
}

func nameTokens(brand, core string) []string {
	joined := strings.TrimSpace(rules.Clean(brand) + " " + core)
	return strings.Fields(joined)
}

// tokensClose accepts exact matches and, for longer tokens, an edit
// distance of one to absorb listing typos ("savage" / "sauvage").
func tokensClose(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < 5 || len(b) < 5 {
		return false
	}
	return levenshtein(a, b) <= 1
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// flankerOverlap is the Jaccard index over normalized flanker sets.
// Two base fragrances (both sets empty) agree perfectly; a flanker
// candidate against a base listing scores zero.
func flankerOverlap(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[rules.Fold(t)] = true
	}
	inter, union := 0, len(set)
	for _, t := range b {
		f := rules.Fold(t)
		if set[f] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// notesAudience blends note overlap and audience agreement; whichever
// signals the listing actually carries decide the term.
func notesAudience(c types.Clues, cand types.CandidateRecord, title types.Clues) float64 {
	var parts, sum float64

	if len(c.Notes) > 0 {
		candText := rules.Clean(cand.Title)
		found := 0
		for _, note := range c.Notes {
			if strings.Contains(" "+candText+" ", " "+rules.Fold(note)+" ") {
				found++
			}
		}
		sum += float64(found) / float64(len(c.Notes))
		parts++
	}

	if c.Audience != types.AudienceUnknown && title.Audience != types.AudienceUnknown {
		if c.Audience == title.Audience {
			sum++
		}
		parts++
	}

	if parts == 0 {
		return 0
	}
	return sum / parts
}

// sortRanked orders candidates best-first. Equal totals fall back to
// the component terms in weight order; fully tied candidates differing
// only by year resolve to the most recent formulation when the listing
// named no year, then to URL order so output never depends on fetch
// timing.
func sortRanked(list []scored, c types.Clues) {
	const eps = 1e-9
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if d := a.rec.Score - b.rec.Score; math.Abs(d) > eps {
			return d > 0
		}
		for _, d := range []float64{
			a.comps.name - b.comps.name,
			a.comps.flanker - b.comps.flanker,
			a.comps.concentration - b.comps.concentration,
			a.comps.notesAudience - b.comps.notesAudience,
			a.comps.year - b.comps.year,
		} {
			if math.Abs(d) > eps {
				return d > 0
			}
		}
		if c.Year == 0 && a.candYear != b.candYear {
			return a.candYear > b.candYear
		}
		return a.rec.Candidate.URL < b.rec.Candidate.URL
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
