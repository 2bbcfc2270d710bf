// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"math"
	"testing"

	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

func parfumoCandidate(url, title, brand string, conc types.Concentration, flankers []string) types.CandidateRecord {
	return types.CandidateRecord{
		URL:                url,
		Title:              title,
		Brand:              brand,
		Concentration:      conc,
		Flankers:           flankers,
		Source:             "parfumo",
		Verified:           true,
		ConcentrationPaged: true,
	}
}

// --- gates ---

func TestBrandGate(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage"}

	cands := []types.CandidateRecord{
		parfumoCandidate("https://p/Perfumes/Dior/Sauvage", "Sauvage", "Dior", types.ConcUnknown, nil),
		parfumoCandidate("https://p/Perfumes/Chanel/Allure", "Allure", "Chanel", types.ConcUnknown, nil),
	}

	ranked, rejected := Score(c, cands, rs)
	if len(ranked) != 1 || len(rejected) != 1 {
		t.Fatalf("ranked/rejected = %d/%d, want 1/1", len(ranked), len(rejected))
	}
	if rejected[0].GateFailures[0] != types.GateBrand {
		t.Errorf("GateFailures = %v, want [brand]", rejected[0].GateFailures)
	}
}

func TestBrandGateSkipsProvisionalBrand(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "zarko", BrandProvisional: true, CoreName: "molecule"}

	cands := []types.CandidateRecord{
		parfumoCandidate("https://p/Perfumes/Zarkoperfume/Molecule", "Molecule 234.38", "Zarkoperfume", types.ConcUnknown, nil),
	}

	ranked, rejected := Score(c, cands, rs)
	if len(rejected) != 0 {
		t.Errorf("provisional brand should never fail the brand gate: %v", rejected)
	}
	if len(ranked) != 1 {
		t.Fatalf("ranked = %d, want 1", len(ranked))
	}
}

func TestConcentrationGate(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage", Concentration: types.ConcEDP}

	edp := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_EDP", "Sauvage Eau de Parfum", "Dior", types.ConcEDP, nil)
	edt := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_EDT", "Sauvage Eau de Toilette", "Dior", types.ConcEDT, nil)

	ranked, rejected := Score(c, []types.CandidateRecord{edp, edt}, rs)
	if len(ranked) != 1 || ranked[0].Candidate.URL != edp.URL {
		t.Fatalf("ranked = %+v, want only the EDP page", ranked)
	}
	if len(rejected) != 1 || rejected[0].GateFailures[0] != types.GateConcentration {
		t.Errorf("rejected = %+v, want the EDT page on the concentration gate", rejected)
	}
}

func TestConcentrationGateSkipsUnpagedCatalogs(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage", Concentration: types.ConcEDP}

	// Fragrantica-style candidate: one page for all concentrations.
	cand := types.CandidateRecord{
		URL:           "https://f/perfume/Dior/Sauvage-31861.html",
		Title:         "Sauvage Eau de Toilette",
		Brand:         "Dior",
		Concentration: types.ConcEDT,
		Source:        "fragrantica",
		Verified:      true,
	}

	_, rejected := Score(c, []types.CandidateRecord{cand}, rs)
	if len(rejected) != 0 {
		t.Errorf("concentration gate must not apply to unpaged catalogs: %v", rejected)
	}
}

func TestFlankerGateBlocksBasePage(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage", Flankers: []string{"elixir"}}

	base := parfumoCandidate("https://p/Perfumes/Dior/Sauvage", "Sauvage", "Dior", types.ConcUnknown, nil)

	ranked, rejected := Score(c, []types.CandidateRecord{base}, rs)
	if len(ranked) != 0 {
		t.Fatalf("base page must not stand in for a flanker: %+v", ranked)
	}
	if len(rejected) != 1 || rejected[0].GateFailures[0] != types.GateFlanker {
		t.Errorf("rejected = %+v, want flanker gate failure", rejected)
	}
}

// --- soft score ---

func TestScorePerfectMatch(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage", Concentration: types.ConcEDP}

	cand := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_EDP", "Dior Sauvage Eau de Parfum", "Dior", types.ConcEDP, nil)

	ranked, _ := Score(c, []types.CandidateRecord{cand}, rs)
	if len(ranked) != 1 {
		t.Fatal("expected one ranked candidate")
	}
	// name 1.0*0.4 + flanker 1.0*0.25 + concentration 1.0*0.15 = 0.8
	if got := ranked[0].Score; math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Score = %v, want 0.8", got)
	}
}

func TestScoreTypoTolerance(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "savage"}

	cand := parfumoCandidate("https://p/Perfumes/Dior/Sauvage", "Dior Sauvage", "Dior", types.ConcUnknown, nil)

	ranked, _ := Score(c, []types.CandidateRecord{cand}, rs)
	if len(ranked) != 1 {
		t.Fatal("expected one ranked candidate")
	}
	// "savage" is within edit distance 1 of "sauvage"; the name term
	// should score as a full token match.
	if got := ranked[0].Score; got < 0.6 {
		t.Errorf("Score = %v, want at least 0.6 with typo absorbed", got)
	}
}

func TestScoreProvisionalBrandPenalty(t *testing.T) {
	rs := rules.Defaults()
	cand := parfumoCandidate("https://p/Perfumes/House/Thing", "House Thing", "House", types.ConcUnknown, nil)

	exact := types.Clues{Brand: "house", CoreName: "thing"}
	provisional := types.Clues{Brand: "house", BrandProvisional: true, CoreName: "thing"}

	rankedExact, _ := Score(exact, []types.CandidateRecord{cand}, rs)
	rankedProv, _ := Score(provisional, []types.CandidateRecord{cand}, rs)

	if rankedProv[0].Score >= rankedExact[0].Score {
		t.Errorf("provisional %v should score below exact %v", rankedProv[0].Score, rankedExact[0].Score)
	}
}

func TestScoreUnverifiedPenalty(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage"}

	verified := parfumoCandidate("https://p/a", "Dior Sauvage", "Dior", types.ConcUnknown, nil)
	unverified := verified
	unverified.URL = "https://p/b"
	unverified.Verified = false

	ranked, _ := Score(c, []types.CandidateRecord{verified, unverified}, rs)
	if len(ranked) != 2 {
		t.Fatal("expected two ranked candidates")
	}
	diff := ranked[0].Score - ranked[1].Score
	if ranked[0].Candidate.URL != verified.URL || math.Abs(diff-rs.Thresholds.VerificationPendingPenalty) > 1e-9 {
		t.Errorf("verified candidate should lead by the penalty; got %+v", ranked)
	}
}

func TestFlankerOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both base", nil, nil, 1},
		{"listing flanker vs base", []string{"elixir"}, nil, 0},
		{"exact", []string{"elixir"}, []string{"elixir"}, 1},
		{"partial", []string{"elixir", "intense"}, []string{"elixir"}, 0.5},
		{"disjoint", []string{"elixir"}, []string{"sport"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flankerOverlap(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("flankerOverlap = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- ordering ---

func TestRankedOrderDeterministic(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage"}

	a := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_A", "Dior Sauvage", "Dior", types.ConcUnknown, nil)
	b := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_B", "Dior Sauvage", "Dior", types.ConcUnknown, nil)

	for i := 0; i < 5; i++ {
		ranked, _ := Score(c, []types.CandidateRecord{b, a}, rs)
		if ranked[0].Candidate.URL != a.URL {
			t.Fatalf("tie must break by URL order, got %q first", ranked[0].Candidate.URL)
		}
	}
}

func TestRecencyTieBreak(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Dior", CoreName: "sauvage"}

	older := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_2015", "Dior Sauvage", "Dior", types.ConcUnknown, nil)
	older.Year = 2015
	newer := parfumoCandidate("https://p/Perfumes/Dior/Sauvage_2021", "Dior Sauvage", "Dior", types.ConcUnknown, nil)
	newer.Year = 2021

	ranked, _ := Score(c, []types.CandidateRecord{older, newer}, rs)
	if ranked[0].Candidate.Year != 2021 {
		t.Errorf("with no year in the listing the newest formulation wins; got %d first", ranked[0].Candidate.Year)
	}
}

func TestYearProximity(t *testing.T) {
	rs := rules.Defaults()
	c := types.Clues{Brand: "Creed", CoreName: "aventus", Year: 2010}

	near := parfumoCandidate("https://p/a", "Creed Aventus", "Creed", types.ConcUnknown, nil)
	near.Year = 2011
	far := parfumoCandidate("https://p/b", "Creed Aventus", "Creed", types.ConcUnknown, nil)
	far.Year = 2020

	ranked, _ := Score(c, []types.CandidateRecord{far, near}, rs)
	if ranked[0].Candidate.Year != 2011 {
		t.Errorf("year-proximate candidate should rank first, got %d", ranked[0].Candidate.Year)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("scores should differ: %v vs %v", ranked[0].Score, ranked[1].Score)
	}
}
