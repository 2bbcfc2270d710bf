// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"reflect"
	"testing"

	"github.com/meshintel/fragmapper/internal/rules"
)

// --- normalization ---

func TestNormalizeText(t *testing.T) {
	rs := rules.Defaults()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and synonym", "Dior Sauvage Eau de Parfum", "dior sauvage edp"},
		{"noise and size stripped", "Dior Sauvage EDP 100ml tester spray", "dior sauvage edp"},
		{"diacritics folded", "Lancôme La Vie Est Belle", "lancome la vie est belle"},
		{"audience synonym", "Versace Eros Pour Homme", "versace eros men"},
		{"punctuation collapsed", "Dolce & Gabbana - The One!", "dolce gabbana the one"},
		{"marketing fluff", "RARE!! Creed Aventus 100% authentic new in box", "creed aventus"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, rs)
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rs := rules.Defaults()

	inputs := []string{
		"Dior Sauvage Eau de Parfum 100ml tester",
		"Versace Eros Flame pour homme",
		"Hermès Terre d'Hermès parfum",
		"YSL Y EDP Intense",
	}
	for _, in := range inputs {
		once := Normalize(in, rs)
		twice := Normalize(once.Text, rs)
		if twice.Text != once.Text {
			t.Errorf("Normalize(%q) not idempotent: %q -> %q", in, once.Text, twice.Text)
		}
	}
}

// --- sizes ---

func TestStripSizes(t *testing.T) {
	rs := rules.Defaults()

	tests := []struct {
		name   string
		in     string
		wantML int
	}{
		{"ml", "Dior Sauvage 100ml", 100},
		{"ml with space", "Dior Sauvage 50 ml", 50},
		{"fluid ounces", "Dior Sauvage 3.4 fl oz", 100},
		{"ounces", "Dior Sauvage 1.7oz", 50},
		{"first ml wins", "Sauvage 100ml with free 10ml", 100},
		{"no size", "Dior Sauvage", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, rs)
			if got.SizeML != tt.wantML {
				t.Errorf("SizeML = %d, want %d", got.SizeML, tt.wantML)
			}
		})
	}
}

func TestSizeSpansRecordedAsNoise(t *testing.T) {
	rs := rules.Defaults()
	got := Normalize("Dior Sauvage 100ml tester", rs)

	want := []string{"100ml", "tester"}
	if !reflect.DeepEqual(got.NoiseTerms, want) {
		t.Errorf("NoiseTerms = %v, want %v", got.NoiseTerms, want)
	}
}

// --- exclusions ---

func TestExclusionDetection(t *testing.T) {
	rs := rules.Defaults()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"decant", "Dior Sauvage 5ml decant", []string{"decant"}},
		{"sample", "Creed Aventus sample spray", []string{"sample"}},
		{"multi-word term", "Chanel No. 5 empty bottle", []string{"empty bottle"}},
		{"tester is noise not exclusion", "Dior Sauvage EDP tester", nil},
		{"clean listing", "Dior Sauvage EDP", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in, rs)
			if !reflect.DeepEqual(got.Exclusions, tt.want) {
				t.Errorf("Exclusions = %v, want %v", got.Exclusions, tt.want)
			}
		})
	}
}

// --- synonyms ---

func TestApplySynonymsLongestFirst(t *testing.T) {
	rs := rules.Defaults()

	// "extrait de parfum" must rewrite as a whole, not as "extrait" +
	// leftover "de parfum".
	got := Normalize("Roja Elysium Extrait de Parfum", rs)
	if got.Text != "roja elysium extrait" {
		t.Errorf("Text = %q, want %q", got.Text, "roja elysium extrait")
	}
}

func TestSynonymWordBoundaries(t *testing.T) {
	rs := rules.Defaults()

	// "man" inside a longer word must not rewrite.
	got := Normalize("Giorgio Armani Mania", rs)
	if got.Text != "giorgio armani mania" {
		t.Errorf("Text = %q, want %q", got.Text, "giorgio armani mania")
	}
}
