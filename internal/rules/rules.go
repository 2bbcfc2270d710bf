// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules loads and validates the externally editable rule set:
// brand, flanker, note, and noise lexicons, the synonym table, and the
// scoring weights and decision thresholds. Rules are data, not code;
// the engine treats them as versioned, reloadable input.
package rules

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/meshintel/fragmapper/pkg/types"
)

// ErrGateConflict marks a rule set whose flanker and concentration
// vocabularies overlap. A term classified both ways would let a
// candidate slip through the wrong gate, so loading fails outright.
var ErrGateConflict = errors.New("gate conflict: term in both flanker and concentration vocabularies")

// Brand is one lexicon entry: the canonical house name plus surface
// aliases seen in listings ("ysl" for "Yves Saint Laurent").
type Brand struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Weights holds the soft-score term weights. Terms are normalized to
// [0,1] before weighting; the listed order is also the tie-break order.
type Weights struct {
	Name          float64 `yaml:"name"`
	Flanker       float64 `yaml:"flanker"`
	Concentration float64 `yaml:"concentration"`
	NotesAudience float64 `yaml:"notes_audience"`
	Year          float64 `yaml:"year"`
}

// Thresholds holds the decision-engine and scorer tunables.
type Thresholds struct {
	// ConfidenceMargin is the minimum gap between the top and runner-up
	// scores required to accept a single match.
	ConfidenceMargin float64 `yaml:"confidence_margin"`

	// MinAcceptScore is the minimum top score for a single match.
	MinAcceptScore float64 `yaml:"min_accept_score"`

	// PlausibilityFloor is the minimum score for a candidate to appear
	// in an ambiguous set.
	PlausibilityFloor float64 `yaml:"plausibility_floor"`

	// MaxCandidates bounds the candidate set per catalog query.
	MaxCandidates int `yaml:"max_candidates"`

	// MaxQueries bounds the query sequence per resolution.
	MaxQueries int `yaml:"max_queries"`

	// YearWindow is the year-proximity window in years; differences
	// beyond it score zero.
	YearWindow int `yaml:"year_window"`

	// ShortNameLen is the core-name length at or under which query
	// widening triggers automatically.
	ShortNameLen int `yaml:"short_name_len"`

	// ProvisionalBrandPenalty multiplies the name-similarity term when
	// the brand was guessed rather than found in the lexicon.
	ProvisionalBrandPenalty float64 `yaml:"provisional_brand_penalty"`

	// VerificationPendingPenalty is subtracted from the weighted score
	// of candidates the catalog client could not verify as canonical pages.
	VerificationPendingPenalty float64 `yaml:"verification_pending_penalty"`
}

// Set is one complete, validated rule set.
type Set struct {
	Version string `yaml:"version"`

	Brands []Brand `yaml:"brands"`

	// Flankers is the open edition-term lexicon ("intense", "elixir").
	Flankers []string `yaml:"flankers"`

	// Synonyms maps surface phrases to canonical tokens, applied by the
	// normalizer longest-phrase-first ("eau de parfum" -> "edp",
	// "pour homme" -> "men"). Canonical tokens map to themselves so
	// normalization is a fixed point.
	Synonyms map[string]string `yaml:"synonyms"`

	// Concentrations maps canonical tokens to the concentration enum.
	// This vocabulary is closed; nothing outside it is ever classified
	// as a concentration.
	Concentrations map[string]types.Concentration `yaml:"concentrations"`

	// Audiences maps canonical tokens to the target audience.
	Audiences map[string]types.Audience `yaml:"audiences"`

	NoiseTerms     []string `yaml:"noise_terms"`
	ExclusionTerms []string `yaml:"exclusion_terms"`
	Notes          []string `yaml:"notes"`
	BottleCues     []string `yaml:"bottle_cues"`

	// ShortNames lists core names known to be ambiguous across the
	// catalog ("eros", "oud"); they trigger query widening even when
	// longer than ShortNameLen.
	ShortNames []string `yaml:"short_names"`

	Weights    Weights    `yaml:"weights"`
	Thresholds Thresholds `yaml:"thresholds"`

	// brandIndex maps folded alias -> canonical name, built on load.
	brandIndex map[string]string
}

// Fold lowercases s and strips diacritics so lexicon matching is
// accent-insensitive ("Privée" and "privee" collide).
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// Clean folds s and reduces it to the matching character set: letters,
// digits, hyphens, dots, and single spaces. Lexicon index keys and
// normalized listing text go through the same reduction so "Dolce &
// Gabbana" and "dolce gabbana" meet in the middle.
func Clean(s string) string {
	folded := Fold(s)
	var b strings.Builder
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		// Hyphens and dots survive inside tokens only; a freestanding
		// "-" left by a separator is dropped.
		if strings.Trim(f, "-.") == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// finish builds derived indexes and validates invariants.
func (s *Set) finish() error {
	s.brandIndex = make(map[string]string, len(s.Brands)*2)
	for _, b := range s.Brands {
		s.brandIndex[Clean(b.Name)] = b.Name
		for _, a := range b.Aliases {
			s.brandIndex[Clean(a)] = b.Name
		}
	}
	return s.validate()
}

// validate enforces the disjoint-vocabulary invariant between flanker
// terms and the concentration vocabulary, including synonym targets.
func (s *Set) validate() error {
	conc := make(map[string]bool, len(s.Concentrations))
	for token := range s.Concentrations {
		conc[Fold(token)] = true
	}
	for surface, target := range s.Synonyms {
		if conc[Fold(target)] {
			conc[Fold(surface)] = true
		}
	}
	for _, f := range s.Flankers {
		if conc[Fold(f)] {
			return fmt.Errorf("%w: %q", ErrGateConflict, f)
		}
	}
	return nil
}

// CanonicalBrand resolves a brand surface form to its canonical name.
func (s *Set) CanonicalBrand(name string) (string, bool) {
	canonical, ok := s.brandIndex[Clean(name)]
	return canonical, ok
}

// SameBrand reports whether two brand surface forms resolve to the same
// house under case-insensitive canonical-synonym comparison.
func (s *Set) SameBrand(a, b string) bool {
	fa, fb := Clean(a), Clean(b)
	if fa == fb {
		return fa != ""
	}
	ca, okA := s.brandIndex[fa]
	cb, okB := s.brandIndex[fb]
	return okA && okB && ca == cb
}

// MatchBrandPrefix finds the longest brand alias that prefixes the
// cleaned text (on a word boundary) and returns the canonical name and
// the matched prefix length in bytes. ok is false when no alias matches.
func (s *Set) MatchBrandPrefix(cleaned string) (canonical string, matched int, ok bool) {
	for alias, name := range s.brandIndex {
		if !strings.HasPrefix(cleaned, alias) {
			continue
		}
		if len(cleaned) > len(alias) && cleaned[len(alias)] != ' ' {
			continue
		}
		if len(alias) > matched {
			canonical, matched, ok = name, len(alias), true
		}
	}
	return canonical, matched, ok
}

// IsFlanker reports whether token is in the flanker lexicon.
func (s *Set) IsFlanker(token string) bool {
	return containsFolded(s.Flankers, token)
}

// IsShortName reports whether name is in the reserved short-name
// ambiguity lexicon.
func (s *Set) IsShortName(name string) bool {
	return containsFolded(s.ShortNames, name)
}

func containsFolded(list []string, s string) bool {
	f := Fold(s)
	for _, item := range list {
		if Fold(item) == f {
			return true
		}
	}
	return false
}
