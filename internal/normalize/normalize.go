// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans raw listing text for matching: lowercasing,
// diacritic folding, retailer-noise stripping, size parsing, exclusion
// detection, and synonym canonicalization. Normalization is pure and
// idempotent: normalizing already-normalized text is the identity.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/meshintel/fragmapper/internal/rules"
)

// Result carries the normalized text and everything stripped from it.
type Result struct {
	// Text is the cleaned, synonym-canonicalized matching text.
	Text string

	// NoiseTerms lists retailer noise removed from the text (condition
	// markers, size spans, marketing fluff). Discarded before matching.
	NoiseTerms []string

	// Exclusions lists terms marking the listing as non-resolvable to a
	// canonical full-bottle page (decant, sample, empty bottle).
	Exclusions []string

	// SizeML is the bottle size in milliliters, 0 when absent. Ounce
	// sizes are converted (1 fl oz = 29.5735 ml).
	SizeML int
}

var (
	mlPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ml|millilitres?|milliliters?)\b`)
	ozPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:fl\.?\s*oz|oz|ounces?)\b`)
)

const mlPerOz = 29.5735

// Normalize cleans raw against the rule set. It never fails; unmapped
// tokens pass through unchanged.
func Normalize(raw string, rs *rules.Set) Result {
	var res Result

	text := rules.Fold(raw)

	// Exclusion detection runs on the folded text before any removal so
	// multi-word terms are still intact.
	for _, term := range rs.ExclusionTerms {
		if containsTerm(text, rules.Fold(term)) {
			res.Exclusions = append(res.Exclusions, term)
		}
	}

	text, sizeML, sizeSpans := stripSizes(text)
	res.SizeML = sizeML
	res.NoiseTerms = append(res.NoiseTerms, sizeSpans...)

	for _, term := range rs.NoiseTerms {
		folded := rules.Fold(term)
		stripped, found := stripTerm(text, folded)
		if found {
			res.NoiseTerms = append(res.NoiseTerms, folded)
			text = stripped
		}
	}

	text = rules.Clean(text)
	text = applySynonyms(text, rs.Synonyms)

	res.Text = strings.Join(strings.Fields(text), " ")
	return res
}

// stripSizes removes every size span and returns the first size in ml.
func stripSizes(text string) (stripped string, sizeML int, spans []string) {
	if m := mlPattern.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		sizeML = int(v)
	} else if m := ozPattern.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		sizeML = int(v * mlPerOz)
	}

	for _, p := range []*regexp.Regexp{mlPattern, ozPattern} {
		for _, span := range p.FindAllString(text, -1) {
			spans = append(spans, strings.Join(strings.Fields(span), " "))
		}
		text = p.ReplaceAllString(text, " ")
	}
	return text, sizeML, spans
}

// containsTerm reports whether term occurs in text on word boundaries.
func containsTerm(text, term string) bool {
	return termPattern(term).MatchString(text)
}

// stripTerm removes every word-bounded occurrence of term.
func stripTerm(text, term string) (string, bool) {
	p := termPattern(term)
	if !p.MatchString(text) {
		return text, false
	}
	return p.ReplaceAllString(text, " "), true
}

// termPattern builds a word-bounded pattern for a literal term. Terms
// ending in a non-word rune ("100%") drop the trailing boundary.
func termPattern(term string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(term)
	pattern := `\b` + quoted
	last := term[len(term)-1]
	if isWordByte(last) {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
}

// applySynonyms rewrites surface phrases to canonical tokens, longest
// phrase first so "eau de parfum" wins over "parfum".
func applySynonyms(text string, synonyms map[string]string) string {
	phrases := make([]string, 0, len(synonyms))
	for phrase := range synonyms {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	for _, phrase := range phrases {
		target := synonyms[phrase]
		folded := rules.Clean(phrase)
		if folded == "" || folded == target {
			continue
		}
		p := regexp.MustCompile(`\b` + regexp.QuoteMeta(folded) + `\b`)
		text = p.ReplaceAllString(text, target)
	}
	return text
}
