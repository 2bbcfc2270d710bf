// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package clues extracts structured attributes from normalized listing
// text: brand, core name, flanker terms, concentration, year, target
// audience, notes, and bottle cues. Extraction is deterministic:
// identical normalized text always yields identical clues.
package clues

import (
	"strings"
	"time"

	"github.com/meshintel/fragmapper/internal/normalize"
	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// Extract pulls clues from a normalized listing. When the brand lexicon
// has no hit the leading token is taken as a provisional brand; the
// scorer dampens name similarity for provisional brands.
func Extract(n normalize.Result, rs *rules.Set) types.Clues {
	return extract(n, rs, true)
}

// ExtractTitle parses a candidate page title with the same vocabulary
// as listing extraction, but never guesses a provisional brand: titles
// that do not start with a known house keep their full name.
func ExtractTitle(title string, rs *rules.Set) types.Clues {
	return extract(normalize.Normalize(title, rs), rs, false)
}

func extract(n normalize.Result, rs *rules.Set, guessBrand bool) types.Clues {
	c := types.Clues{
		SizeML:     n.SizeML,
		NoiseTerms: n.NoiseTerms,
	}

	text := n.Text

	if name, matched, ok := rs.MatchBrandPrefix(text); ok {
		c.Brand = name
		text = strings.TrimSpace(text[matched:])
	} else if guessBrand {
		if fields := strings.Fields(text); len(fields) > 0 {
			c.Brand = fields[0]
			c.BrandProvisional = true
			text = strings.TrimSpace(text[len(fields[0]):])
		}
	}

	tokens := strings.Fields(text)
	var core []string
	maxYear := time.Now().Year() + 1

	for i := 0; i < len(tokens); {
		if term, size := matchNgram(tokens, i, rs.Flankers); size > 0 {
			c.Flankers = appendUnique(c.Flankers, term)
			i += size
			continue
		}
		if term, size := matchNgram(tokens, i, rs.BottleCues); size > 0 {
			c.BottleCues = appendUnique(c.BottleCues, term)
			i += size
			continue
		}

		tok := tokens[i]
		i++

		if conc, ok := rs.Concentrations[tok]; ok {
			if c.Concentration == types.ConcUnknown {
				c.Concentration = conc
			}
			continue
		}
		if aud, ok := rs.Audiences[tok]; ok {
			if c.Audience == types.AudienceUnknown {
				c.Audience = aud
			}
			continue
		}
		if y := plausibleYear(tok, maxYear); y > 0 {
			if c.Year == 0 {
				c.Year = y
			}
			continue
		}

		// Notes stay in the core name: fragrance names reuse note words
		// ("Tobacco Vanille"), so they are recorded as soft signals
		// without being carved out of the name.
		if containsTerm(rs.Notes, tok) {
			c.Notes = appendUnique(c.Notes, tok)
		}

		core = append(core, tok)
	}

	c.CoreName = strings.Join(core, " ")
	return c
}

// matchNgram greedily matches the longest lexicon phrase starting at
// tokens[i], trying trigrams down to single tokens. Returns the folded
// phrase and the number of tokens consumed, or 0 when nothing matches.
func matchNgram(tokens []string, i int, lexicon []string) (string, int) {
	for n := 3; n >= 1; n-- {
		if i+n > len(tokens) {
			continue
		}
		gram := strings.Join(tokens[i:i+n], " ")
		if containsTerm(lexicon, gram) {
			return gram, n
		}
	}
	return "", 0
}

func containsTerm(lexicon []string, term string) bool {
	for _, entry := range lexicon {
		if rules.Clean(entry) == term {
			return true
		}
	}
	return false
}

func appendUnique(list []string, term string) []string {
	for _, t := range list {
		if t == term {
			return list
		}
	}
	return append(list, term)
}

// plausibleYear parses tok as a product year in [1900, current+1].
func plausibleYear(tok string, maxYear int) int {
	if len(tok) != 4 {
		return 0
	}
	y := 0
	for i := 0; i < 4; i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0
		}
		y = y*10 + int(tok[i]-'0')
	}
	if y < 1900 || y > maxYear {
		return 0
	}
	return y
}
