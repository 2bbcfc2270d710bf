// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import "github.com/meshintel/fragmapper/pkg/types"

// Defaults returns the built-in rule set used when no rules file is
// configured. The shipped configs/rules.yaml starts from the same data.
func Defaults() *Set {
	s := &Set{
		Version: "builtin",
		Brands: []Brand{
			{Name: "Chanel"},
			{Name: "Dior", Aliases: []string{"christian dior"}},
			{Name: "Versace"},
			{Name: "Yves Saint Laurent", Aliases: []string{"ysl", "saint laurent"}},
			{Name: "Guerlain"},
			{Name: "Giorgio Armani", Aliases: []string{"armani", "emporio armani"}},
			{Name: "Tom Ford"},
			{Name: "Creed"},
			{Name: "Paco Rabanne", Aliases: []string{"rabanne"}},
			{Name: "Jean Paul Gaultier", Aliases: []string{"jpg", "gaultier"}},
			{Name: "Dolce & Gabbana", Aliases: []string{"dolce gabbana", "d&g", "dolce and gabbana"}},
			{Name: "Hugo Boss", Aliases: []string{"boss"}},
			{Name: "Hermès", Aliases: []string{"hermes"}},
			{Name: "Givenchy"},
			{Name: "Lancôme", Aliases: []string{"lancome"}},
			{Name: "Viktor & Rolf", Aliases: []string{"viktor rolf", "viktor and rolf"}},
			{Name: "Maison Francis Kurkdjian", Aliases: []string{"mfk", "francis kurkdjian"}},
			{Name: "Parfums de Marly", Aliases: []string{"pdm", "de marly"}},
			{Name: "Xerjoff"},
			{Name: "Amouage"},
			{Name: "Montblanc", Aliases: []string{"mont blanc"}},
			{Name: "Prada"},
			{Name: "Valentino"},
			{Name: "Azzaro"},
			{Name: "Carolina Herrera", Aliases: []string{"herrera"}},
		},
		Flankers: []string{
			"intense", "absolu", "absolute", "elixir", "sport", "nuit",
			"noir", "extreme", "privee", "reserve", "limited edition",
			"collector", "oud edition", "exclusive", "le parfum edition",
			"summer", "electrique", "flame", "energy", "legere",
		},
		Synonyms: map[string]string{
			// concentration surface forms
			"eau de parfum":     "edp",
			"eau de toilette":   "edt",
			"eau de cologne":    "cologne",
			"extrait de parfum": "extrait",
			"pure parfum":       "parfum",
			"parfum extrait":    "extrait",
			// audience surface forms
			"pour homme": "men",
			"pour femme": "women",
			"for men":    "men",
			"for women":  "women",
			"for him":    "men",
			"for her":    "women",
			"homme":      "men",
			"femme":      "women",
			"man":        "men",
			"woman":      "women",
			"mens":       "men",
			"womens":     "women",
			// fixed points
			"edp":     "edp",
			"edt":     "edt",
			"cologne": "cologne",
			"extrait": "extrait",
			"parfum":  "parfum",
			"men":     "men",
			"women":   "women",
			"unisex":  "unisex",
		},
		Concentrations: map[string]types.Concentration{
			"edt":     types.ConcEDT,
			"edp":     types.ConcEDP,
			"parfum":  types.ConcParfum,
			"extrait": types.ConcExtrait,
			"cologne": types.ConcCologne,
		},
		Audiences: map[string]types.Audience{
			"men":    types.AudienceMen,
			"women":  types.AudienceWomen,
			"unisex": types.AudienceUnisex,
		},
		NoiseTerms: []string{
			"spray", "authentic", "genuine", "original", "100%",
			"tester", "new in box", "nib", "sealed", "brand new",
			"free shipping", "fast shipping", "bundle", "lot", "rare",
			"discontinued", "hard to find", "gift set", "with box", "no box",
		},
		ExclusionTerms: []string{
			"decant", "sample", "empty bottle", "box only",
			"travel size", "vial", "atomizer", "refill",
		},
		Notes: []string{
			"oud", "vanilla", "bergamot", "lavender", "ambroxan", "amber",
			"vetiver", "tonka", "iris", "rose", "jasmine", "sandalwood",
			"leather", "tobacco", "incense", "patchouli", "citrus",
			"cardamom", "pineapple", "apple", "mint", "saffron", "musk",
		},
		BottleCues: []string{
			"blue bottle", "black bottle", "red bottle", "magnetic cap",
			"frosted glass", "ribbed bottle", "medusa cap", "shield bottle",
		},
		ShortNames: []string{
			"eros", "oud", "man", "sauvage", "y", "k", "l'homme", "homme",
		},
		Weights: Weights{
			Name:          0.4,
			Flanker:       0.25,
			Concentration: 0.15,
			NotesAudience: 0.1,
			Year:          0.1,
		},
		Thresholds: Thresholds{
			ConfidenceMargin:           0.12,
			MinAcceptScore:             0.55,
			PlausibilityFloor:          0.35,
			MaxCandidates:              10,
			MaxQueries:                 4,
			YearWindow:                 2,
			ShortNameLen:               4,
			ProvisionalBrandPenalty:    0.75,
			VerificationPendingPenalty: 0.1,
		},
	}
	if err := s.finish(); err != nil {
		// The built-in set is validated by tests; a conflict here is a
		// programming error.
		panic(err)
	}
	return s
}
