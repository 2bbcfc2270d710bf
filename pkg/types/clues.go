// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the fragmapper
// resolution pipeline: extracted clues, catalog candidates, scored
// candidates, resolution results, and stage configuration.
package types

// Concentration is the fragrance oil strength category. Catalogs may or
// may not separate pages by concentration; ConcUnknown means the input
// (or candidate title) carried no concentration evidence.
type Concentration string

const (
	ConcUnknown Concentration = ""
	ConcEDT     Concentration = "EDT"
	ConcEDP     Concentration = "EDP"
	ConcParfum  Concentration = "Parfum"
	ConcExtrait Concentration = "Extrait"
	ConcCologne Concentration = "Cologne"
)

// Audience is the target audience derived from synonym-normalized
// markers ("pour homme", "for women", "unisex").
type Audience string

const (
	AudienceUnknown Audience = ""
	AudienceMen     Audience = "men"
	AudienceWomen   Audience = "women"
	AudienceUnisex  Audience = "unisex"
)

// Clues holds the structured attributes extracted from one normalized
// listing. Derived once per request and immutable thereafter; every
// field except Brand and CoreName is optional.
type Clues struct {
	// Brand is the fragrance house, canonicalized through the brand lexicon.
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`

	// BrandProvisional is true when Brand did not come from the lexicon
	// and is only a guess from the leading span of the text. The scorer
	// dampens name similarity for provisional brands.
	BrandProvisional bool `json:"brand_provisional,omitempty" yaml:"brand_provisional,omitempty"`

	// CoreName is the base fragrance name with brand, flanker,
	// concentration, and audience tokens removed.
	CoreName string `json:"core_name,omitempty" yaml:"core_name,omitempty"`

	// Flankers lists normalized edition terms in first-seen order
	// ("intense", "sport", "limited edition"). Disjoint from the
	// concentration vocabulary by rule-set validation.
	Flankers []string `json:"flankers,omitempty" yaml:"flankers,omitempty"`

	// Concentration is the extracted strength category, or ConcUnknown.
	Concentration Concentration `json:"concentration,omitempty" yaml:"concentration,omitempty"`

	// Year is the release year when a plausible 4-digit year appears in
	// the listing; 0 means absent.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// SizeML is the bottle size in milliliters (oz inputs converted);
	// treated as retailer noise for matching but kept for history records.
	SizeML int `json:"size_ml,omitempty" yaml:"size_ml,omitempty"`

	// Audience is the target audience marker, or AudienceUnknown.
	Audience Audience `json:"audience,omitempty" yaml:"audience,omitempty"`

	// Notes lists distinctive fragrance notes found in the listing
	// ("oud", "vanilla"). Soft scoring signal only, never a gate.
	Notes []string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// BottleCues lists bottle descriptors ("blue bottle", "magnetic cap").
	// Soft scoring signal only.
	BottleCues []string `json:"bottle_cues,omitempty" yaml:"bottle_cues,omitempty"`

	// NoiseTerms lists the retailer noise stripped during normalization
	// ("tester", "100ml", "new in box"). Discarded before matching.
	NoiseTerms []string `json:"noise_terms,omitempty" yaml:"noise_terms,omitempty"`
}

// HasFlankers reports whether any edition term was extracted.
func (c Clues) HasFlankers() bool { return len(c.Flankers) > 0 }

// Searchable reports whether the clues carry both a brand and a core
// name. When either is missing the query builder still searches on what
// is present, but the decision engine lowers its confidence ceiling.
func (c Clues) Searchable() bool { return c.Brand != "" && c.CoreName != "" }
