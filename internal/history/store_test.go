// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/meshintel/fragmapper/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{Dir: t.TempDir(), MaxList: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// --- fingerprints ---

func TestFingerprint(t *testing.T) {
	a := Fingerprint("desc-to-parfumo", "dior sauvage edp")
	b := Fingerprint("desc-to-parfumo", "dior sauvage edp")
	if a != b {
		t.Error("identical inputs must fingerprint identically")
	}
	if len(a) != 32 {
		t.Errorf("fingerprint length = %d, want 32 hex chars", len(a))
	}
	if a == Fingerprint("desc-to-fragrantica", "dior sauvage edp") {
		t.Error("mode must be part of the fingerprint")
	}
	if a == Fingerprint("desc-to-parfumo", "dior sauvage edt") {
		t.Error("input must be part of the fingerprint")
	}
}

// --- resolutions ---

func TestRecordAndLookup(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := Record{
		Fingerprint:  Fingerprint("desc-to-parfumo", "dior sauvage edp"),
		Mode:         "desc-to-parfumo",
		Input:        "Dior Sauvage EDP 100ml",
		Status:       "MATCH",
		URL:          "https://www.parfumo.com/Perfumes/Dior/Sauvage_Eau_de_Parfum",
		Confidence:   0.8,
		Candidates:   []string{"https://a", "https://b"},
		RulesVersion: "2026.1",
	}
	if err := store.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := store.Lookup(ctx, rec.Fingerprint, rec.Mode)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("Lookup returned nil for a recorded resolution")
	}
	if got.URL != rec.URL || got.Status != rec.Status || got.Confidence != rec.Confidence {
		t.Errorf("Lookup = %+v, want %+v", got, rec)
	}
	if !reflect.DeepEqual(got.Candidates, rec.Candidates) {
		t.Errorf("Candidates = %v, want %v", got.Candidates, rec.Candidates)
	}
	if got.ResolvedAt.IsZero() {
		t.Error("ResolvedAt should default to now on record")
	}
}

func TestLookupMissing(t *testing.T) {
	store := testStore(t)
	got, err := store.Lookup(context.Background(), "nope", "desc-to-parfumo")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("Lookup = %+v, want nil", got)
	}
}

func TestRecordUpserts(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	fp := Fingerprint("desc-to-parfumo", "dior sauvage")
	first := Record{Fingerprint: fp, Mode: "desc-to-parfumo", Input: "Dior Sauvage", Status: "NOT_FOUND"}
	if err := store.Record(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := first
	second.Status = "MATCH"
	second.URL = "https://www.parfumo.com/Perfumes/Dior/Sauvage"
	if err := store.Record(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Lookup(ctx, fp, "desc-to-parfumo")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "MATCH" {
		t.Errorf("Status = %q, want overwritten MATCH", got.Status)
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("Recent = %d records, want 1 after upsert", len(records))
	}
}

func TestRecentOrdering(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := Record{
			Fingerprint: Fingerprint("desc-to-parfumo", string(rune('a'+i))),
			Mode:        "desc-to-parfumo",
			Input:       string(rune('a' + i)),
			Status:      "NOT_FOUND",
			ResolvedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Recent = %d records, want 2", len(records))
	}
	if records[0].Input != "c" || records[1].Input != "b" {
		t.Errorf("Recent order = %q, %q; want newest first", records[0].Input, records[1].Input)
	}
}

func TestClear(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := Record{Fingerprint: "fp", Mode: "desc-to-parfumo", Input: "x", Status: "NOT_FOUND"}
	if err := store.Record(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordCrosswalk(ctx, "https://a", "https://b"); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatal(err)
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("Recent = %d records after clear, want 0", len(records))
	}

	// The crosswalk table survives a history clear.
	target, err := store.LookupCrosswalk(ctx, "https://a")
	if err != nil {
		t.Fatal(err)
	}
	if target != "https://b" {
		t.Errorf("crosswalk lost on clear: %q", target)
	}
}

// --- crosswalk ---

func TestCrosswalkBothDirections(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	parfumo := "https://www.parfumo.com/Perfumes/Dior/Sauvage"
	fragrantica := "https://www.fragrantica.com/perfume/Dior/Sauvage-31861.html"
	if err := store.RecordCrosswalk(ctx, parfumo, fragrantica); err != nil {
		t.Fatal(err)
	}

	if got, _ := store.LookupCrosswalk(ctx, parfumo); got != fragrantica {
		t.Errorf("forward lookup = %q, want %q", got, fragrantica)
	}
	if got, _ := store.LookupCrosswalk(ctx, fragrantica); got != parfumo {
		t.Errorf("reverse lookup = %q, want %q", got, parfumo)
	}
}

func TestLookupCrosswalkMissing(t *testing.T) {
	store := testStore(t)
	got, err := store.LookupCrosswalk(context.Background(), "https://unknown")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("LookupCrosswalk = %q, want empty", got)
	}
}
