// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meshintel/fragmapper/pkg/types"
)

// --- Parse ---

func TestParsePartialOverride(t *testing.T) {
	data := []byte(`
version: "test.1"
brands:
  - name: Initio
  - name: Nishane
`)
	set, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if set.Version != "test.1" {
		t.Errorf("Version = %q, want test.1", set.Version)
	}
	if len(set.Brands) != 2 {
		t.Errorf("Brands = %d entries, want 2", len(set.Brands))
	}
	if _, ok := set.CanonicalBrand("Initio"); !ok {
		t.Error("overridden brand lexicon should resolve Initio")
	}
	// Sections absent from the document keep the built-in defaults.
	if len(set.Flankers) == 0 {
		t.Error("flanker lexicon should fall back to defaults")
	}
	if set.Thresholds.MinAcceptScore != Defaults().Thresholds.MinAcceptScore {
		t.Errorf("MinAcceptScore = %v, want default", set.Thresholds.MinAcceptScore)
	}
}

func TestParseUnversioned(t *testing.T) {
	set, err := Parse([]byte(`noise_terms: [foo]`))
	if err != nil {
		t.Fatal(err)
	}
	if set.Version != "unversioned" {
		t.Errorf("Version = %q, want unversioned", set.Version)
	}
}

func TestParseGateConflict(t *testing.T) {
	data := []byte(`
flankers:
  - intense
  - edp
`)
	_, err := Parse(data)
	if !errors.Is(err, ErrGateConflict) {
		t.Fatalf("err = %v, want ErrGateConflict", err)
	}
}

func TestParseMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("brands: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

// --- Loader ---

func writeRules(t *testing.T, path, version string) {
	t.Helper()
	data := "version: \"" + version + "\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderDefaultsWithoutPath(t *testing.T) {
	l := NewLoader(types.RulesFileConfig{})
	set, err := l.Current()
	if err != nil {
		t.Fatal(err)
	}
	if set.Version != "builtin" {
		t.Errorf("Version = %q, want builtin", set.Version)
	}
}

func TestLoaderHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "v1")

	l := NewLoader(types.RulesFileConfig{Path: path, HotReload: true})
	set, err := l.Current()
	if err != nil {
		t.Fatal(err)
	}
	if set.Version != "v1" {
		t.Fatalf("Version = %q, want v1", set.Version)
	}

	writeRules(t, path, "v2")
	// Push the mod time forward in case the filesystem's resolution is
	// too coarse to notice two writes in the same instant.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	set, err = l.Current()
	if err != nil {
		t.Fatal(err)
	}
	if set.Version != "v2" {
		t.Errorf("Version = %q, want v2 after reload", set.Version)
	}
}

func TestLoaderNoReloadWhenDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeRules(t, path, "v1")

	l := NewLoader(types.RulesFileConfig{Path: path, HotReload: false})
	if _, err := l.Current(); err != nil {
		t.Fatal(err)
	}

	writeRules(t, path, "v2")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	set, err := l.Current()
	if err != nil {
		t.Fatal(err)
	}
	if set.Version != "v1" {
		t.Errorf("Version = %q, want v1 with hot reload off", set.Version)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(types.RulesFileConfig{Path: filepath.Join(t.TempDir(), "absent.yaml")})
	if _, err := l.Current(); err == nil {
		t.Fatal("expected error for missing rules file")
	}
}

func TestStatic(t *testing.T) {
	rs := Defaults()
	l := Static(rs)
	set, err := l.Current()
	if err != nil {
		t.Fatal(err)
	}
	if set != rs {
		t.Error("Static loader should return the wrapped set")
	}
}
