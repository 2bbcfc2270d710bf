// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/fragmapper/pkg/types"
)

// Parse builds a validated Set from rules YAML. Fields absent from the
// document fall back to the built-in defaults so a rules file can
// override just the lexicons it cares about.
func Parse(data []byte) (*Set, error) {
	s := Defaults()
	s.Version = ""
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if s.Version == "" {
		s.Version = "unversioned"
	}
	fillThresholdDefaults(&s.Thresholds)
	if err := s.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

func fillThresholdDefaults(t *Thresholds) {
	d := Defaults().Thresholds
	if t.MaxCandidates <= 0 {
		t.MaxCandidates = d.MaxCandidates
	}
	if t.MaxQueries <= 0 {
		t.MaxQueries = d.MaxQueries
	}
	if t.YearWindow <= 0 {
		t.YearWindow = d.YearWindow
	}
	if t.ShortNameLen <= 0 {
		t.ShortNameLen = d.ShortNameLen
	}
	if t.ProvisionalBrandPenalty <= 0 {
		t.ProvisionalBrandPenalty = d.ProvisionalBrandPenalty
	}
}

// Loader hands out the current rule set, re-reading the rules file
// between requests when its modification time changes. Safe for
// concurrent use; a resolution in flight keeps the Set it started with.
type Loader struct {
	path      string
	hotReload bool

	mu      sync.Mutex
	modTime time.Time
	set     *Set
}

// NewLoader builds a loader for cfg. An empty path serves the built-in
// defaults and never touches the filesystem.
func NewLoader(cfg types.RulesFileConfig) *Loader {
	return &Loader{path: cfg.Path, hotReload: cfg.HotReload}
}

// Static wraps an existing Set in a loader that never reloads.
func Static(s *Set) *Loader {
	return &Loader{set: s}
}

// Current returns the rule set, reloading from disk if the file changed.
func (l *Loader) Current() (*Set, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		if l.set == nil {
			l.set = Defaults()
		}
		return l.set, nil
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", l.path, err)
	}

	if l.set != nil && (!l.hotReload || info.ModTime().Equal(l.modTime)) {
		return l.set, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file %s: %w", l.path, err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", l.path, err)
	}

	l.set = set
	l.modTime = info.ModTime()
	return l.set, nil
}
