// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve orchestrates one resolution: normalize, extract,
// build queries, search the catalog, score, decide. The pipeline is a
// strict sequence per request with no shared state across requests;
// only the catalog searches fan out, and their results merge
// deterministically so output never depends on fetch timing.
package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/meshintel/fragmapper/internal/catalog"
	"github.com/meshintel/fragmapper/internal/clues"
	"github.com/meshintel/fragmapper/internal/decide"
	"github.com/meshintel/fragmapper/internal/history"
	"github.com/meshintel/fragmapper/internal/normalize"
	"github.com/meshintel/fragmapper/internal/query"
	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/internal/score"
	"github.com/meshintel/fragmapper/pkg/types"
)

// Mode selects the resolution profile: which catalog answers, or the
// crosswalk between them.
type Mode string

const (
	ModeDescToParfumo     Mode = "desc-to-parfumo"
	ModeDescToFragrantica Mode = "desc-to-fragrantica"
	ModeCrosswalk         Mode = "crosswalk"
)

// Resolver runs resolutions against the configured catalogs. Safe for
// concurrent use; every resolution is independent and re-entrant.
type Resolver struct {
	loader      *rules.Loader
	parfumo     catalog.Client
	fragrantica catalog.Client
	hist        *history.Store
	cfg         types.ResolverConfig
}

// New builds a resolver. hist may be nil to disable history recording.
func New(cfg types.ResolverConfig, loader *rules.Loader, hist *history.Store) *Resolver {
	timeout := cfg.Catalog.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	return &Resolver{
		loader:      loader,
		parfumo:     &catalog.ParfumoClient{Client: httpClient},
		fragrantica: &catalog.FragranticaClient{Client: httpClient},
		hist:        hist,
		cfg:         cfg,
	}
}

// NewWithClients builds a resolver over explicit catalog clients.
// Tests use this to substitute stub catalogs.
func NewWithClients(cfg types.ResolverConfig, loader *rules.Loader, hist *history.Store, parfumo, fragrantica catalog.Client) *Resolver {
	return &Resolver{
		loader:      loader,
		parfumo:     parfumo,
		fragrantica: fragrantica,
		hist:        hist,
		cfg:         cfg,
	}
}

// Resolve runs one resolution and returns the full report. Warnings
// (failed catalog queries, history write errors) go to w. A cancelled
// context returns ctx.Err() and no result at all: the caller surfaces
// timeouts separately from NOT_FOUND.
func (r *Resolver) Resolve(ctx context.Context, mode Mode, input string, w io.Writer) (types.Report, error) {
	rs, err := r.loader.Current()
	if err != nil {
		return types.Report{}, err
	}

	report := types.Report{Mode: string(mode), Input: input}

	var client catalog.Client
	switch mode {
	case ModeDescToParfumo:
		client = r.parfumo
	case ModeDescToFragrantica:
		client = r.fragrantica
	case ModeCrosswalk:
		return r.crosswalk(ctx, input, rs, w)
	default:
		report.Result = types.NotFound()
		report.Notes = append(report.Notes, "unsupported mode")
		return report, nil
	}

	if strings.TrimSpace(input) == "" {
		report.Result = types.NotFound()
		report.Notes = append(report.Notes, "empty description")
		return report, nil
	}

	n := normalize.Normalize(input, rs)

	if len(n.Exclusions) > 0 {
		report.Result = types.Excluded()
		report.Notes = append(report.Notes, "listing contains exclusion terms: "+strings.Join(n.Exclusions, ", "))
		r.record(ctx, mode, n.Text, input, rs, report.Result, w)
		return report, nil
	}

	if n.Text == "" {
		report.Result = types.NotFound()
		report.Notes = append(report.Notes, "nothing left to match after normalization")
		return report, nil
	}

	c := clues.Extract(n, rs)
	report.Clues = c

	plan := query.Build(c, rs)
	if len(plan.Queries) == 0 {
		report.Result = types.NotFound()
		report.Notes = append(report.Notes, "insufficient information to search")
		return report, nil
	}

	candidates := r.search(ctx, client, plan.Queries, rs, w)
	report.Queries = append(report.Queries, plan.Queries...)

	ranked, rejected := score.Score(c, candidates, rs)
	result := decide.Decide(ranked, plan.Limited, rs.Thresholds)

	// One widening retry: broader queries only when the narrow pass
	// found nothing acceptable and widening has not been tried yet.
	if result.Status == types.StatusNotFound && len(plan.Widened) > 0 {
		widened := r.search(ctx, client, plan.Widened, rs, w)
		report.Queries = append(report.Queries, plan.Widened...)
		report.Notes = append(report.Notes, "widened search after empty first pass")

		candidates = mergeCandidates(candidates, widened)
		ranked, rejected = score.Score(c, candidates, rs)
		result = decide.Decide(ranked, plan.Limited, rs.Thresholds)
	}

	// A cancelled resolution emits nothing, not a partial NOT_FOUND.
	if ctx.Err() != nil {
		return types.Report{}, ctx.Err()
	}

	report.Ranked = ranked
	report.Rejected = rejected
	report.Result = result

	r.record(ctx, mode, n.Text, input, rs, result, w)
	return report, nil
}

// search fans the queries out concurrently and merges the results in
// query order, deduplicated by URL. Failed queries degrade to zero
// evidence with a warning; they never abort the resolution.
func (r *Resolver) search(ctx context.Context, client catalog.Client, queries []string, rs *rules.Set, w io.Writer) []types.CandidateRecord {
	results := make([][]types.CandidateRecord, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		if i > 0 && r.cfg.Catalog.InterQueryDelay > 0 {
			time.Sleep(r.cfg.Catalog.InterQueryDelay)
		}
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			results[i], errs[i] = client.Search(ctx, q, rs, r.cfg.Catalog)
		}(i, q)
	}
	wg.Wait()

	var merged []types.CandidateRecord
	for i := range queries {
		if errs[i] != nil {
			fmt.Fprintf(w, "warning: %s query %q failed: %v\n", client.Name(), queries[i], errs[i])
			continue
		}
		merged = mergeCandidates(merged, results[i])
	}
	return merged
}

// mergeCandidates appends extra onto base, dropping URLs already seen.
func mergeCandidates(base, extra []types.CandidateRecord) []types.CandidateRecord {
	seen := make(map[string]bool, len(base))
	for _, c := range base {
		seen[c.URL] = true
	}
	for _, c := range extra {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		base = append(base, c)
	}
	return base
}

// record persists the outcome; history failures are warnings only.
func (r *Resolver) record(ctx context.Context, mode Mode, normalized, input string, rs *rules.Set, result types.ResolutionResult, w io.Writer) {
	if r.hist == nil || ctx.Err() != nil {
		return
	}
	rec := history.Record{
		Fingerprint:  history.Fingerprint(string(mode), normalized),
		Mode:         string(mode),
		Input:        input,
		Status:       string(result.Status),
		URL:          result.URL,
		Confidence:   result.Confidence,
		Candidates:   result.Candidates,
		RulesVersion: rs.Version,
	}
	if err := r.hist.Record(ctx, rec); err != nil {
		fmt.Fprintf(w, "warning: history record failed: %v\n", err)
	}
}
