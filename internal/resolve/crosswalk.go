// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// crosswalk maps a canonical page on one catalog to the equivalent page
// on the other. Previously resolved pairs come straight from the
// crosswalk table; new pairs resolve through the description pipeline
// using the brand and name read off the source URL, and are recorded on
// success.
func (r *Resolver) crosswalk(ctx context.Context, input string, rs *rules.Set, w io.Writer) (types.Report, error) {
	report := types.Report{Mode: string(ModeCrosswalk), Input: input}

	sourceURL := strings.TrimSpace(input)
	desc, targetMode, ok := describeFromURL(sourceURL)
	if !ok {
		report.Result = types.NotFound()
		report.Notes = append(report.Notes, "input is not a recognized catalog page URL")
		return report, nil
	}

	if r.hist != nil {
		target, err := r.hist.LookupCrosswalk(ctx, sourceURL)
		if err != nil {
			fmt.Fprintf(w, "warning: crosswalk lookup failed: %v\n", err)
		} else if target != "" {
			report.Result = types.Matched(target, 1)
			report.Notes = append(report.Notes, "resolved from crosswalk table")
			return report, nil
		}
	}

	inner, err := r.Resolve(ctx, targetMode, desc, w)
	if err != nil {
		return types.Report{}, err
	}

	report.Clues = inner.Clues
	report.Queries = inner.Queries
	report.Ranked = inner.Ranked
	report.Rejected = inner.Rejected
	report.Result = inner.Result
	report.Notes = append(report.Notes, "derived description: "+desc)

	if report.Result.Status == types.StatusMatched && r.hist != nil {
		if err := r.hist.RecordCrosswalk(ctx, sourceURL, report.Result.URL); err != nil {
			fmt.Fprintf(w, "warning: crosswalk record failed: %v\n", err)
		}
	}
	return report, nil
}

// fragranticaIDSuffix matches the trailing numeric page ID in
// fragrantica slugs ("Sauvage-31861").
var fragranticaIDSuffix = regexp.MustCompile(`-\d+$`)

// describeFromURL reads brand and fragrance name off a canonical
// catalog URL and returns a synthetic description plus the mode
// resolving against the opposite catalog.
func describeFromURL(raw string) (desc string, targetMode Mode, ok bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}
	host := strings.ToLower(parsed.Hostname())
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	switch {
	case strings.HasSuffix(host, "parfumo.com"):
		if len(parts) != 3 || parts[0] != "Perfumes" {
			return "", "", false
		}
		desc = deslug(parts[1]) + " " + deslug(parts[2])
		return desc, ModeDescToFragrantica, true

	case strings.HasSuffix(host, "fragrantica.com"):
		if len(parts) != 3 || parts[0] != "perfume" {
			return "", "", false
		}
		name := strings.TrimSuffix(parts[2], ".html")
		name = fragranticaIDSuffix.ReplaceAllString(name, "")
		desc = deslug(parts[1]) + " " + deslug(name)
		return desc, ModeDescToParfumo, true
	}
	return "", "", false
}

func deslug(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
