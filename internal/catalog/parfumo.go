// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/meshintel/fragmapper/internal/httputil"
	"github.com/meshintel/fragmapper/internal/rules"
	"github.com/meshintel/fragmapper/pkg/types"
)

// parfumoSearchBase is the Parfumo search endpoint. Declared as a var
// so tests can substitute an httptest server.
var parfumoSearchBase = "https://www.parfumo.com/api/v1/search"

// ParfumoClient queries the Parfumo catalog index. Parfumo keeps one
// page per concentration, so its candidates are subject to the
// concentration gate.
type ParfumoClient struct {
	Client *http.Client
}

func (c *ParfumoClient) Name() string { return "parfumo" }

func (c *ParfumoClient) SeparatesConcentrations() bool { return true }

// parfumoResponse is the search endpoint's JSON shape.
type parfumoResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Brand string `json:"brand"`
		Year  int    `json:"year,omitempty"`
	} `json:"results"`
}

// Search runs one query against the Parfumo index. Non-canonical pages
// (search, listing, review, forum) are filtered out; every returned
// candidate is a verified fragrance page.
func (c *ParfumoClient) Search(ctx context.Context, query string, rs *rules.Set, cfg types.CatalogConfig) ([]types.CandidateRecord, error) {
	endpoint := fmt.Sprintf("%s?q=%s&limit=%d", parfumoSearchBase, url.QueryEscape(query), maxResults(cfg, rs))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.ParfumoAPIKey != "" {
		req.Header.Set("X-Api-Key", cfg.ParfumoAPIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("parfumo search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parfumo search returned HTTP %d", resp.StatusCode)
	}

	var body parfumoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing parfumo response: %w", err)
	}

	var records []types.CandidateRecord
	for _, r := range body.Results {
		if !isParfumoFragrancePage(r.URL) {
			continue
		}
		conc, flankers, year := deriveFromTitle(r.Title, rs)
		if year == 0 {
			year = r.Year
		}
		records = append(records, types.CandidateRecord{
			URL:                r.URL,
			Title:              strings.TrimSpace(r.Title),
			Brand:              strings.TrimSpace(r.Brand),
			Concentration:      conc,
			Flankers:           flankers,
			Year:               year,
			Source:             c.Name(),
			Verified:           true,
			ConcentrationPaged: true,
		})
		if len(records) >= maxResults(cfg, rs) {
			break
		}
	}
	return records, nil
}

// isParfumoFragrancePage reports whether u is a canonical fragrance
// page: /Perfumes/{brand}/{name}, nothing else.
func isParfumoFragrancePage(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "Perfumes" {
		return false
	}
	return parts[1] != "" && parts[2] != ""
}
