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

// fragranticaSearchBase is the Fragrantica search endpoint. Declared as
// a var so tests can substitute an httptest server.
var fragranticaSearchBase = "https://www.fragrantica.com/api/search"

// FragranticaClient queries the Fragrantica catalog index. Fragrantica
// lists all concentrations of a fragrance on one page, so the
// concentration gate does not apply to its candidates.
type FragranticaClient struct {
	Client *http.Client
}

func (c *FragranticaClient) Name() string { return "fragrantica" }

func (c *FragranticaClient) SeparatesConcentrations() bool { return false }

// fragranticaResponse is the search endpoint's JSON shape. Hits carry a
// kind field separating fragrance pages from designers, news, and
// forum threads.
type fragranticaResponse struct {
	Hits []struct {
		Kind  string `json:"kind"`
		Name  string `json:"name"`
		Brand string `json:"brand"`
		URL   string `json:"url"`
		Year  int    `json:"year,omitempty"`
	} `json:"hits"`
}

// Search runs one query against the Fragrantica index. Hits whose kind
// is not "perfume" are dropped; perfume hits with an off-pattern URL
// are kept but marked unverified, which costs them a scoring penalty.
func (c *FragranticaClient) Search(ctx context.Context, query string, rs *rules.Set, cfg types.CatalogConfig) ([]types.CandidateRecord, error) {
	endpoint := fmt.Sprintf("%s?query=%s&max=%d", fragranticaSearchBase, url.QueryEscape(query), maxResults(cfg, rs))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.FragranticaAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.FragranticaAPIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fragrantica search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fragrantica search returned HTTP %d", resp.StatusCode)
	}

	var body fragranticaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing fragrantica response: %w", err)
	}

	var records []types.CandidateRecord
	for _, h := range body.Hits {
		if h.Kind != "perfume" {
			continue
		}
		conc, flankers, year := deriveFromTitle(h.Name, rs)
		if year == 0 {
			year = h.Year
		}
		records = append(records, types.CandidateRecord{
			URL:           h.URL,
			Title:         strings.TrimSpace(h.Name),
			Brand:         strings.TrimSpace(h.Brand),
			Concentration: conc,
			Flankers:      flankers,
			Year:          year,
			Source:        c.Name(),
			Verified:      isFragranticaPerfumePage(h.URL),
		})
		if len(records) >= maxResults(cfg, rs) {
			break
		}
	}
	return records, nil
}

// isFragranticaPerfumePage reports whether u matches the canonical
// pattern /perfume/{brand}/{name}.html.
func isFragranticaPerfumePage(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "perfume" {
		return false
	}
	return parts[1] != "" && strings.HasSuffix(parts[2], ".html")
}
