// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar is a read-only client for the Semantic Scholar Graph API.
// It issues one request per call: a topic search or a citation lookup, each
// returning a single page of papers.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/topic-tree/internal/httputil"
	"github.com/pdiddy/topic-tree/pkg/types"
)

// graphAPIBase is the Graph API root. Declared as a var so tests can
// substitute an httptest server without building a config.
var graphAPIBase = "https://api.semanticscholar.org/graph/v1"

const (
	paperFields = "paperId,title,year,citationCount,url,externalIds"

	defaultLimit     = 100
	maxSearchLimit   = 100
	maxCitationLimit = 1000

	// errBodyExcerpt bounds the response body quoted in a StatusError.
	errBodyExcerpt = 300
)

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "topic-tree/0.1 (+https://www.semanticscholar.org)"

// Client queries the Semantic Scholar Graph API.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	APIKey    string
	UserAgent string
	// MaxRetries is passed to httputil.DoWithRetry; zero sends each request once.
	MaxRetries int
	Logger     *slog.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg types.ScholarConfig, httpCfg types.HTTPConfig, logger *slog.Logger) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: httpCfg.Timeout},
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		UserAgent:  httpCfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
}

// WithAPIKey returns a copy of c that sends key in place of the configured
// key. The copy shares c's http.Client.
func (c *Client) WithAPIKey(key string) *Client {
	cp := *c
	cp.APIKey = key
	return &cp
}

// SearchParams holds the parameters of a topic search.
type SearchParams struct {
	Query string
	// MinYear restricts results to papers published in or after this year.
	// Zero disables the filter.
	MinYear int
	// Limit is the page size; defaults to 100 and is capped at 100.
	Limit int
}

// Search queries /paper/search once and returns the papers in API order.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]types.Paper, error) {
	q := strings.TrimSpace(p.Query)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(clampLimit(p.Limit, maxSearchLimit))},
		"fields": {paperFields},
	}
	if p.MinYear > 0 {
		params.Set("year", fmt.Sprintf("%d-", p.MinYear))
	}

	var sr searchResponse
	if err := c.get(ctx, "/paper/search", params, &sr); err != nil {
		return nil, err
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		papers = append(papers, sp.toPaper())
	}
	return papers, nil
}

// Citations queries /paper/{id}/citations once and returns the citing papers
// in API order. Entries without a citing paper are skipped.
func (c *Client) Citations(ctx context.Context, paperID string, limit int) ([]types.Paper, error) {
	id := strings.TrimSpace(paperID)
	if id == "" {
		return nil, fmt.Errorf("empty paper identifier")
	}

	params := url.Values{
		"limit":  {strconv.Itoa(clampLimit(limit, maxCitationLimit))},
		"fields": {prefixFields("citingPaper.", paperFields)},
	}

	var cr citationResponse
	if err := c.get(ctx, "/paper/"+url.PathEscape(id)+"/citations", params, &cr); err != nil {
		return nil, err
	}

	papers := make([]types.Paper, 0, len(cr.Data))
	for _, item := range cr.Data {
		if item.CitingPaper == nil {
			continue
		}
		papers = append(papers, item.CitingPaper.toPaper())
	}
	return papers, nil
}

// get performs one GET against the API and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	base := c.BaseURL
	if base == "" {
		base = graphAPIBase
	}
	reqURL := strings.TrimRight(base, "/") + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		c.logger().WarnContext(ctx, "graph api request failed", "path", path, "error", err)
		return fmt.Errorf("Semantic Scholar API request: %w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger().DebugContext(ctx, "graph api request",
		"method", http.MethodGet,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyExcerpt))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Semantic Scholar response: %w: %w", ErrMalformed, err)
	}
	return nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > max {
		limit = max
	}
	return limit
}

// prefixFields returns fields with prefix applied to every comma-separated name.
func prefixFields(prefix, fields string) string {
	parts := strings.Split(fields, ",")
	for i, f := range parts {
		parts[i] = prefix + f
	}
	return strings.Join(parts, ",")
}

// Semantic Scholar API JSON structures. Nullable fields are pointers.
type searchResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type citationResponse struct {
	Offset int            `json:"offset"`
	Data   []citationItem `json:"data"`
}

type citationItem struct {
	CitingPaper *semanticPaper `json:"citingPaper"`
}

type semanticPaper struct {
	PaperID       *string             `json:"paperId"`
	Title         *string             `json:"title"`
	Year          *int                `json:"year"`
	CitationCount *int                `json:"citationCount"`
	URL           *string             `json:"url"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

func (sp semanticPaper) toPaper() types.Paper {
	p := types.Paper{
		ID:    deref(sp.PaperID),
		Title: norm.NFC.String(strings.TrimSpace(deref(sp.Title))),
		URL:   deref(sp.URL),
		DOI:   strings.TrimSpace(sp.ExternalIDs.DOI),
	}
	if p.Title == "" {
		p.Title = types.UntitledPaper
	}
	if sp.Year != nil && *sp.Year > 0 {
		p.Year = *sp.Year
	}
	if sp.CitationCount != nil && *sp.CitationCount > 0 {
		p.CitationCount = *sp.CitationCount
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
