// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package searchapi is the HTTP client for the directory's search service:
// GET /search for categorized results and GET /search-suggestions for the
// popular suggestions shown before anything is typed.
//
// Every response leaving this package is normalized: categories the service
// omitted or sent as null come back as empty lists.
package searchapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/buffet-search/internal/httputil"
	"github.com/pdiddy/buffet-search/internal/query"
	"github.com/pdiddy/buffet-search/pkg/types"
)

// ErrStatus is wrapped by errors for non-success HTTP responses.
var ErrStatus = errors.New("unexpected HTTP status")

// Client queries the search service.
type Client struct {
	HTTP *http.Client

	// BaseURL is the service root (e.g. "https://example.com/api").
	BaseURL    string
	UserAgent  string
	APIKey     string
	MaxRetries int
}

// New returns a Client configured from cfg. Zero values in cfg take defaults.
func New(cfg types.SearchBoxConfig) *Client {
	cfg = cfg.WithDefaults()
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		APIKey:     cfg.APIKey,
		MaxRetries: cfg.MaxRetries,
	}
}

// Search runs GET /search?q=&limit=&citySlug=.
func (c *Client) Search(ctx context.Context, q string, limit int, citySlug string) (types.ResultBundle, error) {
	q = query.Trim(q)
	if q == "" {
		return types.EmptyResults(), fmt.Errorf("empty search query")
	}

	params := url.Values{"q": {q}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if citySlug != "" {
		params.Set("citySlug", citySlug)
	}

	var sr searchResponse
	if err := c.get(ctx, "/search", params, &sr); err != nil {
		return types.EmptyResults(), err
	}

	b := types.ResultBundle{
		Query:         sr.Q,
		Results:       sr.Results,
		Cities:        sr.Cities,
		Neighborhoods: sr.Neighborhoods,
	}
	if b.Query == "" {
		b.Query = q
	}
	return b.Normalized(), nil
}

// Suggestions runs GET /search-suggestions?citySlug=.
func (c *Client) Suggestions(ctx context.Context, citySlug string) (types.SuggestionBundle, error) {
	params := url.Values{}
	if citySlug != "" {
		params.Set("citySlug", citySlug)
	}

	var sr suggestionsResponse
	if err := c.get(ctx, "/search-suggestions", params, &sr); err != nil {
		return types.EmptySuggestions(), err
	}
	if sr.Suggestions == nil {
		return types.EmptySuggestions(), nil
	}
	return sr.Suggestions.Normalized(), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := strings.TrimRight(c.BaseURL, "/") + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("search service request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search service %s returned HTTP %d: %w", path, resp.StatusCode, ErrStatus)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}
	return nil
}

// Search service JSON structures.
type searchResponse struct {
	Q             string               `json:"q"`
	Results       []types.Place        `json:"results"`
	Cities        []types.City         `json:"cities"`
	Neighborhoods []types.Neighborhood `json:"neighborhoods"`
}

type suggestionsResponse struct {
	Suggestions *types.SuggestionBundle `json:"suggestions"`
}
