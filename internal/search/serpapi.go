// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/esprit-tdah/tdai/internal/locale"
	"github.com/esprit-tdah/tdai/internal/util"
)

const serpAPIBaseURL = "https://serpapi.com/search"

// SerpAPIGateway queries Google through SerpAPI.
type SerpAPIGateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSerpAPI creates a SerpAPI gateway. proxyURL may be empty.
func NewSerpAPI(apiKey, proxyURL string, timeout time.Duration) (*SerpAPIGateway, error) {
	client, err := util.NewHTTPClient(proxyURL, timeout)
	if err != nil {
		return nil, err
	}
	return &SerpAPIGateway{apiKey: apiKey, baseURL: serpAPIBaseURL, httpClient: client}, nil
}

// Name implements Gateway.
func (g *SerpAPIGateway) Name() string { return "serpapi" }

// Search implements Gateway against SerpAPI's Google engine. The locale's
// language and geo codes select the national version of the index.
func (g *SerpAPIGateway) Search(ctx context.Context, query string, loc locale.Locale) ([]Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("serpapi: missing api key")
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("hl", loc.InterfaceLang)
	params.Set("gl", loc.GeoCode)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("api_key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("serpapi: close response body: %v", errClose)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("serpapi: status %d: %s", resp.StatusCode, string(body))
	}

	reader, err := util.DecodeBody(resp)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("serpapi: read body: %w", err)
	}

	results := make([]Result, 0, maxResults)
	for _, item := range gjson.GetBytes(body, "organic_results").Array() {
		if len(results) >= maxResults {
			break
		}
		r := Result{
			Title:   item.Get("title").String(),
			URL:     item.Get("link").String(),
			Snippet: item.Get("snippet").String(),
		}
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}
