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
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/esprit-tdah/tdai/internal/locale"
	"github.com/esprit-tdah/tdai/internal/util"
)

const braveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// BraveGateway queries the Brave Search API.
type BraveGateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewBrave creates a Brave Search gateway. proxyURL may be empty.
func NewBrave(apiKey, proxyURL string, timeout time.Duration) (*BraveGateway, error) {
	client, err := util.NewHTTPClient(proxyURL, timeout)
	if err != nil {
		return nil, err
	}
	return &BraveGateway{apiKey: apiKey, baseURL: braveBaseURL, httpClient: client}, nil
}

// Name implements Gateway.
func (g *BraveGateway) Name() string { return "brave" }

// Search implements Gateway against Brave's web search endpoint.
func (g *BraveGateway) Search(ctx context.Context, query string, loc locale.Locale) ([]Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("brave: missing api key")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(maxResults))
	params.Set("country", strings.ToUpper(loc.GeoCode))
	params.Set("search_lang", loc.Language)
	params.Set("ui_lang", loc.InterfaceLang+"-"+strings.ToUpper(loc.GeoCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("X-Subscription-Token", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave: request: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("brave: close response body: %v", errClose)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("brave: status %d: %s", resp.StatusCode, string(body))
	}

	reader, err := util.DecodeBody(resp)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("brave: read body: %w", err)
	}

	results := make([]Result, 0, maxResults)
	for _, item := range gjson.GetBytes(body, "web.results").Array() {
		if len(results) >= maxResults {
			break
		}
		r := Result{
			Title:   item.Get("title").String(),
			URL:     item.Get("url").String(),
			Snippet: item.Get("description").String(),
		}
		if r.Title == "" && r.Snippet == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}
