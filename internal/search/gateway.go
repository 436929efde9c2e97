// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package search provides thin clients for external keyword-search services
// (SerpAPI, Brave). The gateway contract is deliberately small: a query plus
// a locale in, a short ordered list of titled/linked/snippeted results out,
// or nil on any failure. Failures never propagate as user-visible errors;
// the pipeline treats them as "no usable results".
package search

import (
	"context"

	"github.com/esprit-tdah/tdai/internal/locale"
)

// maxResults caps how many raw results are ever requested from a provider.
const maxResults = 5

// Result is one search hit as returned by the external engine.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Gateway is the external keyword-search collaborator.
type Gateway interface {
	// Search runs the query against the engine's national version selected
	// by loc. It returns at most 5 results; an empty slice and nil error
	// mean the engine answered with nothing usable.
	Search(ctx context.Context, query string, loc locale.Locale) ([]Result, error)
	// Name identifies the provider for logging and status frames.
	Name() string
}
