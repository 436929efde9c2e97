// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package locale resolves the search locale (language, interface language,
// geographic code, target country) for a question. Naive country detection
// conflates "the service is global" with "the user wants a global answer";
// the layered precedence rules below exist to untangle exactly that.
package locale

import (
	"strings"

	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/textnorm"
)

// Locale is the (language, interface language, geography) triple controlling
// which national version of the search engine is queried.
type Locale struct {
	Language      string
	InterfaceLang string
	GeoCode       string
	TargetCountry string
}

// French is the default locale: French-speaking user, France-targeted search.
func French() Locale { return countryLocales["france"] }

// EnglishUS is the global-web locale used for worldwide sports and tech.
func EnglishUS() Locale { return countryLocales["usa"] }

// Router maps topic and country signals to a search locale.
type Router struct {
	classifier *classify.Classifier
}

// NewRouter returns a Router using the given classifier for price/product
// and tech-domain signals.
func NewRouter(c *classify.Classifier) *Router {
	return &Router{classifier: c}
}

// Signals carries the upstream hints consulted after explicit text mentions.
type Signals struct {
	// Country is the advisory classifier's country guess ("france", "usa",
	// free-form, or empty when the advisory layer was unavailable).
	Country string
	// Domain is the advisory classifier's domain label, empty when absent.
	Domain string
}

// Resolve applies the precedence rules, first match wins:
//  1. explicit foreign-country mention in the text
//  2. price question about a global brand resolved to France -> French locale
//  3. domestic league/team mention -> French locale
//  4. global league or combat-sports organization -> English/US locale
//  5. non-France resolved country -> country locale table (French fallback)
//  6. globally oriented domain without an explicit "france" -> English/US
//  7. default French locale
func (r *Router) Resolve(question string, sig Signals) Locale {
	folded := textnorm.Fold(question)

	// Rule 1: explicit country mention overrides any classifier guess.
	country := strings.ToLower(strings.TrimSpace(sig.Country))
	if explicit := detectExplicitCountry(folded); explicit != "" {
		country = explicit
	}
	if country == "" {
		country = "france"
	}

	// Rule 2: a price question about a globally-known brand, resolved to
	// France, must stay French. Without this, "combien coûte Netflix"
	// drifts to a US price because the brand is global.
	if country == "france" && r.classifier.IsPriceQuestion(question) && r.classifier.IsProductOrServiceQuestion(question) {
		return French()
	}

	// Rule 3: domestic sports leagues outrank everything below.
	for _, league := range frenchLeagues {
		if strings.Contains(folded, league) {
			return French()
		}
	}

	// Rule 4: global leagues and combat-sports organizations live on the
	// English web.
	for _, league := range globalLeagues {
		if strings.Contains(folded, league) {
			return EnglishUS()
		}
	}

	// Rule 5: map a non-France country through the locale table.
	if country != "france" {
		if loc, ok := countryLocales[country]; ok {
			return loc
		}
		// Unrecognized country label: French-language locale targeting the
		// named country is the deliberate fallback, not a gap.
		loc := French()
		loc.TargetCountry = country
		return loc
	}

	// Rule 6: globally oriented domains bias to the global web unless the
	// question explicitly says France.
	if _, global := globalDomains[strings.ToLower(sig.Domain)]; global || r.classifier.IsTechOrGlobalInfoQuestion(question) {
		if !strings.Contains(folded, "france") && !strings.Contains(folded, "francais") {
			return EnglishUS()
		}
	}

	// Rule 7: default.
	return French()
}

// countryOrder fixes the scan order so a question mentioning two countries
// resolves the same way every time.
var countryOrder = []string{
	"usa", "uk", "canada", "switzerland", "belgium", "spain", "germany",
	"turkey", "italy", "maghreb",
}

func detectExplicitCountry(folded string) string {
	for _, country := range countryOrder {
		for _, w := range countryKeywords[country] {
			if strings.Contains(folded, w) {
				return country
			}
		}
	}
	return ""
}
