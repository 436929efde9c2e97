// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package advisor implements the model-assisted classification layer: two
// independent advisory completion calls constrained to strict JSON. The
// layer is best-effort by contract: on any transport failure, non-2xx
// answer or unparseable output it reports "unavailable" instead of an
// error, and callers fall back to the regex classifier. It may add search
// eligibility on top of the regex verdict but can never subtract it.
package advisor

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/llm"
)

// Completer is the completion capability the advisor calls. Satisfied by
// *llm.Client.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// Domains the classifier may return. Anything else is coerced to "other".
var knownDomains = map[string]struct{}{
	"price": {}, "product": {}, "person": {}, "politics": {}, "sports": {},
	"tech": {}, "finance": {}, "culture": {}, "current_affairs": {},
	"entertainment": {}, "real_estate": {}, "other": {},
}

// HighVolatilityDomains are domains whose presence alone makes a question
// search-eligible.
var HighVolatilityDomains = map[string]struct{}{
	"price": {}, "sports": {}, "politics": {}, "current_affairs": {},
	"finance": {},
}

// Verdict is the structured output of the domain/volatility classifier.
type Verdict struct {
	Domain     string
	NeedsWeb   bool
	Volatility classify.Volatility
	Country    string
}

// Entity is one named entity extracted from the question.
type Entity struct {
	Text string
	Type string // person, organization, location, other
}

// EntityIntent is the structured output of the entity/intent router.
type EntityIntent struct {
	Entities        []Entity
	IsVersusPattern bool
	LikelyDomain    string // sport, politics, business, entertainment, other
}

// Advisor wraps the two advisory calls.
type Advisor struct {
	completer Completer
	model     string
}

// New builds an Advisor. A nil completer yields an advisor that is always
// unavailable, which is a valid configuration (no credentials).
func New(completer Completer, model string) *Advisor {
	return &Advisor{completer: completer, model: model}
}

const classifyPrompt = `Tu es un classificateur. Analyse la question utilisateur et réponds UNIQUEMENT avec un objet JSON strict, sans texte autour, de la forme :
{"domain":"...","needs_web":true|false,"volatility":"high|medium|low","country":"..."}
- domain : un seul mot parmi price, product, person, politics, sports, tech, finance, culture, current_affairs, entertainment, real_estate, other
- needs_web : true si une recherche web est nécessaire pour répondre correctement aujourd'hui
- volatility : high si la réponse change souvent (prix, scores, élus), medium si elle évolue lentement, low sinon
- country : "france" par défaut, sinon le pays visé par la question en minuscules`

const entityPrompt = `Tu es un extracteur d'entités. Analyse la question et réponds UNIQUEMENT avec un objet JSON strict, sans texte autour, de la forme :
{"entities":[{"text":"...","type":"person|organization|location|other"}],"is_vs_pattern":true|false,"likely_domain":"sport|politics|business|entertainment|other"}
- is_vs_pattern : true si la question oppose deux entités (X contre Y, X vs Y)
- likely_domain : le domaine le plus probable`

// Classify runs the domain/volatility classifier. ok is false when the
// advisory layer is unavailable for any reason; the caller must then rely
// on the regex verdict alone.
func (a *Advisor) Classify(ctx context.Context, question string) (Verdict, bool) {
	if a.completer == nil {
		return Verdict{}, false
	}
	raw, err := a.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: classifyPrompt},
		{Role: "user", Content: question},
	}, llm.Options{Model: a.model, Temperature: 0, MaxTokens: 120})
	if err != nil {
		log.Debugf("advisor: classifier unavailable: %v", err)
		return Verdict{}, false
	}

	parsed := gjson.Parse(extractJSON(raw))
	if !parsed.IsObject() {
		log.WithField("raw", truncate(raw, 120)).Debug("advisor: classifier returned non-JSON output")
		return Verdict{}, false
	}

	domain := strings.ToLower(strings.TrimSpace(parsed.Get("domain").String()))
	if _, known := knownDomains[domain]; !known {
		domain = "other"
	}
	volatility := classify.Volatility(strings.ToLower(parsed.Get("volatility").String()))
	switch volatility {
	case classify.VolatilityHigh, classify.VolatilityMedium, classify.VolatilityLow:
	default:
		// Malformed volatility makes the whole verdict untrustworthy.
		return Verdict{}, false
	}

	country := strings.ToLower(strings.TrimSpace(parsed.Get("country").String()))
	if country == "" {
		country = "france"
	}

	return Verdict{
		Domain:     domain,
		NeedsWeb:   parsed.Get("needs_web").Bool(),
		Volatility: volatility,
		Country:    country,
	}, true
}

// ExtractEntities runs the entity/intent router. Same availability contract
// as Classify.
func (a *Advisor) ExtractEntities(ctx context.Context, question string) (EntityIntent, bool) {
	if a.completer == nil {
		return EntityIntent{}, false
	}
	raw, err := a.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: entityPrompt},
		{Role: "user", Content: question},
	}, llm.Options{Model: a.model, Temperature: 0, MaxTokens: 200})
	if err != nil {
		log.Debugf("advisor: entity router unavailable: %v", err)
		return EntityIntent{}, false
	}

	parsed := gjson.Parse(extractJSON(raw))
	if !parsed.IsObject() {
		log.WithField("raw", truncate(raw, 120)).Debug("advisor: entity router returned non-JSON output")
		return EntityIntent{}, false
	}

	intent := EntityIntent{
		IsVersusPattern: parsed.Get("is_vs_pattern").Bool(),
		LikelyDomain:    strings.ToLower(parsed.Get("likely_domain").String()),
	}
	switch intent.LikelyDomain {
	case "sport", "politics", "business", "entertainment", "other":
	default:
		intent.LikelyDomain = "other"
	}
	for _, e := range parsed.Get("entities").Array() {
		text := strings.TrimSpace(e.Get("text").String())
		if text == "" {
			continue
		}
		typ := strings.ToLower(e.Get("type").String())
		switch typ {
		case "person", "organization", "location":
		default:
			typ = "other"
		}
		intent.Entities = append(intent.Entities, Entity{Text: text, Type: typ})
	}
	return intent, true
}

// extractJSON strips markdown fences and any prose around the first JSON
// object. Models sometimes wrap strict JSON anyway.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			return raw[i : j+1]
		}
	}
	return raw
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
