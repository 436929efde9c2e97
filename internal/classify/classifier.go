// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package classify implements the rule-based topic classifier: a battery of
// independent boolean detectors over normalized text, combined into a single
// "is this topic volatile" verdict. This layer is the deterministic ground
// truth the advisory model classifier can refine but never override.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/esprit-tdah/tdai/internal/textnorm"
)

// Volatility grades how quickly a topic's correct answer goes stale.
type Volatility string

const (
	VolatilityHigh   Volatility = "high"
	VolatilityMedium Volatility = "medium"
	VolatilityLow    Volatility = "low"
)

// explicitYearMin/Max bound the "mentions a recent year" volatility signal.
const (
	explicitYearMin = 2023
	explicitYearMax = 2039
)

var (
	yearPattern   = regexp.MustCompile(`\b(20\d{2})\b`)
	// Single-token entities only: the advisory entity router handles
	// multi-word names, this is the high-precision fallback.
	versusPattern = regexp.MustCompile(`\b([\p{L}\d][\p{L}\d'-]{1,40})\s+(?:vs\.?|versus|contre)\s+([\p{L}\d][\p{L}\d'-]{1,40})`)
)

// Classifier evaluates the keyword-table predicates. All methods take raw
// text, normalize it internally and are pure, stateless and order
// independent.
type Classifier struct {
	vocab Vocabulary
}

// New returns a Classifier over the given vocabulary tables.
func New(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// NewDefault returns a Classifier over the built-in vocabulary.
func NewDefault() *Classifier {
	return New(DefaultVocabulary())
}

func containsAny(text string, table []string) bool {
	for _, w := range table {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsPriceQuestion reports mentions of price/cost/subscription vocabulary.
func (c *Classifier) IsPriceQuestion(text string) bool {
	return containsAny(textnorm.Fold(text), c.vocab.Price)
}

// IsProductOrServiceQuestion reports mentions of named commercial brands,
// products or services.
func (c *Classifier) IsProductOrServiceQuestion(text string) bool {
	return containsAny(textnorm.Fold(text), c.vocab.Product)
}

// IsPersonInRoleQuestion reports titles denoting an incumbent office-holder.
func (c *Classifier) IsPersonInRoleQuestion(text string) bool {
	return containsAny(textnorm.Fold(text), c.vocab.PersonInRole)
}

// IsRecentLawOrPoliticsQuestion requires a legislative-vocabulary hit AND
// either a recency hit or a government/France-context hit. Law vocabulary
// alone is not enough: "qu'est-ce qu'une loi ?" must stay false.
func (c *Classifier) IsRecentLawOrPoliticsQuestion(text string) bool {
	n := textnorm.Fold(text)
	if !containsAny(n, c.vocab.Law) {
		return false
	}
	return containsAny(n, c.vocab.Recency) || containsAny(n, c.vocab.Government)
}

// IsGenericCurrentAffairQuestion reports political/crisis, results/scores,
// "last match/episode", weather or macroeconomic vocabulary.
func (c *Classifier) IsGenericCurrentAffairQuestion(text string) bool {
	return containsAny(textnorm.Fold(text), c.vocab.CurrentAffairs)
}

// IsSportsLikeQuestion reports sport/combat vocabulary, an "X vs Y" or
// "X contre Y" pattern, or faced/played-against phrasing.
func (c *Classifier) IsSportsLikeQuestion(text string) bool {
	n := textnorm.Fold(text)
	if containsAny(n, c.vocab.Sports) {
		return true
	}
	return versusPattern.MatchString(n)
}

// IsTechOrGlobalInfoQuestion reports AI/dev/SaaS/crypto vocabulary. It
// signals a locale bias toward the global English web.
func (c *Classifier) IsTechOrGlobalInfoQuestion(text string) bool {
	return containsAny(textnorm.Fold(text), c.vocab.TechGlobal)
}

// IsVolatileTopic is the combined verdict: any detector firing, an explicit
// year in the recent window, or an immediacy adverb.
func (c *Classifier) IsVolatileTopic(text string) bool {
	if c.IsPriceQuestion(text) ||
		c.IsProductOrServiceQuestion(text) ||
		c.IsPersonInRoleQuestion(text) ||
		c.IsRecentLawOrPoliticsQuestion(text) ||
		c.IsGenericCurrentAffairQuestion(text) ||
		c.IsSportsLikeQuestion(text) ||
		c.IsTechOrGlobalInfoQuestion(text) {
		return true
	}
	n := textnorm.Fold(text)
	for _, m := range yearPattern.FindAllString(n, -1) {
		if y, err := strconv.Atoi(m); err == nil && y >= explicitYearMin && y <= explicitYearMax {
			return true
		}
	}
	return containsAny(n, c.vocab.Immediacy)
}

// SuggestsWebSearch is the broader "user wants the web" heuristic: explicit
// search phrasing and generic actuality words, on top of the volatility
// verdict's own tables.
func (c *Classifier) SuggestsWebSearch(text string) bool {
	return containsAny(textnorm.Fold(text), c.vocab.WebTriggers)
}

// IsFutureQuestion detects questions about dates or events beyond a
// near-term horizon (currentYear+1). Searching for things that have not
// happened is suppressed unconditionally downstream.
func (c *Classifier) IsFutureQuestion(text string, currentYear int) bool {
	n := textnorm.Fold(text)
	for _, m := range yearPattern.FindAllString(n, -1) {
		if y, err := strconv.Atoi(m); err == nil && y > currentYear+1 {
			return true
		}
	}
	// Future phrasing alone only counts when the question is interrogative
	// about an outcome ("qui sera...", "quand sera..."), not for any use of
	// the future tense.
	if containsAny(n, c.vocab.Future) {
		return strings.Contains(n, "qui sera") || strings.Contains(n, "quand sera") ||
			strings.Contains(n, "qui gagnera") || strings.Contains(n, "que se passera")
	}
	return false
}

// IsSimpleGreeting reports short salutations that must never trigger a
// search nor the uncertainty boilerplate.
func (c *Classifier) IsSimpleGreeting(text string) bool {
	n := strings.TrimSpace(textnorm.Fold(text))
	if len(n) >= 40 {
		return false
	}
	for _, g := range c.vocab.Greetings {
		if n == g || strings.HasPrefix(n, g+" ") || strings.HasPrefix(n, g+",") || strings.HasPrefix(n, g+"!") {
			return true
		}
	}
	return false
}

// VersusEntities extracts the two sides of an "X vs Y" / "X contre Y"
// pattern from normalized text. The boolean is false when no pattern is
// present.
func (c *Classifier) VersusEntities(text string) (string, string, bool) {
	m := versusPattern.FindStringSubmatch(textnorm.Fold(text))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// Verdict is the deterministic classification produced by the regex layer.
type Verdict struct {
	Volatile     bool
	Volatility   Volatility
	SuggestsWeb  bool
	Price        bool
	Product      bool
	PersonInRole bool
	LawPolitics  bool
	CurrentAff   bool
	Sports       bool
	TechGlobal   bool
	Greeting     bool
	Future       bool
}

// Classify runs every detector once and folds the results into a Verdict.
// Volatility grading: price/person-in-role/law/current-affairs/sports are
// high; product and tech/global are medium; everything else low.
func (c *Classifier) Classify(text string, currentYear int) Verdict {
	v := Verdict{
		Price:        c.IsPriceQuestion(text),
		Product:      c.IsProductOrServiceQuestion(text),
		PersonInRole: c.IsPersonInRoleQuestion(text),
		LawPolitics:  c.IsRecentLawOrPoliticsQuestion(text),
		CurrentAff:   c.IsGenericCurrentAffairQuestion(text),
		Sports:       c.IsSportsLikeQuestion(text),
		TechGlobal:   c.IsTechOrGlobalInfoQuestion(text),
		Greeting:     c.IsSimpleGreeting(text),
		Future:       c.IsFutureQuestion(text, currentYear),
		SuggestsWeb:  c.SuggestsWebSearch(text),
	}
	v.Volatile = c.IsVolatileTopic(text)
	switch {
	case v.Price || v.PersonInRole || v.LawPolitics || v.CurrentAff || v.Sports:
		v.Volatility = VolatilityHigh
	case v.Product || v.TechGlobal || v.Volatile:
		v.Volatility = VolatilityMedium
	default:
		v.Volatility = VolatilityLow
	}
	return v
}
