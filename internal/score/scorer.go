// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package score implements the hand-tuned relevance scoring of search
// results against the user's question, and the threshold filter that decides
// which results are trustworthy enough to hand to the summarizer. This is an
// explicit, inspectable linear function, not a learned model: every bonus
// and penalty is an independently toggleable rule so each can be tested in
// isolation.
package score

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/search"
	"github.com/esprit-tdah/tdai/internal/textnorm"
)

// Scoring constants. Signs follow the stricter evolved variant: off-topic
// drift is penalized, not merely unrewarded.
const (
	keywordHit          = 2
	noOverlapPenalty    = -4
	productBonus        = 4
	priceBonus          = 3
	personRoleBonus     = 3
	sportsBonus         = 2
	sportsPenalty       = -5
	politicsBonus       = 2
	politicsPenalty     = -4
	realEstateBonus     = 2
	realEstatePenalty   = -5
	entertainBonus      = 2
	entertainPenalty    = -5
	futureYearPenalty   = -3
	recentYearBonus     = 1
	trustedDomainBonus  = 2
	domesticTLDBonus    = 1
)

var yearToken = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Rules toggles each scoring component. The zero value disables everything;
// use DefaultRules for production behavior.
type Rules struct {
	Keywords      bool
	Product       bool
	Price         bool
	PersonInRole  bool
	Sports        bool
	Politics      bool
	RealEstate    bool
	Entertainment bool
	Years         bool
	TrustedDomain bool
}

// DefaultRules enables every scoring component.
func DefaultRules() Rules {
	return Rules{
		Keywords:      true,
		Product:       true,
		Price:         true,
		PersonInRole:  true,
		Sports:        true,
		Politics:      true,
		RealEstate:    true,
		Entertainment: true,
		Years:         true,
		TrustedDomain: true,
	}
}

// Scored pairs a search result with its integer relevance score.
type Scored struct {
	search.Result
	Score int
}

// Scorer computes relevance scores. It is stateless and safe for concurrent
// use.
type Scorer struct {
	classifier *classify.Classifier
	rules      Rules
}

// NewScorer builds a Scorer over the given classifier and rule toggles.
func NewScorer(c *classify.Classifier, rules Rules) *Scorer {
	return &Scorer{classifier: c, rules: rules}
}

// Score computes the relevance of one result for the question. The result's
// title, snippet and URL are folded into one normalized haystack; the
// question's topical nature comes from the classify detectors.
func (s *Scorer) Score(question string, result search.Result, currentYear int) int {
	text := textnorm.Fold(result.Title + " " + result.Snippet + " " + result.URL)
	score := 0

	if s.rules.Keywords {
		hits := 0
		for _, kw := range textnorm.ExtractKeywords(question) {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits == 0 {
			// Zero lexical overlap is a strong relevance-negative signal
			// before any topical bonus can apply.
			score += noOverlapPenalty
		} else {
			score += hits * keywordHit
		}
	}

	qPrice := s.classifier.IsPriceQuestion(question)
	qProduct := s.classifier.IsProductOrServiceQuestion(question)
	qPerson := s.classifier.IsPersonInRoleQuestion(question)
	qSports := s.classifier.IsSportsLikeQuestion(question)
	qPolitics := s.classifier.IsRecentLawOrPoliticsQuestion(question) || containsAny(textnorm.Fold(question), politicsCues)
	qRealEstate := containsAny(textnorm.Fold(question), realEstateCues)
	qEntertainment := containsAny(textnorm.Fold(question), entertainmentCues)

	// The detectors are pure text predicates, so the same product table
	// serves both the question and the result text.
	if s.rules.Product && qProduct && s.classifier.IsProductOrServiceQuestion(text) {
		score += productBonus
	}
	if s.rules.Price && qPrice && containsAny(text, priceCues) {
		score += priceBonus
	}
	if s.rules.PersonInRole && qPerson && containsAny(text, personRoleCues) {
		score += personRoleBonus
	}

	score += s.topicPair(qSports, containsAny(text, sportsCues), sportsBonus, sportsPenalty, s.rules.Sports)
	score += s.topicPair(qPolitics, containsAny(text, politicsCues), politicsBonus, politicsPenalty, s.rules.Politics)
	score += s.topicPair(qRealEstate, containsAny(text, realEstateCues), realEstateBonus, realEstatePenalty, s.rules.RealEstate)
	score += s.topicPair(qEntertainment, containsAny(text, entertainmentCues), entertainBonus, entertainPenalty, s.rules.Entertainment)

	if s.rules.Years {
		score += yearAdjustment(text, currentYear)
	}

	if s.rules.TrustedDomain {
		host := hostOf(result.URL)
		for _, d := range trustedDomains {
			if host == d || strings.HasSuffix(host, "."+d) {
				score += trustedDomainBonus
				break
			}
		}
		if qPrice && strings.HasSuffix(host, ".fr") {
			score += domesticTLDBonus
		}
	}

	return score
}

// ScoreAll scores every result, preserving input order.
func (s *Scorer) ScoreAll(question string, results []search.Result, currentYear int) []Scored {
	scored := make([]Scored, 0, len(results))
	for _, r := range results {
		scored = append(scored, Scored{Result: r, Score: s.Score(question, r, currentYear)})
	}
	return scored
}

// topicPair applies the symmetric bonus / asymmetric penalty scheme: both
// sides on-topic earns the bonus, a result drifting onto a topic the
// question is not about earns the penalty.
func (s *Scorer) topicPair(question, text bool, bonus, penalty int, enabled bool) int {
	if !enabled {
		return 0
	}
	switch {
	case question && text:
		return bonus
	case !question && text:
		return penalty
	default:
		return 0
	}
}

// yearAdjustment penalizes likely-speculative future content and rewards
// fresh content once each, however many year tokens appear.
func yearAdjustment(text string, currentYear int) int {
	adj := 0
	sawFuture, sawRecent := false, false
	for _, m := range yearToken.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if y > currentYear+1 && !sawFuture {
			adj += futureYearPenalty
			sawFuture = true
		}
		if (y == currentYear || y == currentYear-1) && !sawRecent {
			adj += recentYearBonus
			sawRecent = true
		}
	}
	return adj
}

func containsAny(text string, table []string) bool {
	for _, w := range table {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	u := strings.TrimPrefix(strings.TrimPrefix(textnorm.Normalize(rawURL), "https://"), "http://")
	if i := strings.IndexAny(u, "/?#"); i >= 0 {
		u = u[:i]
	}
	return strings.TrimPrefix(u, "www.")
}
