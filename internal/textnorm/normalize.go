// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package textnorm provides text normalization primitives shared by every
// heuristic in the search decision pipeline: lowercasing, diacritic stripping
// and keyword extraction against a French stopword list.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes Unicode combining marks after NFD decomposition,
// turning "coûte" into "coute" and "Assemblée" into "Assemblee".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// frenchStopwords are tokens carrying no topical signal. Keyword extraction
// drops them together with any token of length <= 2.
var frenchStopwords = map[string]struct{}{
	"les": {}, "des": {}, "une": {}, "est": {}, "pour": {}, "que": {},
	"qui": {}, "quoi": {}, "quel": {}, "quelle": {}, "quels": {}, "quelles": {},
	"avec": {}, "dans": {}, "sur": {}, "par": {}, "pas": {}, "plus": {},
	"mais": {}, "son": {}, "ses": {}, "leur": {}, "leurs": {}, "mon": {},
	"mes": {}, "ton": {}, "tes": {}, "nos": {}, "vos": {}, "ils": {},
	"elle": {}, "elles": {}, "nous": {}, "vous": {}, "moi": {}, "toi": {},
	"cette": {}, "ces": {}, "cela": {}, "comme": {}, "tout": {}, "tous": {},
	"toute": {}, "toutes": {}, "aux": {}, "ont": {}, "sont": {}, "etre": {},
	"avoir": {}, "fait": {}, "faire": {}, "peut": {}, "bien": {}, "aussi": {},
	"donc": {}, "alors": {}, "combien": {}, "pourquoi": {}, "comment": {},
	"the": {}, "and": {}, "for": {}, "what": {}, "how": {}, "much": {},
}

// Normalize lowercases s and strips combining diacritical marks.
// It is pure and total: an empty input yields an empty output, and the
// function is idempotent on its own output.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// Removal transforms cannot fail on valid UTF-8; on malformed input
		// fall back to the lowercased original rather than erroring.
		return strings.ToLower(s)
	}
	return out
}

// Fold prepares text for keyword-table matching: Normalize plus apostrophe
// variants folded to spaces ("aujourd'hui" -> "aujourd hui") and runs of
// whitespace collapsed. Table entries are written in folded form.
func Fold(s string) string {
	n := Normalize(s)
	n = strings.Map(func(r rune) rune {
		switch r {
		case '\'', '’', 'ʼ':
			return ' '
		}
		return r
	}, n)
	return strings.Join(strings.Fields(n), " ")
}

// Tokenize splits normalized text on non-alphanumeric boundaries.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ExtractKeywords returns the normalized tokens of s with stopwords and
// tokens of length <= 2 removed. Order follows first appearance, duplicates
// are dropped.
func ExtractKeywords(s string) []string {
	tokens := Tokenize(s)
	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := frenchStopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// IsStopword reports whether the normalized token is in the stopword list.
func IsStopword(tok string) bool {
	_, ok := frenchStopwords[Normalize(tok)]
	return ok
}
