// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rewrite turns a conversational question into a compact search
// query. Three strategies are tried in order: a deterministic template for
// versus questions, a model rewrite with worked examples, and a plain
// "question + year" fallback. The rewriter never returns an empty query.
package rewrite

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/llm"
	"github.com/esprit-tdah/tdai/internal/locale"
)

// Completer is the completion capability used for model rewrites.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// Rewriter builds search queries from user questions.
type Rewriter struct {
	classifier *classify.Classifier
	completer  Completer
	model      string
}

// New builds a Rewriter. completer may be nil; the rewriter then only uses
// deterministic strategies.
func New(classifier *classify.Classifier, completer Completer, model string) *Rewriter {
	return &Rewriter{classifier: classifier, completer: completer, model: model}
}

const rewritePromptFR = `Tu réécris des questions en requêtes de recherche Google courtes (3 à 8 mots), sans guillemets ni ponctuation finale. Garde les noms propres tels quels. Réponds UNIQUEMENT avec la requête.
Exemples :
Question : combien coûte Netflix par mois en ce moment ?
Requête : prix abonnement Netflix France %d
Question : c'est qui le président de l'Assemblée Nationale ?
Requête : président Assemblée Nationale %d
Question : qui a gagné le match d'hier entre le PSG et Marseille ?
Requête : PSG Marseille résultat`

const rewritePromptEN = `You rewrite questions into short Google search queries (3 to 8 words), no quotes, no trailing punctuation. Keep proper nouns as-is. Answer ONLY with the query.
Examples:
Question: how much does Netflix cost right now?
Query: Netflix subscription price %d
Question: who won yesterday's Lakers game?
Query: Lakers game result`

// Rewrite produces the search query for question. entities comes from the
// advisory router and may be empty.
func (r *Rewriter) Rewrite(ctx context.Context, question string, entities advisor.EntityIntent, loc locale.Locale, currentYear int) string {
	if q := r.versusQuery(question, entities, loc, currentYear); q != "" {
		return q
	}
	if q := r.modelRewrite(ctx, question, loc, currentYear); q != "" {
		return q
	}
	return fallbackQuery(question, currentYear)
}

// versusQuery handles "X contre Y" questions with a fixed template. Entity
// pairs from the advisory router take precedence over the regex capture
// because they handle multi-word names.
func (r *Rewriter) versusQuery(question string, entities advisor.EntityIntent, loc locale.Locale, currentYear int) string {
	var e1, e2 string
	if entities.IsVersusPattern && len(entities.Entities) >= 2 {
		e1, e2 = entities.Entities[0].Text, entities.Entities[1].Text
	} else if a, b, ok := r.classifier.VersusEntities(question); ok {
		e1, e2 = a, b
	}
	if e1 == "" || e2 == "" {
		return ""
	}
	outcome := "résultat"
	if loc.Language != "fr" {
		outcome = "result"
	}
	return fmt.Sprintf("%s vs %s %s %d", e1, e2, outcome, currentYear)
}

func (r *Rewriter) modelRewrite(ctx context.Context, question string, loc locale.Locale, currentYear int) string {
	if r.completer == nil {
		return ""
	}
	prompt := fmt.Sprintf(rewritePromptFR, currentYear, currentYear)
	if loc.Language != "fr" {
		prompt = fmt.Sprintf(rewritePromptEN, currentYear)
	}
	raw, err := r.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: question},
	}, llm.Options{Model: r.model, Temperature: 0, MaxTokens: 60})
	if err != nil {
		log.Debugf("rewrite: model rewrite unavailable: %v", err)
		return ""
	}
	return sanitize(raw)
}

// sanitize strips quotes, labels and newlines a model may add around the
// query, and rejects output too long or too short to be a real query.
func sanitize(raw string) string {
	q := strings.TrimSpace(raw)
	if i := strings.IndexAny(q, "\r\n"); i >= 0 {
		q = q[:i]
	}
	for _, prefix := range []string{"Requête :", "Requête:", "Query:", "Query :"} {
		q = strings.TrimSpace(strings.TrimPrefix(q, prefix))
	}
	q = strings.Trim(q, `"'`)
	q = strings.TrimRight(q, ".?!")
	q = strings.TrimSpace(q)
	if q == "" || len(q) > 120 {
		return ""
	}
	return q
}

func fallbackQuery(question string, currentYear int) string {
	q := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(question), "?!. "))
	if q == "" {
		q = "actualités"
	}
	return fmt.Sprintf("%s %d", q, currentYear)
}
