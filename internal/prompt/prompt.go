// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package prompt builds the French system prompt and the search summary
// block injected before the final completion call.
package prompt

import (
	"fmt"
	"strings"

	"github.com/esprit-tdah/tdai/internal/score"
)

// System is the base assistant instruction. Answers default to France and
// euros; the assistant must state uncertainty rather than invent, and must
// not blend unrelated history into the current answer.
const System = `Tu es un assistant conversationnel en français, clair et concis.
Règles :
- Par défaut, réponds pour la France : prix en euros, institutions françaises, contexte français.
- Réponds uniquement à la dernière question. N'utilise l'historique que s'il est directement lié ; ne mélange jamais des sujets précédents sans rapport.
- Si tu n'es pas sûr d'une information, dis-le clairement. N'invente jamais de chiffres, de prix, de dates ou de noms.
- Quand des résultats de recherche web sont fournis, appuie ta réponse dessus et reste fidèle à leur contenu.`

// FutureInstruction is appended for questions about events too far ahead
// to know. The assistant must refuse to predict instead of guessing.
const FutureInstruction = `La question porte sur un événement futur dont le résultat n'est pas encore connu. Explique que tu ne peux pas prédire l'avenir, sans inventer de réponse. Tu peux rappeler les faits actuels pertinents s'il y en a.`

// NoReliableInfo is appended when a search ran but no usable result
// survived filtering.
const NoReliableInfo = `La recherche web n'a renvoyé aucune information fiable sur cette question. Dis honnêtement que tu n'as pas trouvé d'information à jour et réponds prudemment avec tes connaissances générales, en précisant qu'elles peuvent être dépassées.`

// SearchBlock renders the filtered search results as a context block. The
// block is empty when results is empty; callers use NoReliableInfo instead.
func SearchBlock(query string, results []score.Scored) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Résultats de recherche web pour « %s » :\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(r.Title))
		if snippet := strings.TrimSpace(r.Snippet); snippet != "" {
			fmt.Fprintf(&b, "   %s\n", snippet)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "   Source : %s\n", r.URL)
		}
	}
	b.WriteString("Utilise ces résultats pour répondre. Cite les faits qui en viennent ; ne complète pas avec des chiffres inventés.")
	return b.String()
}
