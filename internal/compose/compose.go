// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package compose assembles the final completion message list: system
// instructions, the search context block, trimmed history, and the current
// question. History is dropped oldest-first until the whole request fits
// the token budget; the system parts and the question are never dropped.
package compose

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tiktoken-go/tokenizer"

	"github.com/esprit-tdah/tdai/internal/llm"
)

// DefaultBudget is the request token budget, well under the context window
// of every supported model.
const DefaultBudget = 6000

// perMessageOverhead approximates the chat framing tokens per message.
const perMessageOverhead = 4

// Composer builds message lists within a token budget.
type Composer struct {
	codec  tokenizer.Codec
	budget int
}

// New builds a Composer for the given model id. Unknown models fall back
// to the o200k encoding. A non-positive budget uses DefaultBudget.
func New(model string, budget int) *Composer {
	if budget <= 0 {
		budget = DefaultBudget
	}
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		codec, err = tokenizer.Get(tokenizer.O200kBase)
		if err != nil {
			// Leaves codec nil; countTokens then falls back to a
			// word-based estimate.
			log.Warnf("compose: tokenizer init failed: %v", err)
		}
	}
	return &Composer{codec: codec, budget: budget}
}

// Build assembles the request messages. systemParts are joined into one
// system message; empty parts are skipped. history must alternate
// user/assistant, oldest first.
func (c *Composer) Build(systemParts []string, history []llm.Message, question string) []llm.Message {
	var kept []string
	for _, part := range systemParts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	system := llm.Message{Role: "system", Content: strings.Join(kept, "\n\n")}
	user := llm.Message{Role: "user", Content: question}

	spent := c.countTokens(system.Content) + c.countTokens(user.Content) + 2*perMessageOverhead
	remaining := c.budget - spent

	// Walk history newest-first so the most recent turns survive.
	var turns []llm.Message
	for i := len(history) - 1; i >= 0; i-- {
		cost := c.countTokens(history[i].Content) + perMessageOverhead
		if cost > remaining {
			break
		}
		remaining -= cost
		turns = append(turns, history[i])
	}
	if dropped := len(history) - len(turns); dropped > 0 {
		log.WithField("dropped_turns", dropped).Debug("compose: history trimmed to fit token budget")
	}

	messages := make([]llm.Message, 0, len(turns)+2)
	messages = append(messages, system)
	for i := len(turns) - 1; i >= 0; i-- {
		messages = append(messages, turns[i])
	}
	return append(messages, user)
}

func (c *Composer) countTokens(text string) int {
	if c.codec != nil {
		if n, err := c.codec.Count(text); err == nil {
			return n
		}
	}
	// Rough subword estimate, same ratio the simple estimator uses.
	return int(float64(len(strings.Fields(text))) * 1.3)
}
