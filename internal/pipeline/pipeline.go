// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipeline orchestrates one chat turn: follow-up resolution,
// classification, the search decision, locale routing, query rewriting,
// search, scoring and filtering, message composition and the final
// completion. The advisory and search stages are best-effort; only the
// final completion can fail a turn.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/compose"
	"github.com/esprit-tdah/tdai/internal/decide"
	"github.com/esprit-tdah/tdai/internal/llm"
	"github.com/esprit-tdah/tdai/internal/locale"
	"github.com/esprit-tdah/tdai/internal/memory"
	"github.com/esprit-tdah/tdai/internal/plugin"
	"github.com/esprit-tdah/tdai/internal/prompt"
	"github.com/esprit-tdah/tdai/internal/rewrite"
	"github.com/esprit-tdah/tdai/internal/score"
	"github.com/esprit-tdah/tdai/internal/search"
	"github.com/esprit-tdah/tdai/internal/textnorm"
)

// followUpTriggers resolve to the caller's stored last question.
var followUpTriggers = []string{
	"reponds a ma question precedente",
	"repond a ma question precedente",
	"ma question precedente",
	"ma question d avant",
}

// Completer abstracts the answer model. Satisfied by *llm.Client.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
	CompleteStream(ctx context.Context, messages []llm.Message, opts llm.Options, onDelta func(string)) (string, error)
}

// Timeouts bounds the external calls of one turn.
type Timeouts struct {
	Search     time.Duration
	Advisory   time.Duration
	Completion time.Duration
}

// DefaultTimeouts returns the stock per-stage timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{Search: 8 * time.Second, Advisory: 10 * time.Second, Completion: 60 * time.Second}
}

// Options configures a Pipeline.
type Options struct {
	Model        string
	Temperature  float64
	FilterMargin int
	TokenBudget  int
	Timeouts     Timeouts
	// Now supplies the clock, defaulting to time.Now.
	Now func() time.Time
}

// Pipeline wires the full decision and answer flow.
type Pipeline struct {
	classifier *classify.Classifier
	advisor    *advisor.Advisor
	router     *locale.Router
	rewriter   *rewrite.Rewriter
	decider    *decide.Decider
	scorer     *score.Scorer
	hook       *plugin.LuaEngine
	store      *memory.Store
	composer   *compose.Composer
	completer  Completer
	opts       Options

	// mu guards the tunables a config reload may swap mid-flight.
	mu      sync.RWMutex
	gateway search.Gateway
	margin  int
}

// New assembles a Pipeline. gateway, hook and the advisory completer
// inside adv may be nil; those stages then degrade gracefully.
func New(
	classifier *classify.Classifier,
	adv *advisor.Advisor,
	router *locale.Router,
	rewriter *rewrite.Rewriter,
	decider *decide.Decider,
	gateway search.Gateway,
	scorer *score.Scorer,
	hook *plugin.LuaEngine,
	store *memory.Store,
	composer *compose.Composer,
	completer Completer,
	opts Options,
) *Pipeline {
	if opts.Model == "" {
		opts.Model = "gpt-4o"
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.3
	}
	if opts.FilterMargin <= 0 {
		opts.FilterMargin = score.DefaultMargin
	}
	if opts.Timeouts == (Timeouts{}) {
		opts.Timeouts = DefaultTimeouts()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		classifier: classifier,
		advisor:    adv,
		router:     router,
		rewriter:   rewriter,
		decider:    decider,
		scorer:     scorer,
		hook:       hook,
		store:      store,
		composer:   composer,
		completer:  completer,
		opts:       opts,
		gateway:    gateway,
		margin:     opts.FilterMargin,
	}
}

// SetFilterMargin updates the result filter margin for subsequent turns.
// Non-positive values restore the default.
func (p *Pipeline) SetFilterMargin(margin int) {
	if margin <= 0 {
		margin = score.DefaultMargin
	}
	p.mu.Lock()
	p.margin = margin
	p.mu.Unlock()
}

// SetGateway swaps the search gateway for subsequent turns. A nil gateway
// disables search.
func (p *Pipeline) SetGateway(g search.Gateway) {
	p.mu.Lock()
	p.gateway = g
	p.mu.Unlock()
}

func (p *Pipeline) currentGateway() search.Gateway {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gateway
}

func (p *Pipeline) filterMargin() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.margin
}

// Status values reported while a turn is in flight.
const (
	StatusSearching     = "searching"
	StatusSearchingDone = "searching-done"
)

// Response is the outcome of one turn.
type Response struct {
	Answer     string `json:"answer"`
	UsedSearch bool   `json:"usedSearch"`
	Volatile   bool   `json:"volatile"`
	ModeLabel  string `json:"modeLabel"`
	Domain     string `json:"domain"`
	Country    string `json:"country"`
}

// Handle runs one turn for the caller identified by callerKey. onStatus
// and onDelta may be nil; onStatus receives search progress, onDelta the
// streamed answer chunks.
func (p *Pipeline) Handle(ctx context.Context, callerKey, text string, onStatus func(status string), onDelta func(delta string)) (Response, error) {
	requestID := uuid.NewString()[:8]
	logger := log.WithField("request_id", requestID)

	question := p.effectiveQuestion(callerKey, text)
	currentYear := p.opts.Now().Year()

	verdict := p.classifier.Classify(question, currentYear)

	var advisory advisor.Verdict
	var entities advisor.EntityIntent
	advisoryOK := false
	if !verdict.Greeting {
		advisoryOK, advisory, entities = p.consultAdvisor(ctx, question)
	}

	decision := p.decider.Decide(decide.Inputs{
		Question:     question,
		Regex:        verdict,
		Advisory:     advisory,
		AdvisoryOK:   advisoryOK,
		VersusSports: entities.IsVersusPattern && entities.LikelyDomain == "sport",
	})
	logger.WithFields(log.Fields{
		"use_search": decision.UseSearch,
		"volatility": decision.Volatility,
		"domain":     decision.Domain,
		"reason":     decision.Reason,
	}).Info("search decision")

	systemParts := []string{prompt.System}
	usedSearch := false
	gateway := p.currentGateway()
	if decision.Future {
		systemParts = append(systemParts, prompt.FutureInstruction)
	} else if decision.UseSearch && gateway != nil {
		block, searched := p.runSearch(ctx, logger, gateway, question, decision, entities, currentYear, onStatus)
		usedSearch = searched
		systemParts = append(systemParts, block)
	}

	history := p.store.History(callerKey)
	messages := p.composer.Build(systemParts, history, question)

	answer, err := p.complete(ctx, logger, messages, onDelta)
	if err != nil {
		return Response{}, err
	}

	p.store.Append(callerKey, llm.Message{Role: "user", Content: question})
	p.store.Append(callerKey, llm.Message{Role: "assistant", Content: answer})
	if !isFollowUp(text) {
		p.store.RememberQuestion(callerKey, question)
	}

	return Response{
		Answer:     answer,
		UsedSearch: usedSearch,
		Volatile:   decision.Volatility != classify.VolatilityLow,
		ModeLabel:  modeLabel(decision, usedSearch),
		Domain:     decision.Domain,
		Country:    decision.Country,
	}, nil
}

// effectiveQuestion swaps a follow-up trigger for the stored last
// question when one exists.
func (p *Pipeline) effectiveQuestion(callerKey, text string) string {
	if !isFollowUp(text) {
		return text
	}
	if last := p.store.LastQuestion(callerKey); last != "" {
		log.Debugf("pipeline: follow-up resolved to %q", last)
		return last
	}
	return text
}

func isFollowUp(text string) bool {
	folded := textnorm.Fold(text)
	for _, trigger := range followUpTriggers {
		if strings.Contains(folded, trigger) {
			return true
		}
	}
	return false
}

func (p *Pipeline) consultAdvisor(ctx context.Context, question string) (bool, advisor.Verdict, advisor.EntityIntent) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeouts.Advisory)
	defer cancel()

	verdict, ok := p.advisor.Classify(ctx, question)
	entities, entitiesOK := p.advisor.ExtractEntities(ctx, question)
	if !entitiesOK {
		entities = advisor.EntityIntent{}
	}
	return ok, verdict, entities
}

// runSearch performs rewrite, search, scoring and filtering, and returns
// the system-prompt block describing the outcome. searched is false when
// the gateway itself failed.
func (p *Pipeline) runSearch(ctx context.Context, logger *log.Entry, gateway search.Gateway, question string, decision decide.Decision, entities advisor.EntityIntent, currentYear int, onStatus func(string)) (block string, searched bool) {
	loc := p.router.Resolve(question, locale.Signals{Country: decision.Country, Domain: decision.Domain})
	query := p.rewriter.Rewrite(ctx, question, entities, loc, currentYear)

	if onStatus != nil {
		onStatus(StatusSearching)
		defer onStatus(StatusSearchingDone)
	}

	searchCtx, cancel := context.WithTimeout(ctx, p.opts.Timeouts.Search)
	defer cancel()
	results, err := gateway.Search(searchCtx, query, loc)
	if err != nil {
		logger.WithField("gateway", gateway.Name()).Warnf("search failed: %v", err)
		return prompt.NoReliableInfo, false
	}

	scored := p.scorer.ScoreAll(question, results, currentYear)
	if p.hook.IsEnabled() {
		scored = p.hook.AdjustScores(ctx, question, scored)
	}
	kept := score.Filter(scored, p.filterMargin())
	logger.WithFields(log.Fields{
		"query":   query,
		"results": len(results),
		"kept":    len(kept),
		"locale":  loc.GeoCode,
	}).Info("search completed")

	if len(kept) == 0 {
		return prompt.NoReliableInfo, true
	}
	return prompt.SearchBlock(query, kept), true
}

// complete streams the answer, retrying once without streaming when the
// streamed text comes back empty.
func (p *Pipeline) complete(ctx context.Context, logger *log.Entry, messages []llm.Message, onDelta func(string)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeouts.Completion)
	defer cancel()

	opts := llm.Options{Model: p.opts.Model, Temperature: p.opts.Temperature}
	answer, err := p.completer.CompleteStream(ctx, messages, opts, onDelta)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) != "" {
		return answer, nil
	}

	logger.Warn("streamed answer empty, retrying without streaming")
	answer, err = p.completer.Complete(ctx, messages, opts)
	if err != nil {
		return "", err
	}
	if onDelta != nil && answer != "" {
		onDelta(answer)
	}
	return answer, nil
}

func modeLabel(decision decide.Decision, usedSearch bool) string {
	switch {
	case decision.Future:
		return "future"
	case usedSearch:
		return "web"
	default:
		return "direct"
	}
}
