// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package main provides the entry point for the TDAI chat server. The
// server answers French chat messages over HTTP and WebSocket, deciding
// per question whether a live web search is worth running before the
// model composes its answer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/api"
	"github.com/esprit-tdah/tdai/internal/buildinfo"
	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/compose"
	"github.com/esprit-tdah/tdai/internal/config"
	"github.com/esprit-tdah/tdai/internal/decide"
	"github.com/esprit-tdah/tdai/internal/llm"
	"github.com/esprit-tdah/tdai/internal/locale"
	"github.com/esprit-tdah/tdai/internal/logging"
	"github.com/esprit-tdah/tdai/internal/memory"
	"github.com/esprit-tdah/tdai/internal/pipeline"
	"github.com/esprit-tdah/tdai/internal/plugin"
	"github.com/esprit-tdah/tdai/internal/rewrite"
	"github.com/esprit-tdah/tdai/internal/score"
	"github.com/esprit-tdah/tdai/internal/search"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tdai %s (commit %s, built %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return
	}

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env: %v", err)
	}

	if err := run(*configPath); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logging.SetDebug(cfg.Debug)
	if err := logging.ConfigureLogOutput(cfg.LoggingToFile); err != nil {
		return err
	}
	log.Infof("tdai %s starting", buildinfo.Version)

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	server := api.NewServer(cfg, p)

	// Hot reload applies the debug level, the filter margin and the search
	// provider; other changes need a restart.
	provider := cfg.SearchProvider
	watcher, err := config.Watch(configPath, func(next *config.Config) {
		logging.SetDebug(next.Debug)
		p.SetFilterMargin(next.FilterMargin)
		if next.SearchProvider != provider {
			gateway, gwErr := newGateway(next)
			if gwErr != nil {
				log.Warnf("search provider change ignored: %v", gwErr)
				return
			}
			p.SetGateway(gateway)
			provider = next.SearchProvider
			log.Infof("search provider switched to %s", provider)
		}
	})
	if err != nil {
		log.Warnf("config watcher disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildPipeline wires every stage from the configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	vocab, err := classify.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, err
	}
	classifier := classify.New(vocab)

	timeouts := pipeline.DefaultTimeouts()

	if cfg.OpenAIAPIKey == "" {
		log.Warn("no completion API key configured, answers will fail")
	}
	client, err := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ProxyURL, timeouts.Completion)
	if err != nil {
		return nil, err
	}
	advisoryClient, err := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.ProxyURL, timeouts.Advisory)
	if err != nil {
		return nil, err
	}
	adv := advisor.New(advisoryClient, cfg.AdvisoryModel)
	rewriter := rewrite.New(classifier, advisoryClient, cfg.AdvisoryModel)

	gateway, err := newGateway(cfg)
	if err != nil {
		return nil, err
	}

	overrides, err := decide.CompileOverrides(cfg.Overrides)
	if err != nil {
		return nil, err
	}
	hook, err := plugin.NewLuaEngine(cfg.ScoreHook)
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		classifier,
		adv,
		locale.NewRouter(classifier),
		rewriter,
		decide.New(overrides),
		gateway,
		score.NewScorer(classifier, score.DefaultRules()),
		hook,
		memory.NewStore(cfg.HistoryTurns, memory.DefaultMaxCallers, 30*time.Minute),
		compose.New(cfg.Model, cfg.TokenBudget),
		client,
		pipeline.Options{
			Model:        cfg.Model,
			Temperature:  cfg.Temperature,
			FilterMargin: cfg.FilterMargin,
			TokenBudget:  cfg.TokenBudget,
			Timeouts:     timeouts,
		},
	), nil
}

// newGateway builds the configured search gateway.
func newGateway(cfg *config.Config) (search.Gateway, error) {
	timeout := pipeline.DefaultTimeouts().Search
	switch cfg.SearchProvider {
	case "brave":
		return search.NewBrave(cfg.BraveAPIKey, cfg.ProxyURL, timeout)
	default:
		return search.NewSerpAPI(cfg.SerpAPIKey, cfg.ProxyURL, timeout)
	}
}
