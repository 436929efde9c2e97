// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config provides configuration management for the TDAI server.
// It handles loading and parsing the YAML configuration file, applies
// environment-variable overrides for secrets, and hashes the optional
// shared access secret.
package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/esprit-tdah/tdai/internal/decide"
	"github.com/esprit-tdah/tdai/internal/plugin"
)

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Host is the network host/interface on which the API server will bind.
	// Default is empty ("") to bind all interfaces. Use "127.0.0.1" for local-only access.
	Host string `yaml:"host"`
	// Port is the network port on which the API server will listen.
	Port int `yaml:"port"`

	// Debug enables or disables debug-level logging.
	Debug bool `yaml:"debug"`
	// LoggingToFile controls whether application logs are written to rotating files or stdout.
	LoggingToFile bool `yaml:"logging-to-file"`

	// Model is the model id used for answers. Default "gpt-4o".
	Model string `yaml:"model"`
	// AdvisoryModel is the model id used for classification and rewrite calls.
	// Default "gpt-4o-mini".
	AdvisoryModel string `yaml:"advisory-model"`
	// Temperature is the sampling temperature for answers. Default 0.3.
	Temperature float64 `yaml:"temperature"`
	// TokenBudget caps the request size in tokens when assembling messages.
	TokenBudget int `yaml:"token-budget"`

	// OpenAIBaseURL overrides the completion API base URL.
	// Default "https://api.openai.com/v1".
	OpenAIBaseURL string `yaml:"openai-base-url"`
	// OpenAIAPIKey is the completion API key. Overridden by OPENAI_API_KEY.
	OpenAIAPIKey string `yaml:"openai-api-key"`

	// SearchProvider selects the search gateway: "serpapi" (default) or "brave".
	SearchProvider string `yaml:"search-provider"`
	// SerpAPIKey is the SerpAPI key. Overridden by SERPAPI_API_KEY.
	SerpAPIKey string `yaml:"serpapi-api-key"`
	// BraveAPIKey is the Brave Search key. Overridden by BRAVE_API_KEY.
	BraveAPIKey string `yaml:"brave-api-key"`

	// ProxyURL routes outbound requests through a proxy.
	// Supports socks5://, socks5h://, http:// and https:// schemes.
	ProxyURL string `yaml:"proxy-url"`

	// FilterMargin is the permissive band below the best score within which
	// results are kept. Default 3.
	FilterMargin int `yaml:"filter-margin"`
	// VocabularyPath points to an optional YAML file overriding the built-in
	// keyword tables.
	VocabularyPath string `yaml:"vocabulary-path"`

	// AccessSecret optionally protects the API. Plaintext values are bcrypt
	// hashed at load; a value with a $2a$/$2b$/$2y$ prefix is kept as-is.
	AccessSecret string `yaml:"access-secret"`

	// HistoryTurns caps the per-caller conversation history. Default 8.
	HistoryTurns int `yaml:"history-turns"`

	// Overrides lists operator rules that force or suppress search.
	Overrides []decide.OverrideRule `yaml:"search-overrides"`

	// ScoreHook configures the optional Lua score hook.
	ScoreHook plugin.Config `yaml:"score-hook"`
}

// LoadConfig reads YAML from configFile, fills defaults and applies
// environment overrides. A missing file yields the default configuration.
func LoadConfig(configFile string) (*Config, error) {
	cfg := &Config{
		Port:           8317,
		Model:          "gpt-4o",
		AdvisoryModel:  "gpt-4o-mini",
		Temperature:    0.3,
		SearchProvider: "serpapi",
		FilterMargin:   3,
		HistoryTurns:   8,
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	switch cfg.SearchProvider {
	case "serpapi", "brave":
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}

	if cfg.AccessSecret != "" && !looksLikeBcrypt(cfg.AccessSecret) {
		hashed, errHash := hashSecret(cfg.AccessSecret)
		if errHash != nil {
			return nil, fmt.Errorf("failed to hash access secret: %w", errHash)
		}
		cfg.AccessSecret = hashed
	}

	return cfg, nil
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("SERPAPI_API_KEY"); v != "" {
		cfg.SerpAPIKey = v
	}
	if v := os.Getenv("BRAVE_API_KEY"); v != "" {
		cfg.BraveAPIKey = v
	}
	if v := os.Getenv("TDAI_PROXY_URL"); v != "" {
		cfg.ProxyURL = v
	}
}

// CheckAccessSecret verifies a presented secret against the stored hash.
// An empty configured secret disables the check.
func (c *Config) CheckAccessSecret(presented string) bool {
	if c.AccessSecret == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(c.AccessSecret), []byte(presented)) == nil
}

// looksLikeBcrypt returns true if the provided string appears to be a bcrypt hash.
func looksLikeBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// hashSecret hashes the given secret using bcrypt.
func hashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
