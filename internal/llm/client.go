// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package llm provides the client for the OpenAI-compatible completion
// service. The pipeline uses it three ways: low-temperature advisory calls
// constrained to strict JSON, the query-rewriting call, and the final
// answer generation (streaming, with a single non-streaming retry when the
// streamed text comes back empty).
package llm

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/esprit-tdah/tdai/internal/util"
)

// Message is one role-tagged turn of a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tunes a single completion call.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// StatusError reports a non-2xx upstream answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: upstream status %d: %s", e.Code, e.Body)
}

// Client talks to one OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a completion client. baseURL defaults to the OpenAI API
// when empty; proxyURL may be empty.
func NewClient(baseURL, apiKey, proxyURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	httpClient, err := util.NewHTTPClient(proxyURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}, nil
}

func (c *Client) buildPayload(messages []Message, opts Options, stream bool) ([]byte, error) {
	payload := []byte(`{}`)
	var err error
	if payload, err = sjson.SetBytes(payload, "model", opts.Model); err != nil {
		return nil, err
	}
	if payload, err = sjson.SetBytes(payload, "temperature", opts.Temperature); err != nil {
		return nil, err
	}
	if opts.MaxTokens > 0 {
		if payload, err = sjson.SetBytes(payload, "max_tokens", opts.MaxTokens); err != nil {
			return nil, err
		}
	}
	if stream {
		if payload, err = sjson.SetBytes(payload, "stream", true); err != nil {
			return nil, err
		}
	}
	for i, m := range messages {
		if payload, err = sjson.SetBytes(payload, fmt.Sprintf("messages.%d", i), m); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

func (c *Client) newRequest(ctx context.Context, payload []byte, stream bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if stream {
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}

// Complete runs a non-streaming completion and returns the generated text.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	payload, err := c.buildPayload(messages, opts, false)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, payload, false)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("llm: close response body: %v", errClose)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read body: %w", err)
	}
	text := gjson.GetBytes(body, "choices.0.message.content").String()
	return strings.TrimSpace(text), nil
}

// CompleteStream runs a streaming completion. Each content delta is passed
// to onDelta as it arrives; the full concatenated text is returned. A nil
// onDelta is allowed.
func (c *Client) CompleteStream(ctx context.Context, messages []Message, opts Options, onDelta func(string)) (string, error) {
	payload, err := c.buildPayload(messages, opts, true)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, payload, true)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Debugf("llm: close stream body: %v", errClose)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		delta := gjson.Get(data, "choices.0.delta.content").String()
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		// A broken stream with partial text is still usable; the caller
		// falls back to a non-streaming retry when the text is empty.
		log.WithField("collected", full.Len()).Warnf("llm: stream interrupted: %v", err)
	}
	return strings.TrimSpace(full.String()), nil
}
