// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/classify"
	"github.com/esprit-tdah/tdai/internal/compose"
	"github.com/esprit-tdah/tdai/internal/config"
	"github.com/esprit-tdah/tdai/internal/decide"
	"github.com/esprit-tdah/tdai/internal/llm"
	"github.com/esprit-tdah/tdai/internal/locale"
	"github.com/esprit-tdah/tdai/internal/memory"
	"github.com/esprit-tdah/tdai/internal/pipeline"
	"github.com/esprit-tdah/tdai/internal/rewrite"
	"github.com/esprit-tdah/tdai/internal/score"
	"github.com/esprit-tdah/tdai/internal/search"
)

type stubCompleter struct{ answer string }

func (s *stubCompleter) Complete(context.Context, []llm.Message, llm.Options) (string, error) {
	return s.answer, nil
}

func (s *stubCompleter) CompleteStream(_ context.Context, _ []llm.Message, _ llm.Options, onDelta func(string)) (string, error) {
	if onDelta != nil {
		onDelta(s.answer)
	}
	return s.answer, nil
}

type stubGateway struct{ results []search.Result }

func (s *stubGateway) Search(context.Context, string, locale.Locale) ([]search.Result, error) {
	return s.results, nil
}

func (s *stubGateway) Name() string { return "stub" }

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	classifier := classify.NewDefault()
	p := pipeline.New(
		classifier,
		advisor.New(nil, ""),
		locale.NewRouter(classifier),
		rewrite.New(classifier, nil, ""),
		decide.New(nil),
		&stubGateway{results: []search.Result{
			{Title: "Prix Netflix", URL: "https://www.netflix.com/fr/", Snippet: "L'abonnement coûte 14,99 € par mois."},
		}},
		score.NewScorer(classifier, score.DefaultRules()),
		nil,
		memory.NewStore(0, 0, 0),
		compose.New("gpt-4o", 0),
		&stubCompleter{answer: "Netflix coûte 14,99 € par mois."},
		pipeline.Options{},
	)
	return NewServer(cfg, p)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &config.Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t, &config.Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chat", "application/json", strings.NewReader(`{"text":"Combien coûte Netflix ?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out pipeline.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Netflix coûte 14,99 € par mois.", out.Answer)
	assert.True(t, out.UsedSearch)
	assert.Equal(t, "web", out.ModeLabel)
}

func TestChatRejectsMissingText(t *testing.T) {
	srv := newTestServer(t, &config.Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chat", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccessSecretEnforced(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	srv := newTestServer(t, &config.Config{AccessSecret: string(hashed)})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/chat", "application/json", strings.NewReader(`{"text":"Salut"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/chat", strings.NewReader(`{"text":"Salut"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Health stays open.
	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketProtocol(t *testing.T) {
	srv := newTestServer(t, &config.Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "user_message", "text": "Combien coûte Netflix ?"}))

	var frames []wsFrame
	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var frame wsFrame
		require.NoError(t, conn.ReadJSON(&frame))
		frames = append(frames, frame)
		if frame.Type == frameAssistantMessage {
			break
		}
	}

	require.GreaterOrEqual(t, len(frames), 3)
	assert.Equal(t, wsFrame{Type: frameStatus, Value: pipeline.StatusSearching}, frames[0])
	assert.Equal(t, wsFrame{Type: frameStatus, Value: pipeline.StatusSearchingDone}, frames[1])
	assert.Equal(t, "Netflix coûte 14,99 € par mois.", frames[len(frames)-1].Text)
}

func TestWebSocketRejectsBadFrames(t *testing.T) {
	srv := newTestServer(t, &config.Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"unknown"}`)))

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame wsFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, frameError, frame.Type)
}
