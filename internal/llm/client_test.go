// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, "test-key", "", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload struct {
			Model       string    `json:"model"`
			Temperature float64   `json:"temperature"`
			Messages    []Message `json:"messages"`
			Stream      bool      `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o", payload.Model)
		assert.InDelta(t, 0.3, payload.Temperature, 1e-9)
		assert.False(t, payload.Stream)
		require.Len(t, payload.Messages, 2)
		assert.Equal(t, "system", payload.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  Bonjour !  "}}]}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	text, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "Tu es TDAI."},
		{Role: "user", Content: "Salut"},
	}, Options{Model: "gpt-4o", Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour !", text)
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{Model: "gpt-4o"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestCompleteStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"choices\":[{\"delta\":{\"content\":\"Le prix \"}}]}\n\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"est 7,99 €.\"}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	var deltas []string
	text, err := c.CompleteStream(context.Background(), []Message{{Role: "user", Content: "prix ?"}},
		Options{Model: "gpt-4o"}, func(d string) { deltas = append(deltas, d) })
	require.NoError(t, err)
	assert.Equal(t, "Le prix est 7,99 €.", text)
	assert.Equal(t, []string{"Le prix ", "est 7,99 €."}, deltas)
}

func TestCompleteStreamEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	text, err := c.CompleteStream(context.Background(), []Message{{Role: "user", Content: "x"}}, Options{Model: "gpt-4o"}, nil)
	require.NoError(t, err)
	assert.Empty(t, text, "empty streamed text triggers the caller's non-streaming retry")
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "k", "", 5*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Complete(ctx, []Message{{Role: "user", Content: "x"}}, Options{Model: "gpt-4o"})
	assert.Error(t, err)
}
