// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprit-tdah/tdai/internal/llm"
)

func user(text string) llm.Message      { return llm.Message{Role: "user", Content: text} }
func assistant(text string) llm.Message { return llm.Message{Role: "assistant", Content: text} }

func TestHistoryFIFOCap(t *testing.T) {
	s := NewStore(4, 0, 0)
	for i := 0; i < 6; i++ {
		s.Append("caller", user(fmt.Sprintf("q%d", i)))
	}

	history := s.History("caller")
	require.Len(t, history, 4)
	assert.Equal(t, "q2", history[0].Content)
	assert.Equal(t, "q5", history[3].Content)
}

func TestCallersAreIndependent(t *testing.T) {
	s := NewStore(0, 0, 0)
	s.Append("a", user("bonjour"))
	s.Append("a", assistant("salut"))
	s.RememberQuestion("a", "prix de Netflix ?")

	assert.Len(t, s.History("a"), 2)
	assert.Empty(t, s.History("b"))
	assert.Equal(t, "prix de Netflix ?", s.LastQuestion("a"))
	assert.Empty(t, s.LastQuestion("b"))
}

func TestHistoryReturnsCopy(t *testing.T) {
	s := NewStore(0, 0, 0)
	s.Append("a", user("original"))

	history := s.History("a")
	history[0].Content = "mutated"
	assert.Equal(t, "original", s.History("a")[0].Content)
}

func TestLRUEvictionOverCapacity(t *testing.T) {
	s := NewStore(0, 2, 0)
	s.Append("a", user("1"))
	s.Append("b", user("2"))
	s.History("a") // refresh a, so c evicts b
	s.Append("c", user("3"))

	assert.Equal(t, 2, s.Len())
	assert.NotEmpty(t, s.History("a"))
	assert.Empty(t, s.History("b"))
	assert.NotEmpty(t, s.History("c"))
}

func TestIdleTTLEviction(t *testing.T) {
	s := NewStore(0, 0, 10*time.Minute)
	current := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return current }

	s.Append("old", user("1"))
	current = current.Add(5 * time.Minute)
	s.Append("fresh", user("2"))
	current = current.Add(6 * time.Minute)

	assert.Empty(t, s.History("old"))
	assert.NotEmpty(t, s.History("fresh"))
	assert.Equal(t, 1, s.Len())
}

func TestTTLRefreshedOnAccess(t *testing.T) {
	s := NewStore(0, 0, 10*time.Minute)
	current := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return current }

	s.Append("a", user("1"))
	current = current.Add(8 * time.Minute)
	s.History("a")
	current = current.Add(8 * time.Minute)

	assert.NotEmpty(t, s.History("a"))
}

func TestForget(t *testing.T) {
	s := NewStore(0, 0, 0)
	s.Append("a", user("1"))
	s.RememberQuestion("a", "q")
	s.Forget("a")

	assert.Empty(t, s.History("a"))
	assert.Empty(t, s.LastQuestion("a"))
	assert.Zero(t, s.Len())
}
