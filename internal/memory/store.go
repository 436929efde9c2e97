// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package memory keeps short-lived per-caller conversation state: the
// recent turn history and the last real question (for "réponds à ma
// question précédente" follow-ups). Callers are independent partitions
// keyed by network address. The store is bounded two ways: per-caller
// history is FIFO-capped, and the caller set itself is an LRU with an
// idle TTL so abandoned connections age out.
package memory

import (
	"container/list"
	"sync"
	"time"

	"github.com/esprit-tdah/tdai/internal/llm"
)

const (
	// DefaultMaxTurns caps the per-caller history. One turn is one
	// user/assistant message.
	DefaultMaxTurns = 8
	// DefaultMaxCallers caps the number of tracked caller keys.
	DefaultMaxCallers = 1024
	// DefaultIdleTTL evicts callers not seen for this long.
	DefaultIdleTTL = 30 * time.Minute
)

type entry struct {
	key          string
	history      []llm.Message
	lastQuestion string
	lastSeen     time.Time
}

// Store is a bounded conversation store. Safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxTurns   int
	maxCallers int
	idleTTL    time.Duration
	now        func() time.Time
}

// NewStore builds a Store. Non-positive limits fall back to the defaults.
func NewStore(maxTurns, maxCallers int, idleTTL time.Duration) *Store {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if maxCallers <= 0 {
		maxCallers = DefaultMaxCallers
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxTurns:   maxTurns,
		maxCallers: maxCallers,
		idleTTL:    idleTTL,
		now:        time.Now,
	}
}

// History returns a copy of the caller's turn history, oldest first.
func (s *Store) History(key string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(key, false)
	if e == nil {
		return nil
	}
	out := make([]llm.Message, len(e.history))
	copy(out, e.history)
	return out
}

// Append records one message in the caller's history, evicting the oldest
// message beyond the turn cap.
func (s *Store) Append(key string, msg llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(key, true)
	e.history = append(e.history, msg)
	if overflow := len(e.history) - s.maxTurns; overflow > 0 {
		e.history = append(e.history[:0], e.history[overflow:]...)
	}
}

// RememberQuestion stores the caller's last real question.
func (s *Store) RememberQuestion(key, question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(key, true).lastQuestion = question
}

// LastQuestion returns the caller's last real question, "" when none.
func (s *Store) LastQuestion(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(key, false)
	if e == nil {
		return ""
	}
	return e.lastQuestion
}

// Forget drops all state for a caller.
func (s *Store) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[key]; ok {
		s.order.Remove(el)
		delete(s.entries, key)
	}
}

// Len reports the number of tracked callers (expired ones included until
// the next access sweeps them).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// touch looks up the caller, refreshing recency and sweeping expired
// entries. With create set it inserts a fresh entry (evicting the LRU tail
// when over capacity); otherwise a miss returns nil. Caller holds s.mu.
func (s *Store) touch(key string, create bool) *entry {
	now := s.now()
	s.sweep(now)

	if el, ok := s.entries[key]; ok {
		e := el.Value.(*entry)
		e.lastSeen = now
		s.order.MoveToFront(el)
		return e
	}
	if !create {
		return nil
	}
	e := &entry{key: key, lastSeen: now}
	s.entries[key] = s.order.PushFront(e)
	for len(s.entries) > s.maxCallers {
		tail := s.order.Back()
		s.order.Remove(tail)
		delete(s.entries, tail.Value.(*entry).key)
	}
	return e
}

// sweep evicts callers idle past the TTL, oldest first.
func (s *Store) sweep(now time.Time) {
	for {
		tail := s.order.Back()
		if tail == nil {
			return
		}
		e := tail.Value.(*entry)
		if now.Sub(e.lastSeen) < s.idleTTL {
			return
		}
		s.order.Remove(tail)
		delete(s.entries, e.key)
	}
}
