// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9001\n"), 0o644))

	reloads := make(chan *Config, 8)
	w, err := Watch(path, func(cfg *Config) { reloads <- cfg })
	require.NoError(t, err)
	defer w.Close()

	// A save burst like an editor produces.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("port: 9002\n"), 0o644))
		time.Sleep(50 * time.Millisecond)
	}

	select {
	case cfg := <-reloads:
		assert.Equal(t, 9002, cfg.Port)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write burst")
	}

	// The burst collapses into exactly one reload; a stale timer tick must
	// not fire a second one.
	select {
	case <-reloads:
		t.Fatal("write burst produced more than one reload")
	case <-time.After(700 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("port: 9003\n"), 0o644))
	select {
	case cfg := <-reloads:
		assert.Equal(t, 9003, cfg.Port)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after later write")
	}
}

func TestWatcherKeepsPreviousOnBadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9001\n"), 0o644))

	reloads := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) { reloads <- cfg })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(":: not yaml ::\n"), 0o644))

	select {
	case <-reloads:
		t.Fatal("invalid configuration must not reach the callback")
	case <-time.After(time.Second):
	}
}
