// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// debounceWindow coalesces the write bursts editors produce on save.
const debounceWindow = 300 * time.Millisecond

// Watcher reloads the config file on change and hands the result to a
// callback. Reload failures keep the previous configuration.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching configFile. onReload runs on the watcher goroutine
// after each successful reload.
func Watch(configFile string, onReload func(*Config)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace the file on save, which drops
	// a watch set on the file itself.
	if err := fsWatcher.Add(filepath.Dir(configFile)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{watcher: fsWatcher, done: make(chan struct{})}
	go w.loop(configFile, onReload)
	return w, nil
}

func (w *Watcher) loop(configFile string, onReload func(*Config)) {
	base := filepath.Base(configFile)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				// Drain a tick that fired while we were handling events, or
				// the next receive would see a stale expiry.
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := LoadConfig(configFile)
			if err != nil {
				log.Warnf("config reload failed, keeping previous: %v", err)
				continue
			}
			log.Info("configuration reloaded")
			onReload(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("config watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}
