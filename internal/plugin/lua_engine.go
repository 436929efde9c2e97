// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package plugin provides an optional Lua hook for adjusting relevance
// scores. Operators drop a script exposing adjust_scores(results) next to
// the config file; the engine calls it after the built-in scorer and
// before filtering. Disabled by default.
package plugin

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/esprit-tdah/tdai/internal/score"
	"github.com/esprit-tdah/tdai/internal/search"
)

// hookName is the function the script must expose.
const hookName = "adjust_scores"

// LuaEngine runs the score hook. The zero value (and a disabled config)
// is a no-op engine.
type LuaEngine struct {
	pool    sync.Pool
	proto   *lua.FunctionProto
	enabled bool
}

// Config controls the engine.
type Config struct {
	// Enabled activates the hook.
	Enabled bool `yaml:"enabled"`
	// ScriptPath is the Lua file exposing adjust_scores.
	ScriptPath string `yaml:"script_path"`
}

// NewLuaEngine compiles the hook script. A disabled config returns an
// inert engine; a missing or broken script is a startup error so bad
// config is caught immediately.
func NewLuaEngine(cfg Config) (*LuaEngine, error) {
	if !cfg.Enabled {
		return &LuaEngine{}, nil
	}
	content, err := os.ReadFile(cfg.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("score hook: %w", err)
	}

	engine := &LuaEngine{enabled: true}
	engine.pool = sync.Pool{
		New: func() interface{} {
			// Restrict standard libraries, scripts only transform data.
			L := lua.NewState(lua.Options{SkipOpenLibs: true})
			lua.OpenBase(L)
			lua.OpenTable(L)
			lua.OpenString(L)
			lua.OpenMath(L)
			L.SetGlobal("dofile", lua.LNil)
			L.SetGlobal("loadfile", lua.LNil)
			registerHostModule(L)
			return L
		},
	}

	L := engine.getState()
	defer engine.putState(L)
	fn, err := L.LoadString(string(content))
	if err != nil {
		return nil, fmt.Errorf("score hook: compile %s: %w", cfg.ScriptPath, err)
	}
	engine.proto = fn.Proto
	log.Infof("score hook loaded from %s", cfg.ScriptPath)
	return engine, nil
}

// IsEnabled reports whether the hook will run.
func (e *LuaEngine) IsEnabled() bool {
	return e != nil && e.enabled
}

// AdjustScores passes the scored results through the hook. On any script
// failure the original slice is returned unchanged; the hook can reorder
// relevance but never break a request.
func (e *LuaEngine) AdjustScores(ctx context.Context, question string, results []score.Scored) []score.Scored {
	if !e.IsEnabled() || len(results) == 0 {
		return results
	}

	L := e.getState()
	defer e.putState(L)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	L.SetContext(ctx)

	fn := L.NewFunctionFromProto(e.proto)
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		log.Warnf("score hook: load failed: %v", err)
		return results
	}
	hookFn := L.GetGlobal(hookName)
	if hookFn.Type() != lua.LTFunction {
		log.Warnf("score hook: script does not define %s", hookName)
		return results
	}

	L.Push(hookFn)
	L.Push(lua.LString(question))
	L.Push(resultsToLua(L, results))
	if err := L.PCall(2, 1, nil); err != nil {
		log.Warnf("score hook: %s failed: %v", hookName, err)
		return results
	}
	out := L.Get(-1)
	L.Pop(1)

	tbl, ok := out.(*lua.LTable)
	if !ok {
		return results
	}
	return luaToResults(L, tbl, results)
}

func (e *LuaEngine) getState() *lua.LState {
	return e.pool.Get().(*lua.LState)
}

func (e *LuaEngine) putState(L *lua.LState) {
	L.SetTop(0)
	e.pool.Put(L)
}

// resultsToLua renders scored results as an array of tables with title,
// url, snippet and score fields.
func resultsToLua(L *lua.LState, results []score.Scored) *lua.LTable {
	arr := L.NewTable()
	for i, r := range results {
		item := L.NewTable()
		L.SetField(item, "title", lua.LString(r.Title))
		L.SetField(item, "url", lua.LString(r.URL))
		L.SetField(item, "snippet", lua.LString(r.Snippet))
		L.SetField(item, "score", lua.LNumber(r.Score))
		L.RawSetInt(arr, i+1, item)
	}
	return arr
}

// luaToResults reads the hook output back. Entries that are not tables
// fall back to the original result at the same position; extra entries
// are ignored so the hook cannot fabricate results.
func luaToResults(L *lua.LState, tbl *lua.LTable, original []score.Scored) []score.Scored {
	out := make([]score.Scored, 0, len(original))
	for i := range original {
		item := L.RawGetInt(tbl, i+1)
		itemTbl, ok := item.(*lua.LTable)
		if !ok {
			out = append(out, original[i])
			continue
		}
		scored := score.Scored{
			Result: search.Result{
				Title:   stringField(L, itemTbl, "title", original[i].Title),
				URL:     original[i].URL,
				Snippet: stringField(L, itemTbl, "snippet", original[i].Snippet),
			},
			Score: original[i].Score,
		}
		if n, ok := L.GetField(itemTbl, "score").(lua.LNumber); ok {
			scored.Score = int(n)
		}
		out = append(out, scored)
	}
	return out
}

func stringField(L *lua.LState, tbl *lua.LTable, field, fallback string) string {
	if s, ok := L.GetField(tbl, field).(lua.LString); ok && string(s) != "" {
		return string(s)
	}
	return fallback
}

// registerHostModule exposes a minimal tdai global to scripts.
func registerHostModule(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		log.Infof("[LUA] %s", L.CheckString(1))
		return 0
	}))
	L.SetGlobal("tdai", mod)
}
