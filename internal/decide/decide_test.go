// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package decide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/classify"
)

func TestRegexVolatileGrantsSearch(t *testing.T) {
	d := New(nil)
	out := d.Decide(Inputs{
		Regex: classify.Verdict{Volatile: true, Price: true, Volatility: classify.VolatilityHigh},
	})
	assert.True(t, out.UseSearch)
	assert.Equal(t, "volatile topic", out.Reason)
	assert.Equal(t, classify.VolatilityHigh, out.Volatility)
}

func TestAdvisoryCanOnlyAddEligibility(t *testing.T) {
	d := New(nil)

	// Regex grants, advisory says no: search stays on.
	out := d.Decide(Inputs{
		Regex:      classify.Verdict{Volatile: true, Volatility: classify.VolatilityHigh},
		Advisory:   advisor.Verdict{Domain: "other", NeedsWeb: false, Volatility: classify.VolatilityLow},
		AdvisoryOK: true,
	})
	assert.True(t, out.UseSearch)

	// Regex silent, advisory grants.
	out = d.Decide(Inputs{
		Regex:      classify.Verdict{Volatility: classify.VolatilityLow},
		Advisory:   advisor.Verdict{Domain: "other", NeedsWeb: true, Volatility: classify.VolatilityLow},
		AdvisoryOK: true,
	})
	assert.True(t, out.UseSearch)
	assert.Equal(t, "advisory needs_web", out.Reason)
}

func TestAdvisoryDomainGrantsSearch(t *testing.T) {
	d := New(nil)
	out := d.Decide(Inputs{
		Regex:      classify.Verdict{Volatility: classify.VolatilityLow},
		Advisory:   advisor.Verdict{Domain: "finance", Volatility: classify.VolatilityLow, Country: "france"},
		AdvisoryOK: true,
	})
	assert.True(t, out.UseSearch)
	assert.Equal(t, "advisory domain", out.Reason)
	assert.Equal(t, "finance", out.Domain)
}

func TestFutureQuestionHardGate(t *testing.T) {
	d := New(nil)
	out := d.Decide(Inputs{
		Regex:      classify.Verdict{Volatile: true, Future: true, Volatility: classify.VolatilityHigh},
		Advisory:   advisor.Verdict{NeedsWeb: true, Domain: "politics", Volatility: classify.VolatilityHigh},
		AdvisoryOK: true,
	})
	assert.False(t, out.UseSearch)
	assert.True(t, out.Future)
}

func TestGreetingNeverSearches(t *testing.T) {
	d := New(nil)
	out := d.Decide(Inputs{
		Regex:      classify.Verdict{Greeting: true},
		Advisory:   advisor.Verdict{NeedsWeb: true},
		AdvisoryOK: true,
	})
	assert.False(t, out.UseSearch)
	assert.Equal(t, "greeting", out.Reason)
}

func TestAdvisoryVolatilityOnlyEscalates(t *testing.T) {
	d := New(nil)

	out := d.Decide(Inputs{
		Regex:      classify.Verdict{Volatility: classify.VolatilityLow},
		Advisory:   advisor.Verdict{Domain: "other", Volatility: classify.VolatilityHigh},
		AdvisoryOK: true,
	})
	assert.Equal(t, classify.VolatilityHigh, out.Volatility)

	out = d.Decide(Inputs{
		Regex:      classify.Verdict{Volatile: true, Volatility: classify.VolatilityHigh},
		Advisory:   advisor.Verdict{Domain: "other", Volatility: classify.VolatilityLow},
		AdvisoryOK: true,
	})
	assert.Equal(t, classify.VolatilityHigh, out.Volatility)
}

func TestVersusSportsFlag(t *testing.T) {
	d := New(nil)
	out := d.Decide(Inputs{VersusSports: true})
	assert.True(t, out.UseSearch)
	assert.Equal(t, "versus sports question", out.Reason)
}

func TestOverrideForceAndSuppress(t *testing.T) {
	overrides, err := CompileOverrides([]OverrideRule{
		{Name: "always search crypto", Condition: `Domain == "finance"`, Action: "force_search"},
		{Name: "quiet hours", Condition: `Question contains "hors ligne"`, Action: "suppress_search"},
	})
	require.NoError(t, err)
	d := New(overrides)

	out := d.Decide(Inputs{
		Question:   "cours du bitcoin ?",
		Advisory:   advisor.Verdict{Domain: "finance", Volatility: classify.VolatilityLow},
		AdvisoryOK: true,
	})
	assert.True(t, out.UseSearch)

	out = d.Decide(Inputs{
		Question: "mode hors ligne, prix de Netflix ?",
		Regex:    classify.Verdict{Volatile: true, Volatility: classify.VolatilityHigh},
	})
	assert.False(t, out.UseSearch)
	assert.Equal(t, "override: quiet hours", out.Reason)
}

func TestCompileOverridesRejectsBadRules(t *testing.T) {
	_, err := CompileOverrides([]OverrideRule{{Name: "bad", Condition: "((", Action: "force_search"}})
	require.Error(t, err)

	_, err = CompileOverrides([]OverrideRule{{Name: "bad action", Condition: "true", Action: "explode"}})
	require.Error(t, err)
}
