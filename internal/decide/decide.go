// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package decide composes the final web-search decision from the regex
// verdict and the advisory verdict. The advisory layer may only add
// eligibility on top of the regex signals, never remove it. A detected
// future question is a hard gate that suppresses search regardless of any
// other signal, and operator override rules are applied last.
package decide

import (
	"github.com/esprit-tdah/tdai/internal/advisor"
	"github.com/esprit-tdah/tdai/internal/classify"
)

// Inputs carries everything the decision depends on.
type Inputs struct {
	Question string
	Regex    classify.Verdict
	Advisory advisor.Verdict
	// AdvisoryOK is false when the advisory layer was unavailable.
	AdvisoryOK bool
	// VersusSports is set when the entity router flagged an X-vs-Y
	// question in the sport domain.
	VersusSports bool
}

// Decision is the composed outcome.
type Decision struct {
	UseSearch bool
	// Future marks a question about an event too far ahead to search for.
	Future     bool
	Volatility classify.Volatility
	Domain     string
	Country    string
	// Reason names the first signal that granted (or revoked) search,
	// for logs only.
	Reason string
}

// Decider composes decisions. Zero-value ready; overrides are optional.
type Decider struct {
	overrides *Overrides
}

// New builds a Decider with optional operator overrides (nil disables them).
func New(overrides *Overrides) *Decider {
	return &Decider{overrides: overrides}
}

// Decide composes the final decision from in.
func (d *Decider) Decide(in Inputs) Decision {
	out := Decision{
		Volatility: in.Regex.Volatility,
		Domain:     "other",
		Country:    "france",
	}
	if in.AdvisoryOK {
		out.Domain = in.Advisory.Domain
		out.Country = in.Advisory.Country
		// The model grade wins only when it is more severe.
		if severity(in.Advisory.Volatility) > severity(out.Volatility) {
			out.Volatility = in.Advisory.Volatility
		}
	}

	switch {
	case in.Regex.Greeting:
		out.Reason = "greeting"
	case in.Regex.Future:
		out.Future = true
		out.Reason = "future question"
	default:
		out.UseSearch, out.Reason = grant(in)
	}

	if d.overrides != nil {
		d.overrides.apply(in, &out)
	}
	return out
}

// grant evaluates the additive eligibility signals in a fixed order so the
// logged reason is deterministic.
func grant(in Inputs) (bool, string) {
	if in.Regex.Volatile {
		return true, "volatile topic"
	}
	if in.Regex.SuggestsWeb {
		return true, "explicit web phrasing"
	}
	if in.VersusSports {
		return true, "versus sports question"
	}
	if in.AdvisoryOK {
		if in.Advisory.NeedsWeb {
			return true, "advisory needs_web"
		}
		if in.Advisory.Volatility == classify.VolatilityHigh || in.Advisory.Volatility == classify.VolatilityMedium {
			return true, "advisory volatility"
		}
		if _, hot := advisor.HighVolatilityDomains[in.Advisory.Domain]; hot {
			return true, "advisory domain"
		}
	}
	return false, "no signal"
}

func severity(v classify.Volatility) int {
	switch v {
	case classify.VolatilityHigh:
		return 2
	case classify.VolatilityMedium:
		return 1
	default:
		return 0
	}
}
