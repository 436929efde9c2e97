// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package score

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/esprit-tdah/tdai/internal/search"
)

func genScores() gopter.Gen {
	return gen.SliceOf(gen.IntRange(-20, 20))
}

// TestProperty_FilterInvariants checks the two contractual guarantees of
// the result filter for arbitrary score distributions.
func TestProperty_FilterInvariants(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("never non-empty with negative best, never empty with best >= 0", prop.ForAll(
		func(scores []int) bool {
			in := make([]Scored, len(scores))
			best := -1 << 30
			for i, s := range scores {
				in[i] = Scored{Result: search.Result{Title: "r"}, Score: s}
				if s > best {
					best = s
				}
			}
			kept := Filter(in, DefaultMargin)

			if len(scores) == 0 {
				return len(kept) == 0
			}
			if best < 0 {
				return len(kept) == 0
			}
			if len(kept) == 0 {
				return false
			}
			for _, k := range kept {
				if k.Score < 0 {
					return false
				}
			}
			// Sorted descending.
			for i := 1; i < len(kept); i++ {
				if kept[i-1].Score < kept[i].Score {
					return false
				}
			}
			return true
		},
		genScores(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
