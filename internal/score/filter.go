// Copyright 2026 The TDAI Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package score

import (
	"sort"

	log "github.com/sirupsen/logrus"
)

// DefaultMargin is the threshold distance below the best score within which
// results survive filtering. The permissive variant; tunable via config.
const DefaultMargin = 3

// Filter sorts scored results descending (stable, ties keep original order)
// and applies a dynamic threshold of max(best-margin, 0).
//
// Guarantees:
//   - best score < 0  => empty result (nothing is trustworthy enough)
//   - non-empty input with best >= 0 => at least one result survives
//   - the returned minimum score is never negative when results are returned
func Filter(results []Scored, margin int) []Scored {
	if len(results) == 0 {
		return nil
	}
	if margin < 0 {
		margin = DefaultMargin
	}

	sorted := make([]Scored, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	best := sorted[0].Score
	if best < 0 {
		log.WithFields(log.Fields{"results": len(results), "best": best}).
			Debug("result filter: best score negative, discarding all results")
		return nil
	}

	threshold := best - margin
	if threshold < 0 {
		threshold = 0
	}

	kept := sorted[:0:0]
	for _, r := range sorted {
		if r.Score >= threshold {
			kept = append(kept, r)
		}
	}
	// Fail-safe: never discard the only plausible candidate.
	if len(kept) == 0 {
		kept = append(kept, sorted[0])
	}

	log.WithFields(log.Fields{
		"in":        len(results),
		"kept":      len(kept),
		"best":      best,
		"threshold": threshold,
	}).Debug("result filter")

	return kept
}
