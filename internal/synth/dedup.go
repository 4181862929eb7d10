// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package synth

import "github.com/davetashner/scouteval/internal/query"

// DedupTuples removes exact duplicates, keeping the first occurrence of each
// tuple and preserving input order. Tuples that differ in any field, including
// case or whitespace, are distinct.
func DedupTuples(tuples []query.DimensionTuple) []query.DimensionTuple {
	if len(tuples) == 0 {
		return tuples
	}

	seen := make(map[query.DimensionTuple]struct{}, len(tuples))
	result := make([]query.DimensionTuple, 0, len(tuples))
	for _, t := range tuples {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
