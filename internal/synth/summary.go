// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package synth

import (
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/davetashner/scouteval/internal/query"
)

// Summary describes a generated query set.
type Summary struct {
	Total       int
	PerScenario map[string]int
	PerCountry  map[string]int

	// Word-count statistics over query texts. Zero when Total is zero.
	MeanWords   float64
	MedianWords float64
	MaxWords    float64
}

// Summarize counts queries per scenario and country and computes word-count
// statistics.
func Summarize(queries []query.GeneratedQuery) Summary {
	s := Summary{
		Total:       len(queries),
		PerScenario: make(map[string]int),
		PerCountry:  make(map[string]int),
	}
	if len(queries) == 0 {
		return s
	}

	words := make(stats.Float64Data, 0, len(queries))
	for _, q := range queries {
		s.PerScenario[q.Tuple.Scenario]++
		s.PerCountry[q.Tuple.Country]++
		words = append(words, float64(len(strings.Fields(q.Text))))
	}

	// stats only errors on empty input, which is ruled out above.
	s.MeanWords, _ = stats.Mean(words)
	s.MedianWords, _ = stats.Median(words)
	s.MaxWords, _ = stats.Max(words)
	return s
}
