// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package synth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/scouteval/internal/query"
)

// Accumulator assigns sequential ids to queries as they are appended. It is
// not safe for concurrent use; FanOut confines it to the draining goroutine.
type Accumulator struct {
	next    int
	queries []query.GeneratedQuery
}

// NewAccumulator returns an accumulator whose first id is SYN001.
func NewAccumulator() *Accumulator {
	return &Accumulator{next: 1}
}

// Add appends one query per non-blank text, all tagged with tuple, and
// returns how many were added.
func (a *Accumulator) Add(tuple query.DimensionTuple, texts []string) int {
	added := 0
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		a.queries = append(a.queries, query.New(query.FormatID(a.next), text, tuple))
		a.next++
		added++
	}
	return added
}

// Len reports the number of accumulated queries.
func (a *Accumulator) Len() int { return len(a.queries) }

// Queries returns the accumulated queries in append order.
func (a *Accumulator) Queries() []query.GeneratedQuery { return a.queries }

// FanOutResult is the outcome of the per-tuple query stage.
type FanOutResult struct {
	// Queries are in completion order; ids increase along the slice.
	Queries []query.GeneratedQuery

	// Tuples is the number of tuples submitted.
	Tuples int

	// Failed counts tuples that produced no queries because of an error.
	Failed int
}

type tupleOutcome struct {
	index   int
	queries []string
	err     error
}

// FanOut runs GenerateQueries for every tuple on a pool of Workers goroutines.
// Results are drained in completion order by the calling goroutine, which is
// the only writer of the id counter. Id order therefore follows completion
// order rather than tuple order and differs between runs. A task that panics
// is recovered, logged, and counted as failed; the others keep running.
func (g *Generator) FanOut(ctx context.Context, tuples []query.DimensionTuple) FanOutResult {
	outcomes := make(chan tupleOutcome)

	go func() {
		var eg errgroup.Group
		eg.SetLimit(g.opts.Workers)
		for i, t := range tuples {
			eg.Go(func() error {
				outcomes <- g.runTuple(ctx, i, t)
				return nil
			})
		}
		_ = eg.Wait()
		close(outcomes)
	}()

	acc := NewAccumulator()
	result := FanOutResult{Tuples: len(tuples)}
	done := 0
	for o := range outcomes {
		done++
		if o.err != nil {
			result.Failed++
			g.log.Warn("tuple produced no queries", "tuple", o.index+1, "error", o.err)
		}
		added := acc.Add(tuples[o.index], o.queries)
		g.log.Debug("tuple complete", "tuple", o.index+1, "queries", added, "progress", fmt.Sprintf("%d/%d", done, len(tuples)))
	}
	result.Queries = acc.Queries()
	return result
}

func (g *Generator) runTuple(ctx context.Context, index int, t query.DimensionTuple) (out tupleOutcome) {
	out.index = index
	defer func() {
		if r := recover(); r != nil {
			out.queries = nil
			out.err = fmt.Errorf("query task panicked: %v", r)
		}
	}()
	out.queries, out.err = g.GenerateQueries(ctx, t)
	return out
}
