// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package synth

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/query"
)

// TupleList is the structured shape requested from the model for one batch.
type TupleList struct {
	Tuples []query.DimensionTuple `json:"tuples" validate:"required,dive"`
}

// TupleStage is the result of the dimension tuple stage.
type TupleStage struct {
	// Tuples are the unique tuples in first-seen order.
	Tuples []query.DimensionTuple

	// Batches is the number of batch calls issued.
	Batches int

	// Failed counts batches that contributed nothing after their retry.
	Failed int

	// Raw is the number of tuples received before deduplication.
	Raw int
}

// GenerateTuples issues the configured number of batch calls concurrently,
// waits for all of them, and returns the merged, deduplicated tuples. A
// failed batch is logged and contributes zero tuples; it never cancels the
// other batches. Fewer unique tuples than requested is not an error.
func (g *Generator) GenerateTuples(ctx context.Context) TupleStage {
	prompt := buildTuplePrompt(g.opts.TuplesPerBatch)
	messages := []llm.Message{llm.UserMessage(prompt)}

	batches := make([][]query.DimensionTuple, g.opts.Batches)
	failed := make([]bool, g.opts.Batches)

	// Every batch runs at once; Workers only bounds the query fan-out.
	var eg errgroup.Group
	for i := range batches {
		eg.Go(func() error {
			list, err := llm.CallStructured[TupleList](ctx, g.provider, messages, g.structuredOptions())
			if err != nil {
				g.log.Warn("tuple batch failed", "batch", i+1, "error", err)
				failed[i] = true
				return nil
			}
			g.log.Debug("tuple batch complete", "batch", i+1, "tuples", len(list.Tuples))
			batches[i] = list.Tuples
			return nil
		})
	}
	_ = eg.Wait()

	stage := TupleStage{Batches: g.opts.Batches}
	var all []query.DimensionTuple
	for i, b := range batches {
		if failed[i] {
			stage.Failed++
		}
		all = append(all, b...)
	}
	stage.Raw = len(all)
	stage.Tuples = DedupTuples(all)

	g.log.Info("dimension tuples generated",
		"unique", len(stage.Tuples),
		"raw", stage.Raw,
		"failed_batches", stage.Failed)
	return stage
}
