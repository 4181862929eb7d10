// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

// Package synth generates synthetic scouting queries in two LLM stages:
// dimension tuples first, then several user-style queries per tuple.
package synth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/query"
)

// Defaults for Options fields left at zero.
const (
	DefaultBatches         = 5
	DefaultTuplesPerBatch  = 10
	DefaultQueriesPerTuple = 5
	DefaultWorkers         = 5
)

// ErrNoTuples is returned by Run when every tuple batch failed or came back
// empty. Query generation is not attempted.
var ErrNoTuples = errors.New("no tuples generated")

// Options configures a Generator.
type Options struct {
	// Model overrides the provider's default model.
	Model string

	// Batches is the number of concurrent tuple requests.
	Batches int

	// TuplesPerBatch is how many tuples each batch asks for.
	TuplesPerBatch int

	// QueriesPerTuple is how many queries are requested per unique tuple.
	QueriesPerTuple int

	// Workers bounds the number of in-flight query calls in the fan-out.
	Workers int

	// RetryDelay is the pause before the single retry of a failed call.
	RetryDelay time.Duration

	// Logger receives progress and failure messages. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Batches <= 0 {
		o.Batches = DefaultBatches
	}
	if o.TuplesPerBatch <= 0 {
		o.TuplesPerBatch = DefaultTuplesPerBatch
	}
	if o.QueriesPerTuple <= 0 {
		o.QueriesPerTuple = DefaultQueriesPerTuple
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Generator runs the synthetic-query pipeline against a Provider.
type Generator struct {
	provider llm.Provider
	opts     Options
	log      *slog.Logger
}

// New creates a Generator. Zero-valued options take their defaults.
func New(provider llm.Provider, opts Options) *Generator {
	opts = opts.withDefaults()
	return &Generator{
		provider: provider,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Options returns the effective options after defaults were applied.
func (g *Generator) Options() Options {
	return g.opts
}

// Report is the outcome of a full pipeline run.
type Report struct {
	Tuples   TupleStage
	FanOut   FanOutResult
	Summary  Summary
	Duration time.Duration
}

// Queries is shorthand for the generated queries in append order.
func (r *Report) Queries() []query.GeneratedQuery {
	return r.FanOut.Queries
}

// Run generates tuples and then queries for every unique tuple. It returns
// ErrNoTuples, with the partial report, when the tuple stage yields nothing.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	g.log.Info("generating dimension tuples", "batches", g.opts.Batches, "per_batch", g.opts.TuplesPerBatch)
	report.Tuples = g.GenerateTuples(ctx)
	if len(report.Tuples.Tuples) == 0 {
		report.Duration = time.Since(start)
		return report, ErrNoTuples
	}

	g.log.Info("generating queries", "tuples", len(report.Tuples.Tuples), "per_tuple", g.opts.QueriesPerTuple, "workers", g.opts.Workers)
	report.FanOut = g.FanOut(ctx, report.Tuples.Tuples)
	report.Summary = Summarize(report.FanOut.Queries)
	report.Duration = time.Since(start)

	g.log.Info("generation complete",
		"queries", len(report.FanOut.Queries),
		"failed_tuples", report.FanOut.Failed,
		"duration", report.Duration)
	return report, nil
}

func (g *Generator) structuredOptions() llm.StructuredOptions {
	return llm.StructuredOptions{
		Model:      g.opts.Model,
		RetryDelay: g.opts.RetryDelay,
	}
}
