// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package synth

import (
	"context"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/query"
)

// QueryList is the structured shape requested from the model for one tuple.
type QueryList struct {
	Queries []string `json:"queries" validate:"required"`
}

// GenerateQueries asks the model for the configured number of queries for one
// tuple. Extra queries beyond that number are dropped. On failure it logs and returns an empty list alongside the error, so
// callers can count the failure without aborting their batch.
func (g *Generator) GenerateQueries(ctx context.Context, t query.DimensionTuple) ([]string, error) {
	prompt, err := buildQueryPrompt(t, g.opts.QueriesPerTuple)
	if err != nil {
		g.log.Warn("building query prompt failed", "tuple", t, "error", err)
		return []string{}, err
	}

	list, err := llm.CallStructured[QueryList](ctx, g.provider, []llm.Message{llm.UserMessage(prompt)}, g.structuredOptions())
	if err != nil {
		g.log.Warn("query generation failed", "country", t.Country, "skills", t.PlayerSkills, "scenario", t.Scenario, "error", err)
		return []string{}, err
	}
	if n := g.opts.QueriesPerTuple; len(list.Queries) > n {
		g.log.Debug("model returned extra queries; truncating", "country", t.Country, "got", len(list.Queries), "want", n)
		list.Queries = list.Queries[:n]
	}
	return list.Queries, nil
}
