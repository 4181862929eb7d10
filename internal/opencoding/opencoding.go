// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

// Package opencoding replays generated queries through the scouting assistant
// and records each reply for manual open coding.
package opencoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/scouteval/internal/query"
	"github.com/davetashner/scouteval/internal/sink"
)

// DefaultWorkers is the labeler's pool size when none is configured.
const DefaultWorkers = 5

// PromptPrefix precedes the JSON form of each row sent to the assistant.
const PromptPrefix = "Open code this football scouting query data: "

// Column names of the open coding table.
const (
	ColQueryID  = "query_id"
	ColOriginal = "original_query"
	ColTuple    = "dimension_tuple_json"
	ColResponse = "open_coding_response"
)

// ResultColumns is the header written for open coding results.
var ResultColumns = []string{ColQueryID, ColOriginal, ColTuple, ColResponse}

// Asker answers a single user message. *chat.Agent satisfies it.
type Asker interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Result is one labeled row. Err is set when the assistant call failed, in
// which case Response holds "Error: <message>".
type Result struct {
	QueryID       string
	OriginalQuery string
	TupleJSON     string
	Response      string
	Err           error
}

// Labeler sends rows to an Asker on a bounded pool.
type Labeler struct {
	asker   Asker
	workers int
	log     *slog.Logger
}

// NewLabeler returns a Labeler. workers <= 0 selects DefaultWorkers; a nil
// logger selects slog.Default().
func NewLabeler(asker Asker, workers int, logger *slog.Logger) *Labeler {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Labeler{asker: asker, workers: workers, log: logger}
}

// Label asks about every row and returns one Result per row in input order.
// A failed row never stops the others.
func (l *Labeler) Label(ctx context.Context, rows []query.GeneratedQuery) []Result {
	results := make([]Result, len(rows))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(l.workers)
	for i, row := range rows {
		g.Go(func() error {
			results[i] = l.labelOne(ctx, row)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	l.log.Info("open coding complete", "rows", len(rows), "failed", failed, "duration", time.Since(start).Round(time.Millisecond))
	return results
}

func (l *Labeler) labelOne(ctx context.Context, row query.GeneratedQuery) (res Result) {
	res.QueryID = row.ID
	res.OriginalQuery = row.Text
	tupleJSON, err := query.MarshalTuple(row.Tuple)
	if err == nil {
		res.TupleJSON = tupleJSON
	}

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("open coding task panicked: %v", r)
			res.Response = "Error: " + res.Err.Error()
		}
		if res.Err != nil {
			l.log.Warn("open coding failed", "id", row.ID, "error", res.Err)
		}
	}()

	prompt, err := Prompt(row)
	if err != nil {
		res.Err = err
		res.Response = "Error: " + err.Error()
		return res
	}

	reply, err := l.asker.Ask(ctx, prompt)
	if err != nil {
		res.Err = err
		res.Response = "Error: " + err.Error()
		return res
	}
	res.Response = reply
	return res
}

// inputRow is the JSON shape of a generated-query row inside the prompt.
type inputRow struct {
	ID    string `json:"id"`
	Query string `json:"query"`
	Tuple string `json:"dimension_tuple_json"`
	Keep  int    `json:"is_realistic_and_kept"`
	Notes string `json:"notes_for_filtering"`
}

// Prompt renders the open coding request for one row.
func Prompt(row query.GeneratedQuery) (string, error) {
	tupleJSON, err := query.MarshalTuple(row.Tuple)
	if err != nil {
		return "", err
	}
	in := inputRow{ID: row.ID, Query: row.Text, Tuple: tupleJSON, Notes: row.Notes}
	if row.Keep {
		in.Keep = 1
	}
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal row %s: %w", row.ID, err)
	}
	return PromptPrefix + string(data), nil
}

// ResultsTable flattens results into the open coding table.
func ResultsTable(results []Result) sink.Table {
	t := sink.Table{Header: ResultColumns, Rows: make([][]string, 0, len(results))}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{r.QueryID, r.OriginalQuery, r.TupleJSON, r.Response})
	}
	return t
}

// WriteResults writes results to path. Empty input is a logged no-op.
func WriteResults(path, format string, results []Result) error {
	if len(results) == 0 {
		slog.Info("no open coding results to save", "path", path)
		return nil
	}
	if err := sink.WriteTable(path, format, ResultsTable(results)); err != nil {
		return err
	}
	slog.Info("saved open coding results", "count", len(results), "path", path)
	return nil
}
