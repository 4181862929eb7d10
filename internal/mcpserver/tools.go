package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/scouteval/internal/chat"
	"github.com/davetashner/scouteval/internal/query"
	"github.com/davetashner/scouteval/internal/sink"
	"github.com/davetashner/scouteval/internal/synth"
)

// Upper bounds on per-call counts so one tool call cannot fan out unbounded
// model traffic.
const (
	maxBatches         = 10
	maxTuplesPerBatch  = 20
	maxQueriesPerTuple = 10
)

// ChatInput is the input schema for the chat MCP tool.
type ChatInput struct {
	Message string `json:"message" jsonschema:"Scouting question to ask the assistant"`
}

// GenerateInput is the input schema for the generate_queries MCP tool.
type GenerateInput struct {
	Batches         int    `json:"batches,omitempty" jsonschema:"Number of parallel tuple batches (default 5, max 10)"`
	TuplesPerBatch  int    `json:"tuples_per_batch,omitempty" jsonschema:"Tuples requested per batch (default 10, max 20)"`
	QueriesPerTuple int    `json:"queries_per_tuple,omitempty" jsonschema:"Queries generated per unique tuple (default 5, max 10)"`
	Output          string `json:"output,omitempty" jsonschema:"Optional file to save the queries to, relative to the server's working directory"`
	Format          string `json:"format,omitempty" jsonschema:"Output file format: csv, jsonl, or xlsx (default: from extension)"`
}

// GenerateOutput is the JSON document returned by generate_queries.
type GenerateOutput struct {
	UniqueTuples  int              `json:"unique_tuples"`
	FailedBatches int              `json:"failed_batches"`
	FailedTuples  int              `json:"failed_tuples"`
	Queries       []generatedQuery `json:"queries"`
	SavedTo       string           `json:"saved_to,omitempty"`
}

type generatedQuery struct {
	ID    string               `json:"id"`
	Query string               `json:"query"`
	Tuple query.DimensionTuple `json:"dimension_tuple"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

type handlers struct {
	deps  Deps
	agent *chat.Agent
	log   *slog.Logger
}

func newHandlers(deps Deps) *handlers {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.BaseDir == "" {
		deps.BaseDir = "."
	}
	return &handlers{
		deps:  deps,
		agent: chat.New(deps.Provider, chat.WithModel(deps.Model)),
		log:   deps.Logger,
	}
}

// registerTools adds all scouteval tools to the MCP server.
func registerTools(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "chat",
		Description: "Ask the football scouting analyst a question. Returns a markdown answer.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handleChat)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_queries",
		Description: "Generate synthetic football scouting queries along country, player-skill and scenario dimensions. Returns JSON and optionally saves a table.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, h.handleGenerate)
}

func (h *handlers) handleChat(ctx context.Context, _ *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, any, error) {
	if input.Message == "" {
		return nil, nil, fmt.Errorf("message is required")
	}
	reply, err := h.agent.Ask(ctx, input.Message)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: reply}},
	}, nil, nil
}

func (h *handlers) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, any, error) {
	opts := h.deps.Generate
	opts.Model = h.deps.Model
	opts.Logger = h.log
	var err error
	if opts.Batches, err = boundedCount("batches", input.Batches, opts.Batches, maxBatches); err != nil {
		return nil, nil, err
	}
	if opts.TuplesPerBatch, err = boundedCount("tuples_per_batch", input.TuplesPerBatch, opts.TuplesPerBatch, maxTuplesPerBatch); err != nil {
		return nil, nil, err
	}
	if opts.QueriesPerTuple, err = boundedCount("queries_per_tuple", input.QueriesPerTuple, opts.QueriesPerTuple, maxQueriesPerTuple); err != nil {
		return nil, nil, err
	}

	var outPath string
	if input.Output != "" {
		if outPath, err = ResolveOutputPath(h.deps.BaseDir, input.Output); err != nil {
			return nil, nil, err
		}
		if _, err := sink.FormatForPath(input.Format, outPath); err != nil {
			return nil, nil, err
		}
	}

	report, err := synth.New(h.deps.Provider, opts).Run(ctx)
	if errors.Is(err, synth.ErrNoTuples) {
		return nil, nil, fmt.Errorf("%w: all %d tuple batches failed", err, report.Tuples.Batches)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("generation failed: %w", err)
	}

	queries := report.Queries()
	out := GenerateOutput{
		UniqueTuples:  len(report.Tuples.Tuples),
		FailedBatches: report.Tuples.Failed,
		FailedTuples:  report.FanOut.Failed,
		Queries:       make([]generatedQuery, 0, len(queries)),
	}
	for _, q := range queries {
		out.Queries = append(out.Queries, generatedQuery{ID: q.ID, Query: q.Text, Tuple: q.Tuple})
	}

	if outPath != "" && len(queries) > 0 {
		if err := sink.WriteQueries(outPath, input.Format, queries); err != nil {
			return nil, nil, fmt.Errorf("save queries: %w", err)
		}
		out.SavedTo = outPath
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// boundedCount picks the requested count, falling back to the configured
// default, and rejects values outside [0, upper].
func boundedCount(name string, requested, fallback, upper int) (int, error) {
	if requested < 0 || requested > upper {
		return 0, fmt.Errorf("%s must be between 0 and %d, got %d", name, upper, requested)
	}
	if requested == 0 {
		requested = fallback
	}
	if requested > upper {
		requested = upper
	}
	return requested, nil
}
