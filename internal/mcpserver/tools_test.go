package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/query"
	"github.com/davetashner/scouteval/internal/sink"
	"github.com/davetashner/scouteval/internal/synth"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var portugal = query.DimensionTuple{Country: "Portugal", PlayerSkills: "crossing", Scenario: "scouting report"}

// pipelineMock answers tuple prompts with one tuple and query prompts with
// two queries.
func pipelineMock(t *testing.T) *llm.MockProvider {
	t.Helper()
	tuples, err := json.Marshal(synth.TupleList{Tuples: []query.DimensionTuple{portugal}})
	require.NoError(t, err)
	queries, err := json.Marshal(synth.QueryList{Queries: []string{"best crosser in portugal", "PORTUGAL wingers??"}})
	require.NoError(t, err)

	return llm.NewMockProviderFunc(func(req llm.Request) llm.MockResponse {
		last := req.Messages[len(req.Messages)-1].Content
		if strings.Contains(last, "random combinations") {
			return llm.MockResponse{Content: string(tuples)}
		}
		return llm.MockResponse{Content: string(queries)}
	})
}

func testDeps(t *testing.T, p llm.Provider) Deps {
	return Deps{
		Provider: p,
		Model:    "anthropic/claude-3-haiku-20240307",
		Generate: synth.Options{RetryDelay: time.Millisecond},
		BaseDir:  t.TempDir(),
		Logger:   quietLogger(),
	}
}

func TestHandleChat(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: " answer "})
	h := newHandlers(testDeps(t, mock))

	result, _, err := h.handleChat(context.Background(), nil, ChatInput{Message: "who?"})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "answer", result.Content[0].(*mcp.TextContent).Text)
	assert.Equal(t, "anthropic/claude-3-haiku-20240307", mock.Calls()[0].Model)
}

func TestHandleChat_EmptyMessage(t *testing.T) {
	h := newHandlers(testDeps(t, llm.NewMockProvider()))
	_, _, err := h.handleChat(context.Background(), nil, ChatInput{})
	assert.ErrorContains(t, err, "message is required")
}

func TestHandleChat_ProviderError(t *testing.T) {
	h := newHandlers(testDeps(t, llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")})))
	_, _, err := h.handleChat(context.Background(), nil, ChatInput{Message: "x"})
	assert.ErrorContains(t, err, "down")
}

func TestHandleGenerate(t *testing.T) {
	mock := pipelineMock(t)
	h := newHandlers(testDeps(t, mock))

	result, _, err := h.handleGenerate(context.Background(), nil, GenerateInput{Batches: 2, TuplesPerBatch: 3, QueriesPerTuple: 2})
	require.NoError(t, err)

	var out GenerateOutput
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &out))
	assert.Equal(t, 1, out.UniqueTuples)
	assert.Zero(t, out.FailedBatches)
	assert.Zero(t, out.FailedTuples)
	require.Len(t, out.Queries, 2)
	assert.Equal(t, "SYN001", out.Queries[0].ID)
	assert.Equal(t, "SYN002", out.Queries[1].ID)
	assert.Equal(t, portugal, out.Queries[0].Tuple)
	assert.Empty(t, out.SavedTo)

	// 2 tuple batches + 1 query call.
	assert.Len(t, mock.Calls(), 3)
}

func TestHandleGenerate_SavesFile(t *testing.T) {
	deps := testDeps(t, pipelineMock(t))
	h := newHandlers(deps)

	result, _, err := h.handleGenerate(context.Background(), nil, GenerateInput{Batches: 1, Output: "runs/q.csv"})
	require.NoError(t, err)

	var out GenerateOutput
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &out))
	base, err := filepath.EvalSymlinks(deps.BaseDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "runs", "q.csv"), out.SavedTo)

	saved, err := sink.ReadQueries(out.SavedTo)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestHandleGenerate_AllBatchesFail(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("unavailable")})
	h := newHandlers(testDeps(t, mock))

	_, _, err := h.handleGenerate(context.Background(), nil, GenerateInput{Batches: 2})
	require.ErrorIs(t, err, synth.ErrNoTuples)
	assert.Contains(t, err.Error(), "all 2 tuple batches failed")
}

func TestHandleGenerate_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		input   GenerateInput
		wantErr string
	}{
		{"negative batches", GenerateInput{Batches: -1}, "batches must be between 0 and 10"},
		{"too many tuples", GenerateInput{TuplesPerBatch: 21}, "tuples_per_batch must be between 0 and 20"},
		{"too many queries", GenerateInput{QueriesPerTuple: 99}, "queries_per_tuple must be between 0 and 10"},
		{"escaping output", GenerateInput{Output: "../../etc/cron.d/x"}, "escapes"},
		{"bad format", GenerateInput{Output: "q.csv", Format: "parquet"}, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := pipelineMock(t)
			h := newHandlers(testDeps(t, mock))
			_, _, err := h.handleGenerate(context.Background(), nil, tt.input)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Empty(t, mock.Calls(), "no model traffic on rejected input")
		})
	}
}

func TestBoundedCount(t *testing.T) {
	n, err := boundedCount("x", 0, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "zero falls through to pipeline defaults")

	n, err = boundedCount("x", 0, 50, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n, "configured default is capped")

	n, err = boundedCount("x", 4, 50, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
