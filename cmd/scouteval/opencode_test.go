package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/opencoding"
	"github.com/davetashner/scouteval/internal/query"
	"github.com/davetashner/scouteval/internal/sink"
)

// writeInput saves three generated queries, the second marked not kept.
func writeInput(t *testing.T, dir string) string {
	t.Helper()
	rows := []query.GeneratedQuery{
		query.New("SYN001", "messi type in argentina", argentina),
		query.New("SYN002", "dropped one", germany),
		query.New("SYN003", "german offside-trap defenders", germany),
	}
	rows[1].Keep = false
	path := filepath.Join(dir, "synthetic.csv")
	require.NoError(t, sink.WriteQueries(path, "", rows))
	return path
}

func echoMock() *llm.MockProvider {
	return llm.NewMockProviderFunc(func(req llm.Request) llm.MockResponse {
		return llm.MockResponse{Content: "coded: " + strings.TrimPrefix(lastContent(req), opencoding.PromptPrefix)[:14]}
	})
}

func TestOpencode_LabelsKeptRows(t *testing.T) {
	mock := echoMock()
	dir, _ := setup(t, mock)
	in := writeInput(t, dir)
	out := filepath.Join(dir, "coded.csv")

	cmd, stdout, _ := newTestCmd("")
	cmd.SetArgs([]string{"opencode", "-i", in, "-o", out})
	require.NoError(t, cmd.Execute())

	tbl, err := sink.ReadTable(out)
	require.NoError(t, err)
	assert.Equal(t, opencoding.ResultColumns, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "SYN001", tbl.Rows[0][0])
	assert.Equal(t, `coded: {"id":"SYN001"`, tbl.Rows[0][3])
	assert.Equal(t, "SYN003", tbl.Rows[1][0])
	assert.Equal(t, "german offside-trap defenders", tbl.Rows[1][1])

	assert.Len(t, mock.Calls(), 2)
	assert.Contains(t, stdout.String(), "2 labeled, 0 failed (3 read, 2 selected)")
}

func TestOpencode_WhereAndIncludeDropped(t *testing.T) {
	mock := echoMock()
	dir, _ := setup(t, mock)
	in := writeInput(t, dir)
	out := filepath.Join(dir, "coded.jsonl")

	cmd, _, _ := newTestCmd("")
	cmd.SetArgs([]string{"opencode", "-i", in, "-o", out, "--include-dropped", "--where", `country == "Germany"`})
	require.NoError(t, cmd.Execute())

	calls := mock.Calls()
	require.Len(t, calls, 2)
	for _, c := range calls {
		assert.Contains(t, lastContent(c), `\"Country\":\"Germany\"`)
	}
}

func TestOpencode_NoRowsSelected(t *testing.T) {
	mock := echoMock()
	dir, _ := setup(t, mock)
	in := writeInput(t, dir)

	cmd, stdout, _ := newTestCmd("")
	cmd.SetArgs([]string{"opencode", "-i", in, "--where", `country == "Peru"`})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "no rows selected")
	assert.Empty(t, mock.Calls())
}

func TestOpencode_PartialAndTotalFailure(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		mock := llm.NewMockProviderFunc(func(req llm.Request) llm.MockResponse {
			if strings.Contains(lastContent(req), "SYN003") {
				return llm.MockResponse{Err: errors.New("timeout")}
			}
			return llm.MockResponse{Content: "ok"}
		})
		dir, _ := setup(t, mock)
		in := writeInput(t, dir)
		out := filepath.Join(dir, "coded.csv")

		cmd, _, _ := newTestCmd("")
		cmd.SetArgs([]string{"opencode", "-i", in, "-o", out})
		requireExitCode(t, cmd.Execute(), ExitPartialFailure)

		tbl, err := sink.ReadTable(out)
		require.NoError(t, err)
		assert.Equal(t, "ok", tbl.Rows[0][3])
		assert.Equal(t, "Error: chat: timeout", tbl.Rows[1][3])
	})

	t.Run("total", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")})
		dir, _ := setup(t, mock)
		in := writeInput(t, dir)

		cmd, _, _ := newTestCmd("")
		cmd.SetArgs([]string{"opencode", "-i", in, "-o", filepath.Join(dir, "coded.csv")})
		requireExitCode(t, cmd.Execute(), ExitTotalFailure)
	})
}

func TestOpencode_InputErrors(t *testing.T) {
	dir, _ := setup(t, echoMock())

	cmd, _, _ := newTestCmd("")
	cmd.SetArgs([]string{"opencode", "-i", filepath.Join(dir, "missing.csv")})
	ece := requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
	assert.Contains(t, ece.Error(), "run 'scouteval generate' first")

	resetFlags()
	in := writeInput(t, dir)
	cmd.SetArgs([]string{"opencode", "-i", in, "--where", "country =="})
	ece = requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
	assert.Contains(t, ece.Error(), "opencoding.where")
}
