package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/scouteval/internal/llm"
)

func TestChat_SingleMessage(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: "## Enzo Fernandez\n"})
	setup(t, mock)

	cmd, stdout, _ := newTestCmd("")
	cmd.SetArgs([]string{"chat", "box-to-box", "midfielder", "from", "argentina"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "## Enzo Fernandez\n", stdout.String())
	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "box-to-box midfielder from argentina", lastContent(calls[0]))
	assert.Equal(t, llm.RoleSystem, calls[0].Messages[0].Role)
}

func TestChat_Interactive(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: "first"},
		llm.MockResponse{Err: errors.New("hiccup")},
		llm.MockResponse{Content: "third"},
	)
	setup(t, mock)

	cmd, stdout, _ := newTestCmd("one\ntwo\nthree\n")
	cmd.SetArgs([]string{"chat", "--interactive"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "error: chat: hiccup")
	assert.Contains(t, out, "third")

	calls := mock.Calls()
	require.Len(t, calls, 3)
	// The failed second turn is not kept: system, one, first, three.
	require.Len(t, calls[2].Messages, 4)
	assert.Equal(t, "first", calls[2].Messages[2].Content)
	assert.Equal(t, "three", calls[2].Messages[3].Content)
}

func TestChat_NoMessage(t *testing.T) {
	setup(t, llm.NewMockProvider())

	cmd, _, _ := newTestCmd("")
	cmd.SetArgs([]string{"chat"})
	requireExitCode(t, cmd.Execute(), ExitInvalidArgs)
}

func TestChat_ProviderError(t *testing.T) {
	setup(t, llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")}))

	cmd, _, _ := newTestCmd("")
	cmd.SetArgs([]string{"chat", "hi"})
	ece := requireExitCode(t, cmd.Execute(), ExitTotalFailure)
	assert.Contains(t, ece.Error(), "down")
}
