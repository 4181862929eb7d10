package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/query"
	"github.com/davetashner/scouteval/internal/synth"
)

var (
	argentina = query.DimensionTuple{Country: "Argentina", PlayerSkills: "A player similar to messi", Scenario: "Comparing players"}
	germany   = query.DimensionTuple{Country: "Germany", PlayerSkills: "Strong defensive players in off-side systems", Scenario: "Scouting reports"}
)

// newTestCmd redirects rootCmd's I/O into buffers and returns it.
func newTestCmd(stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	return rootCmd, stdout, stderr
}

// resetFlags restores every flag of every command to its default and clears
// the Changed state so tests do not leak into each other.
func resetFlags() {
	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		reset := func(f *pflag.Flag) {
			f.Changed = false
			_ = f.Value.Set(f.DefValue)
		}
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)
}

// setup isolates a test: fresh flags, empty config dirs, no MODEL_NAME, and
// the given provider in place of the Anthropic client. It returns the config
// directory and a pointer to the model the provider was created with.
func setup(t *testing.T, p llm.Provider) (string, *string) {
	t.Helper()
	resetFlags()

	dir := t.TempDir()
	origDir, origProvider := configDir, newProvider
	configDir = dir
	var model string
	newProvider = func(m string) (llm.Provider, error) {
		model = m
		if p == nil {
			return nil, errors.New("llm: ANTHROPIC_API_KEY not set and no API key provided")
		}
		return p, nil
	}
	t.Cleanup(func() { configDir, newProvider = origDir, origProvider })

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MODEL_NAME", "")
	return dir, &model
}

// requireExitCode asserts err is an exitCodeError with the given code.
func requireExitCode(t *testing.T, err error, code int) *exitCodeError {
	t.Helper()
	require.Error(t, err)
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece), "want exitCodeError, got %T: %v", err, err)
	assert.Equal(t, code, ece.ExitCode(), ece.Error())
	return ece
}

func lastContent(req llm.Request) string {
	return req.Messages[len(req.Messages)-1].Content
}

func isTuplePrompt(req llm.Request) bool {
	return strings.Contains(lastContent(req), "random combinations")
}

// pipelineMock answers tuple prompts with the given tuples and query prompts
// with two queries. Query prompts for failCountry return an error.
func pipelineMock(t *testing.T, failCountry string, tuples ...query.DimensionTuple) *llm.MockProvider {
	t.Helper()
	tupleJSON, err := json.Marshal(synth.TupleList{Tuples: tuples})
	require.NoError(t, err)

	return llm.NewMockProviderFunc(func(req llm.Request) llm.MockResponse {
		if isTuplePrompt(req) {
			return llm.MockResponse{Content: string(tupleJSON)}
		}
		for _, tup := range tuples {
			if !strings.Contains(lastContent(req), `"Country": "`+tup.Country+`"`) {
				continue
			}
			if tup.Country == failCountry {
				return llm.MockResponse{Err: errors.New("overloaded")}
			}
			data, _ := json.Marshal(synth.QueryList{Queries: []string{
				"scout " + tup.Country + " player",
				"who in " + strings.ToUpper(tup.Country) + "??",
			}})
			return llm.MockResponse{Content: string(data)}
		}
		return llm.MockResponse{Err: errors.New("unexpected prompt")}
	})
}
