package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/davetashner/scouteval/internal/config"
	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/synth"
)

// newProvider builds the LLM client for a command. Tests replace it with a
// function returning an llm.MockProvider.
var newProvider = func(model string) (llm.Provider, error) {
	return llm.NewAnthropicProvider(llm.WithModel(model))
}

// configDir is where the repo config file is looked up.
var configDir = "."

// loadConfig merges the global and working-directory config files and
// applies environment overrides. Flag overrides are applied by each command
// before validation.
func loadConfig() (*config.Config, error) {
	global, err := config.LoadGlobal()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "scouteval: failed to load %s (%v)", config.GlobalConfigPath(), err)
	}
	repo, err := config.Load(configDir)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "scouteval: failed to load config (%v)", err)
	}
	cfg := config.Merge(global, repo)
	config.ApplyEnv(cfg, os.Getenv)
	return cfg, nil
}

// validateConfig runs config.Validate and maps failures to ExitInvalidArgs.
func validateConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return exitError(ExitInvalidArgs, "scouteval: %v", err)
	}
	return nil
}

// providerFor creates the provider for cfg's model, turning a missing API key
// into a user-facing message.
func providerFor(cfg *config.Config) (llm.Provider, error) {
	p, err := newProvider(cfg.ResolvedModel())
	if err != nil {
		return nil, exitError(ExitInvalidArgs,
			"scouteval: %s is not set; export it or add it to a .env file (%v)", llm.APIKeyEnvVar, err)
	}
	return p, nil
}

// stringFlag copies a string flag into dst when the user set it.
func stringFlag(cmd *cobra.Command, name string, val string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst = val
	}
}

// intFlag copies an int flag into dst when the user set it.
func intFlag(cmd *cobra.Command, name string, val int, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst = val
	}
}

// synthOptions maps the generate config onto pipeline options. A configured
// retry delay of zero means no pause, which synth spells as a negative delay.
func synthOptions(cfg *config.Config) synth.Options {
	g := cfg.Generate
	opts := synth.Options{
		Model:           cfg.ResolvedModel(),
		Batches:         g.Batches,
		TuplesPerBatch:  g.TuplesPerBatch,
		QueriesPerTuple: g.QueriesPerTuple,
		Workers:         g.Workers,
	}
	if d, ok, _ := cfg.RetryDelayDuration(); ok {
		if d == 0 {
			d = -1
		}
		opts.RetryDelay = d
	}
	return opts
}
