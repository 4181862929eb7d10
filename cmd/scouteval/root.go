package main

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	scoutlog "github.com/davetashner/scouteval/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for scouteval.
var rootCmd = &cobra.Command{
	Use:   "scouteval",
	Short: "Evaluate a football scouting assistant with synthetic queries",
	Long: `Scouteval builds evaluation data for an LLM-backed football scouting
assistant. It generates synthetic user queries along country, player-skill
and scenario dimensions, replays them through the assistant for open coding,
and exposes both as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		scoutlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
		loadDotEnv(".env")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(opencodeCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv reads KEY=VALUE pairs from path into the environment. Variables
// already set in the environment are left alone. A missing file is fine.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load env file", "path", path, "error", err)
	}
}
