package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/scouteval/internal/config"
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect scouteval configuration",
	Long: `Inspect scouteval configuration.

Scouteval reads .scouteval.yaml (or .scouteval.toml) from the working
directory. A global config at ~/.config/scouteval/config.yaml provides
defaults. Repo-level settings override global settings, $MODEL_NAME overrides
both, and command flags override everything.`,
}

// configValidateCmd checks the effective configuration.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := validateConfig(cfg); err != nil {
			return err
		}
		source := config.Path(configDir)
		if source == "" {
			source = "defaults only"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s config is valid (%s)\n", color.GreenString("ok:"), source)
		return nil
	},
}

// configGetCmd retrieves an effective value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get an effective configuration value by dot-notation key path.

Examples:
  scouteval config get model
  scouteval config get generate.workers
  scouteval config get opencoding`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.ValidateKeyPath(args[0]); err != nil {
			return exitError(ExitInvalidArgs, "scouteval: %v", err)
		}
		val, err := config.GetValue(cfg, args[0])
		if err != nil {
			return exitError(ExitInvalidArgs, "scouteval: %v", err)
		}
		return printValue(cmd, val)
	},
}

// configListCmd lists every set value of the effective configuration.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		flat, err := config.Flatten(cfg)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(flat) == 0 {
			_, _ = fmt.Fprintln(w, "No configuration set.")
			_, _ = fmt.Fprintf(w, "Create %s to override defaults.\n", config.FileName)
			return nil
		}
		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		keyColor := color.New(color.FgCyan)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "%s = %v\n", keyColor.Sprint(k), flat[k])
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
}

// printValue outputs a value: scalars as plain text, maps as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
