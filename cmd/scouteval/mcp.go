// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/scouteval/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running scouteval as an MCP server, exposing the scouting assistant and query generator to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing scouteval's tools:
  - chat:             Ask the football scouting assistant a question
  - generate_queries: Generate synthetic scouting queries as JSON

Pipeline defaults come from the config file. Logs go to stderr so they do
not interfere with the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	provider, err := providerFor(cfg)
	if err != nil {
		return err
	}

	deps := mcpserver.Deps{
		Provider: provider,
		Model:    cfg.ResolvedModel(),
		Generate: synthOptions(cfg),
		BaseDir:  configDir,
		Logger:   slog.Default(),
	}
	return mcpserver.Run(cmd.Context(), Version, deps, &mcp.StdioTransport{})
}
