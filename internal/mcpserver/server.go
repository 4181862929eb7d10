// Copyright 2026 The Scouteval Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/scouteval/internal/llm"
	"github.com/davetashner/scouteval/internal/synth"
)

// Deps are the collaborators shared by every tool call.
type Deps struct {
	// Provider answers chat and generation requests.
	Provider llm.Provider

	// Model is passed on every request; empty uses the provider default.
	Model string

	// Generate holds the pipeline defaults; tool inputs may lower the counts.
	Generate synth.Options

	// BaseDir bounds where generate_queries may write files. Empty means ".".
	BaseDir string

	Logger *slog.Logger
}

// New creates a new MCP server with scouteval's tools registered.
func New(version string, deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "scouteval",
		Title:   "Scouteval: football scouting assistant evaluation",
		Version: version,
	}, nil)

	registerTools(server, newHandlers(deps))
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, deps Deps, transport mcp.Transport) error {
	return New(version, deps).Run(ctx, transport)
}
