// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/teampulse/teampulse/internal/contract"
)

// NewMCPServer initializes and configures the TeamPulse MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"TeamPulse Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: score_commit_message ---
	s.AddTool(mcp.NewTool("score_commit_message",
		mcp.WithDescription("Score a commit message for quality. Returns the overall score plus a per-signal breakdown."),
		mcp.WithString("message", mcp.Description("The full commit message, summary line plus optional body."), mcp.Required()),
		mcp.WithNumber("parent_count", mcp.Description("Number of parent commits. Values above 1 mark a merge commit. Defaults to 1.")),
	), h.handleScoreCommitMessage)

	// --- 2. Tool: summarize_developers ---
	s.AddTool(mcp.NewTool("summarize_developers",
		mcp.WithDescription("Aggregate a previously extracted commits CSV into ranked per-developer summaries."),
		mcp.WithString("commits_file", mcp.Description("Path to a commits CSV produced by the extract command."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of developers returned.")),
	), h.handleSummarizeDevelopers)

	return s
}

// StartMCPServer starts the TeamPulse MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
