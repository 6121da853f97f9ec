package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teampulse/teampulse/core"
	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/outwriter"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleScoreCommitMessage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := request.GetString("message", "")
	if message == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	parentCount := request.GetInt("parent_count", 1)

	cfg := h.baseCfg.Clone()
	score := core.ScoreMessage(message, parentCount, cfg.Weights, cfg.MinMessageLength, cfg.IdealMessageLength)
	breakdown := core.ScoreBreakdown(message, parentCount, cfg.Weights, cfg.MinMessageLength, cfg.IdealMessageLength)

	result := map[string]any{
		"score":     score,
		"label":     contract.GetPlainLabel(score),
		"breakdown": breakdown,
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSummarizeDevelopers(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commitsFile := request.GetString("commits_file", "")
	if commitsFile == "" {
		return mcp.NewToolResultError("commits_file is required"), nil
	}

	cfg := h.baseCfg.Clone()
	limit := request.GetInt("limit", cfg.ResultLimit)
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}

	records, err := outwriter.ReadCommitRecords(commitsFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read commits file: %v", err)), nil
	}

	devs := core.Aggregate(records, cfg.LargeCommitThreshold)
	ranked := core.TopDevelopers(devs, limit)

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
