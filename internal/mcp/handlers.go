package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctagard/bazel-debug-config/internal/errors"
	"github.com/ctagard/bazel-debug-config/internal/generator"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

func (s *Server) handleGenerateDebugConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("target")
	if err != nil || target == "" {
		return mcp.NewToolResultError(errors.MissingParameter("target",
			"Provide the Bazel label of the binary to debug, e.g. //source/exe:envoy-static.").Error()), nil
	}

	debugger := s.config.Debugger
	if d, err := request.RequireString("debugger"); err == nil && d != "" {
		debugger = d
	}

	req := types.GenerateRequest{
		Target:    target,
		Debugger:  types.ParseDebuggerKind(debugger),
		Overwrite: request.GetBool("overwrite", false),
		DryRun:    request.GetBool("dryRun", false),
	}
	if args, err := request.RequireString("args"); err == nil {
		req.Args = args
	}
	if ws, err := request.RequireString("workspace"); err == nil {
		req.Workspace = ws
	}

	result, err := s.generator.Run(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(errors.FromError(err).Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) handleListDebugConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ws, _ := request.RequireString("workspace")

	if name, err := request.RequireString("name"); err == nil && name != "" {
		entry, err := generator.Show(ws, name)
		if err != nil {
			return mcp.NewToolResultError(errors.FromError(err).Error()), nil
		}
		return jsonResult(entry)
	}

	listing, err := generator.List(ws)
	if err != nil {
		return mcp.NewToolResultError(errors.FromError(err).Error()), nil
	}
	return jsonResult(listing)
}

// jsonResult marshals data to JSON and returns it as a text result.
func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
