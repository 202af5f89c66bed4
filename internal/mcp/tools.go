package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.registerGenerateDebugConfig()
	s.registerListDebugConfigs()
}

func (s *Server) registerGenerateDebugConfig() {
	tool := mcp.NewTool("generate_debug_config",
		mcp.WithDescription("Build a Bazel target with debug information (-c dbg plus its .dwp package) and add a gdb or lldb entry for it to <workspace>/.vscode/launch.json. The previous launch.json is kept as launch.json.bak."),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Bazel label of the binary, e.g. //source/exe:envoy-static or @repo//pkg:bin"),
		),
		mcp.WithString("debugger",
			mcp.Description("Debugger kind: 'gdb' (default) or 'lldb'"),
			mcp.Enum("gdb", "lldb"),
		),
		mcp.WithString("args",
			mcp.Description("Arguments for the debugged binary, shell-quoted as on a command line"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace an existing entry of the same name instead of only refreshing its paths (default: false)"),
		),
		mcp.WithString("workspace",
			mcp.Description("Workspace root. Defaults to `bazel info workspace` in the server's directory."),
		),
		mcp.WithBoolean("dryRun",
			mcp.Description("Build and resolve paths but return the resulting launch.json instead of writing it (default: false)"),
		),
	)
	s.mcpServer.AddTool(tool, s.handleGenerateDebugConfig)
}

func (s *Server) registerListDebugConfigs() {
	tool := mcp.NewTool("list_debug_configs",
		mcp.WithDescription("List the entries of a workspace's .vscode/launch.json with validation warnings, or return the full entry called name."),
		mcp.WithString("workspace",
			mcp.Description("Workspace root. Auto-discovers launch.json from the server's directory if omitted."),
		),
		mcp.WithString("name",
			mcp.Description("Entry name, e.g. 'gdb //source/exe:envoy-static'. Returns only that entry."),
		),
	)
	s.mcpServer.AddTool(tool, s.handleListDebugConfigs)
}
