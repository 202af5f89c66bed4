// Package types defines shared data types used across bazel-debug-config.
//
// This package provides type definitions for:
//   - DebuggerKind: the debugger a launch entry is generated for
//   - GenerateRequest / GenerateResult: one run of the generator, as used by
//     the command line and the MCP server
//
// These types are used throughout the codebase to maintain type safety
// and provide clear contracts between components.
package types

// DebuggerKind represents a supported debugger
type DebuggerKind string

const (
	DebuggerGDB  DebuggerKind = "gdb"
	DebuggerLLDB DebuggerKind = "lldb"
)

// ParseDebuggerKind maps a user-supplied name to a kind. Only "lldb" selects
// lldb; every other value, including "", means gdb.
func ParseDebuggerKind(s string) DebuggerKind {
	if s == string(DebuggerLLDB) {
		return DebuggerLLDB
	}
	return DebuggerGDB
}

// GenerateRequest describes one launch entry to build and merge
type GenerateRequest struct {
	Target    string       `json:"target"`
	Debugger  DebuggerKind `json:"debugger"`
	Args      string       `json:"args,omitempty"`
	Overwrite bool         `json:"overwrite,omitempty"`

	// Workspace overrides `bazel info workspace` when set
	Workspace string `json:"workspace,omitempty"`

	// DryRun renders the merged launch.json without writing it
	DryRun bool `json:"dryRun,omitempty"`
}

// GenerateResult reports what a run did
type GenerateResult struct {
	Workspace     string   `json:"workspace"`
	ExecutionRoot string   `json:"executionRoot"`
	Program       string   `json:"program"`
	LaunchPath    string   `json:"launchPath"`
	BackupPath    string   `json:"backupPath,omitempty"`
	EntryName     string   `json:"entryName"`
	Action        string   `json:"action"`
	Fields        []string `json:"fields"`

	// Rendered holds the launch.json content on dry runs
	Rendered string `json:"rendered,omitempty"`
}
