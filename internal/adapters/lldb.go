package adapters

import (
	"github.com/ctagard/bazel-debug-config/internal/launchconfig"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

// Bazel compiles with -fdebug-prefix-map=$PWD=/proc/self/cwd, so debug info
// refers to sources through these prefixes.
const (
	sandboxCwd      = "/proc/self/cwd"
	sandboxExternal = sandboxCwd + "/external"
	sandboxBazelOut = sandboxCwd + "/bazel-out"
)

// LLDBDebugger builds entries for lldb. lldb maps the sandbox prefixes back
// to the workspace and execution root with a sourceMap.
type LLDBDebugger struct{}

// NewLLDBDebugger creates a new lldb debugger
func NewLLDBDebugger() *LLDBDebugger {
	return &LLDBDebugger{}
}

// Kind returns types.DebuggerLLDB
func (l *LLDBDebugger) Kind() types.DebuggerKind {
	return types.DebuggerLLDB
}

// EntryName returns "lldb <target>"
func (l *LLDBDebugger) EntryName(target string) string {
	return "lldb " + target
}

// SourceMap returns the prefix remapping for a workspace and execution root.
func (l *LLDBDebugger) SourceMap(workspace, execRoot string) *launchconfig.Object {
	m := launchconfig.NewObject()
	_ = m.Set(sandboxCwd, workspace)
	_ = m.Set(sandboxExternal, execRoot+"/external")
	_ = m.Set(sandboxBazelOut, execRoot+"/bazel-out")
	return m
}

// BuildEntry builds an lldb launch entry
func (l *LLDBDebugger) BuildEntry(p Params) (*launchconfig.DebugConfiguration, error) {
	args := p.Args
	if args == nil {
		args = []string{}
	}

	return buildEntry(
		field{"name", l.EntryName(p.Target)},
		field{"program", p.Program},
		field{"sourceMap", l.SourceMap(p.Workspace, p.ExecutionRoot)},
		field{"cwd", WorkspaceFolderVariable},
		field{"args", args},
		field{"type", "lldb"},
		field{"request", "launch"},
	)
}

// RefreshFields returns the fields that always follow the latest build.
func (l *LLDBDebugger) RefreshFields() []string {
	return []string{"program", "sourceMap", "cwd", "type", "request"}
}
