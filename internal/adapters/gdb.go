package adapters

import (
	"github.com/ctagard/bazel-debug-config/internal/launchconfig"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

// GDBDebugger builds entries for gdb driven by the cpptools extension.
// gdb finds sources relative to the execution root through --directory.
type GDBDebugger struct{}

// NewGDBDebugger creates a new gdb debugger
func NewGDBDebugger() *GDBDebugger {
	return &GDBDebugger{}
}

// Kind returns types.DebuggerGDB
func (g *GDBDebugger) Kind() types.DebuggerKind {
	return types.DebuggerGDB
}

// EntryName returns "gdb <target>"
func (g *GDBDebugger) EntryName(target string) string {
	return "gdb " + target
}

// BuildEntry builds a cppdbg launch entry
func (g *GDBDebugger) BuildEntry(p Params) (*launchconfig.DebugConfiguration, error) {
	args := p.Args
	if args == nil {
		args = []string{}
	}

	return buildEntry(
		field{"name", g.EntryName(p.Target)},
		field{"request", "launch"},
		field{"args", args},
		field{"type", "cppdbg"},
		field{"program", p.Program},
		field{"miDebuggerArgs", "--directory=" + p.ExecutionRoot},
		field{"cwd", WorkspaceFolderVariable},
	)
}

// RefreshFields returns the fields that always follow the latest build.
func (g *GDBDebugger) RefreshFields() []string {
	return []string{"request", "type", "program", "miDebuggerArgs", "cwd"}
}
