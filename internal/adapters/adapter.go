// Package adapters provides the debugger-specific parts of a launch entry.
//
// This package defines the Debugger interface that every supported debugger
// implements, with concrete implementations for:
//   - gdb, through the cpptools "cppdbg" debug type
//   - lldb, through the "lldb" debug type (CodeLLDB)
//
// The Registry type maps a DebuggerKind to its Debugger. A Debugger knows how
// to name its entry, which fields the entry has, and which of those fields are
// refreshed on every run even when the user keeps a hand-edited entry.
package adapters

import (
	"fmt"

	"github.com/ctagard/bazel-debug-config/internal/launchconfig"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

// WorkspaceFolderVariable is expanded by the editor to the open workspace.
const WorkspaceFolderVariable = "${workspaceFolder}"

// Params are the resolved inputs of a launch entry.
type Params struct {
	Target        string
	Program       string
	Workspace     string
	ExecutionRoot string

	// Args are the already split arguments for the debugged binary
	Args []string
}

// Debugger defines the interface for debugger-specific launch entries
type Debugger interface {
	// Kind returns the debugger this implementation generates entries for
	Kind() types.DebuggerKind

	// EntryName returns the name identifying target's entry in launch.json
	EntryName(target string) string

	// BuildEntry builds a complete launch entry
	BuildEntry(p Params) (*launchconfig.DebugConfiguration, error)

	// RefreshFields lists the fields updated on an existing entry when the
	// user did not ask for a full overwrite
	RefreshFields() []string
}

// Registry holds all registered debuggers
type Registry struct {
	debuggers map[types.DebuggerKind]Debugger
}

// NewRegistry creates a new registry with all supported debuggers
func NewRegistry() *Registry {
	r := &Registry{
		debuggers: make(map[types.DebuggerKind]Debugger),
	}

	r.Register(NewGDBDebugger())
	r.Register(NewLLDBDebugger())

	return r
}

// Get returns the debugger for kind
func (r *Registry) Get(kind types.DebuggerKind) (Debugger, error) {
	d, ok := r.debuggers[kind]
	if !ok {
		return nil, fmt.Errorf("no debugger registered for kind: %s", kind)
	}
	return d, nil
}

// Register registers a debugger, overriding any existing one of the same kind
func (r *Registry) Register(d Debugger) {
	r.debuggers[d.Kind()] = d
}

// buildEntry sets fields in the given order.
func buildEntry(fields ...field) (*launchconfig.DebugConfiguration, error) {
	cfg := launchconfig.NewDebugConfiguration()
	for _, f := range fields {
		if err := cfg.Set(f.key, f.value); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type field struct {
	key   string
	value interface{}
}
