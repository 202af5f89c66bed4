// Package workspace resolves on-disk locations inside a Bazel workspace: the
// output path of a target, the execution root and the workspace root.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	// CompileCommandsFileName is the compilation database written by tools
	// such as hedron_compile_commands or envoy's gen_compilation_database.
	CompileCommandsFileName = "compile_commands.json"

	// ExternalDir is where external repositories live under bazel-bin and
	// the execution root.
	ExternalDir = "external"
)

// InfoQuerier answers `bazel info` queries.
type InfoQuerier interface {
	Info(ctx context.Context, key string, extra ...string) (string, error)
}

// LabelSegments splits a target label into path segments below bazel-bin.
// A leading repository marker (@ or the canonical @@) becomes a single
// "external" segment, ':' and '/' both separate segments, and empty segments
// are dropped.
func LabelSegments(target string) []string {
	label := target
	var segments []string
	if strings.HasPrefix(label, "@") {
		label = strings.TrimPrefix(strings.TrimPrefix(label, "@"), "@")
		if label == "" {
			return nil
		}
		segments = append(segments, ExternalDir)
	}

	for _, s := range strings.FieldsFunc(label, func(r rune) bool { return r == '/' || r == ':' }) {
		segments = append(segments, s)
	}
	return segments
}

// BinaryPath joins bazelBin with the segments of target.
func BinaryPath(bazelBin, target string) string {
	return filepath.Join(append([]string{bazelBin}, LabelSegments(target)...)...)
}

// CompileCommandsDirectory returns the "directory" of the first entry of the
// compilation database in workspace.
func CompileCommandsDirectory(workspace string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(workspace, CompileCommandsFileName))
	if err != nil {
		return "", false
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		return "", false
	}

	dir := gjson.GetBytes(data, "0.directory")
	if dir.Type != gjson.String || dir.String() == "" {
		return "", false
	}
	return dir.String(), true
}

// ExecutionRoot prefers the directory recorded in the compilation database so
// breakpoints set through clangd navigation resolve, and otherwise asks bazel.
// Problems with the compilation database are never reported; they only
// trigger the fallback.
func ExecutionRoot(ctx context.Context, workspace string, q InfoQuerier, log logrus.FieldLogger) (string, error) {
	if dir, ok := CompileCommandsDirectory(workspace); ok {
		if log != nil {
			log.WithField("execution_root", dir).Debugf("using %s", CompileCommandsFileName)
		}
		return dir, nil
	}

	return q.Info(ctx, "execution_root")
}

// Root returns override when set, otherwise `bazel info workspace`.
func Root(ctx context.Context, override string, q InfoQuerier) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	return q.Info(ctx, "workspace")
}
