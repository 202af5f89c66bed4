// Package bazel invokes the Bazel build tool as a subprocess.
//
// The Runner interface is the only thing the rest of the tool knows about the
// build system: build some targets, or ask for an info value. Client is the
// real implementation; tests substitute a fake.
package bazel

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ctagard/bazel-debug-config/internal/config"
	"github.com/ctagard/bazel-debug-config/internal/errors"
	"github.com/ctagard/bazel-debug-config/internal/shellwords"
	"github.com/ctagard/bazel-debug-config/internal/workspace"
)

// Well-known `bazel info` keys.
const (
	InfoWorkspace     = "workspace"
	InfoExecutionRoot = "execution_root"
	InfoBazelBin      = "bazel-bin"
)

// DebugCompilationMode are the options selecting a debug build.
var DebugCompilationMode = []string{"-c", "dbg"}

// Runner runs build-system operations.
type Runner interface {
	// Build builds the targets with debug information. A non-zero exit of
	// the build tool is returned as an error.
	Build(ctx context.Context, targets ...string) error

	// Info returns the trimmed value of `bazel info <key>`.
	Info(ctx context.Context, key string, extra ...string) (string, error)
}

// Client runs bazel via os/exec.
type Client struct {
	bazelPath      string
	startupOptions []string
	buildOptions   []string

	// Stdout and Stderr receive the build tool's own output.
	Stdout io.Writer
	Stderr io.Writer

	log logrus.FieldLogger
}

// NewClient creates a client from the tool configuration
func NewClient(cfg *config.Config, log logrus.FieldLogger) *Client {
	path := cfg.BazelPath
	if path == "" {
		path = "bazel"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		bazelPath:      path,
		startupOptions: cfg.StartupOptions,
		buildOptions:   cfg.BuildOptions,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		log:            log,
	}
}

// command assembles `<bazel> <startup...> <verb> <head...> <build options...> <tail...>`.
func (c *Client) command(ctx context.Context, verb string, head, tail []string) *exec.Cmd {
	args := make([]string, 0, len(c.startupOptions)+1+len(head)+len(c.buildOptions)+len(tail))
	args = append(args, c.startupOptions...)
	args = append(args, verb)
	args = append(args, head...)
	args = append(args, c.buildOptions...)
	args = append(args, tail...)

	//nolint:gosec // G204: running the build tool is the point of this package
	cmd := exec.CommandContext(ctx, c.bazelPath, args...)
	c.log.Debugf("running %s", shellwords.Join(append([]string{c.bazelPath}, args...)))
	return cmd
}

// Build runs `bazel build -c dbg` on the targets
func (c *Client) Build(ctx context.Context, targets ...string) error {
	cmd := c.command(ctx, "build", DebugCompilationMode, targets)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		return errors.BuildFailed(targets, exitCode(err), err)
	}
	return nil
}

// Info runs `bazel info <key>` and returns its trimmed output
func (c *Client) Info(ctx context.Context, key string, extra ...string) (string, error) {
	cmd := c.command(ctx, "info", []string{key}, extra)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		return "", errors.InfoFailed(key, exitCode(err), err)
	}

	value := strings.TrimSpace(stdout.String())
	c.log.WithField("key", key).Debugf("bazel info: %s", value)
	return value, nil
}

// BuildWithDebugInfo builds target together with its .dwp debug package and
// returns the path of the produced binary under the debug bazel-bin.
func BuildWithDebugInfo(ctx context.Context, r Runner, target string) (string, error) {
	if len(workspace.LabelSegments(target)) == 0 {
		return "", errors.InvalidTarget(target)
	}

	if err := r.Build(ctx, target, target+".dwp"); err != nil {
		return "", err
	}

	bazelBin, err := r.Info(ctx, InfoBazelBin, DebugCompilationMode...)
	if err != nil {
		return "", err
	}

	return workspace.BinaryPath(bazelBin, target), nil
}

// exitCode extracts the exit status of a finished process, or 0 when the
// process never ran.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 0
}
