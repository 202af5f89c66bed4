// Package generator ties the pieces together: it resolves the workspace,
// builds the target with debug information and merges the launch entry into
// the workspace's launch.json.
package generator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ctagard/bazel-debug-config/internal/adapters"
	"github.com/ctagard/bazel-debug-config/internal/bazel"
	"github.com/ctagard/bazel-debug-config/internal/errors"
	"github.com/ctagard/bazel-debug-config/internal/launchconfig"
	"github.com/ctagard/bazel-debug-config/internal/shellwords"
	"github.com/ctagard/bazel-debug-config/internal/workspace"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

// Generator produces launch entries for Bazel targets.
type Generator struct {
	runner   bazel.Runner
	registry *adapters.Registry
	log      logrus.FieldLogger
}

// New creates a generator. A nil registry means adapters.NewRegistry() and a
// nil logger the logrus standard logger.
func New(runner bazel.Runner, registry *adapters.Registry, log logrus.FieldLogger) *Generator {
	if registry == nil {
		registry = adapters.NewRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Generator{
		runner:   runner,
		registry: registry,
		log:      log,
	}
}

// Run builds req.Target and writes its launch entry. launch.json is not
// touched unless the build succeeds.
func (g *Generator) Run(ctx context.Context, req types.GenerateRequest) (*types.GenerateResult, error) {
	if req.Target == "" {
		return nil, errors.MissingParameter("target", "Pass the label of the binary to debug, e.g. //source/exe:envoy-static.")
	}

	args, err := shellwords.Split(req.Args)
	if err != nil {
		return nil, errors.InvalidParameter("args", req.Args, "shell-quoted arguments for the debugged binary").WithCause(err)
	}

	debugger, err := g.registry.Get(types.ParseDebuggerKind(string(req.Debugger)))
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Root(ctx, req.Workspace, g.runner)
	if err != nil {
		return nil, err
	}
	log := g.log.WithFields(logrus.Fields{
		"target":    req.Target,
		"debugger":  debugger.Kind(),
		"workspace": ws,
	})

	execRoot, err := workspace.ExecutionRoot(ctx, ws, g.runner, log)
	if err != nil {
		return nil, err
	}

	log.Info("building with debug information")
	program, err := bazel.BuildWithDebugInfo(ctx, g.runner, req.Target)
	if err != nil {
		return nil, err
	}

	entry, err := debugger.BuildEntry(adapters.Params{
		Target:        req.Target,
		Program:       program,
		Workspace:     ws,
		ExecutionRoot: execRoot,
		Args:          args,
	})
	if err != nil {
		return nil, err
	}

	launchPath := launchconfig.LaunchPath(ws)
	lj, loadErr := launchconfig.LoadOrDefault(launchPath)
	if loadErr != nil {
		log.WithError(loadErr).Debug("starting from an empty launch.json")
	}

	merged := launchconfig.Merge(lj, entry, debugger.RefreshFields(), req.Overwrite)
	if merged.Action == launchconfig.ActionRefreshed {
		log.Warnf("config %q exists, only %v were updated; use --overwrite to recreate it", merged.Name, merged.Fields)
	}

	result := &types.GenerateResult{
		Workspace:     ws,
		ExecutionRoot: execRoot,
		Program:       program,
		LaunchPath:    launchPath,
		EntryName:     merged.Name,
		Action:        string(merged.Action),
		Fields:        merged.Fields,
	}

	if req.DryRun {
		rendered, err := launchconfig.Render(lj)
		if err != nil {
			return nil, err
		}
		result.Rendered = string(rendered)
		return result, nil
	}

	backup, err := launchconfig.Save(launchPath, lj)
	if err != nil {
		return nil, errors.WriteFailed(launchPath, err)
	}
	result.BackupPath = backup

	log.WithField("action", merged.Action).Infof("wrote %s", launchPath)
	return result, nil
}

// Listing summarises an existing launch.json.
type Listing struct {
	LaunchPath     string                           `json:"launchPath"`
	Configurations []launchconfig.ConfigurationInfo `json:"configurations"`
	Warnings       []string                         `json:"validationWarnings,omitempty"`
}

// List reads the launch.json of workspaceDir, or discovers one from the
// current directory when workspaceDir is empty.
func List(workspaceDir string) (*Listing, error) {
	path, lj, err := load(workspaceDir)
	if err != nil {
		return nil, err
	}

	listing := &Listing{
		LaunchPath:     path,
		Configurations: launchconfig.ListConfigurations(lj),
	}
	folder := launchconfig.GetWorkspaceFolder(path)
	for i, c := range listing.Configurations {
		if resolved := launchconfig.ExpandVariables(c.Program, folder); resolved != c.Program {
			listing.Configurations[i].ResolvedProgram = resolved
		}
	}
	for _, e := range launchconfig.ValidateLaunchJSON(lj) {
		listing.Warnings = append(listing.Warnings, e.Error())
	}
	return listing, nil
}

// Show returns the entry called name from the launch.json of workspaceDir.
func Show(workspaceDir, name string) (*launchconfig.DebugConfiguration, error) {
	path, lj, err := load(workspaceDir)
	if err != nil {
		return nil, err
	}
	cfg, err := launchconfig.FindConfiguration(lj, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func load(workspaceDir string) (string, *launchconfig.LaunchJSON, error) {
	var path string
	if workspaceDir != "" {
		path = launchconfig.LaunchPath(workspaceDir)
	} else {
		found, err := launchconfig.Discover("")
		if err != nil {
			return "", nil, errors.Wrap(errors.CodeLaunchJSONUnreadable,
				"no .vscode/launch.json found above the current directory",
				"Pass --workspace, or generate an entry first with bazel-debug-config <target>.", err)
		}
		path = found
	}

	lj, err := launchconfig.LoadFromPath(path)
	if err != nil {
		return "", nil, errors.Wrap(errors.CodeLaunchJSONUnreadable,
			fmt.Sprintf("cannot read %s: %v", path, err),
			"Generate an entry first with bazel-debug-config <target>; a broken file is replaced and kept as launch.json.bak.", err).
			WithDetails("path", path)
	}
	return path, lj, nil
}
