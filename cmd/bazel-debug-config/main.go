package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctagard/bazel-debug-config/internal/bazel"
	"github.com/ctagard/bazel-debug-config/internal/config"
	"github.com/ctagard/bazel-debug-config/internal/errors"
	"github.com/ctagard/bazel-debug-config/internal/generator"
	"github.com/ctagard/bazel-debug-config/internal/mcp"
	"github.com/ctagard/bazel-debug-config/internal/version"
	"github.com/ctagard/bazel-debug-config/pkg/types"
)

var log = logrus.New()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bazel-debug-config [flags] <target>",
		Short: "Build a Bazel target for debugging and add it to VS Code's launch.json",
		Long: `bazel-debug-config builds a Bazel target with debug information
(-c dbg plus the target's .dwp package) and writes a gdb or lldb launch
configuration for it into <workspace>/.vscode/launch.json.

An existing entry with the same name ("gdb <target>" or "lldb <target>") only
has its paths refreshed unless --overwrite is given. The previous launch.json
is kept as launch.json.bak.

ENVIRONMENT:
    BAZEL_BUILD_OPTION_LIST     Extra options for bazel build and bazel info
    BAZEL_STARTUP_OPTION_LIST   Extra bazel startup options

Both are split like a shell command line.

CONFIGURATION:
    --config points at a JSON file; environment variables add to it:

    {
        "bazelPath": "bazel",
        "debugger": "gdb",
        "startupOptions": ["--output_user_root=/tmp/bazel"],
        "buildOptions": ["--config=clang"]
    }`,
		Version:       version.String(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (JSON)")
	rootCmd.PersistentFlags().String("workspace", "", "Workspace root (default: bazel info workspace)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.Flags().String("debugger", string(types.DebuggerGDB), "Debugger to generate for: gdb or lldb")
	rootCmd.Flags().String("args", "", "Arguments for the debugged binary, shell-quoted")
	rootCmd.Flags().Bool("overwrite", false, "Recreate an existing entry instead of refreshing its paths")
	rootCmd.Flags().Bool("dry-run", false, "Print the resulting launch.json instead of writing it")

	listCmd := &cobra.Command{
		Use:   "list [name]",
		Short: "List the entries of launch.json, or print the one called name",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}
	listCmd.Flags().Bool("json", false, "Print machine-readable output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generate_debug_config and list_debug_configs as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	rootCmd.AddCommand(listCmd, serveCmd)
	return rootCmd
}

func setupLogging(cmd *cobra.Command) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

// loadConfig reads --config and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}
	log.WithFields(logrus.Fields{
		"bazel":          cfg.BazelPath,
		"startupOptions": cfg.StartupOptions,
		"buildOptions":   cfg.BuildOptions,
	}).Debug("configuration loaded")
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	debugger := cfg.Debugger
	if cmd.Flags().Changed("debugger") || debugger == "" {
		debugger, _ = cmd.Flags().GetString("debugger")
	}

	req := types.GenerateRequest{
		Target:   args[0],
		Debugger: types.ParseDebuggerKind(debugger),
	}
	req.Args, _ = cmd.Flags().GetString("args")
	req.Overwrite, _ = cmd.Flags().GetBool("overwrite")
	req.Workspace, _ = cmd.Flags().GetString("workspace")
	req.DryRun, _ = cmd.Flags().GetBool("dry-run")

	gen := generator.New(bazel.NewClient(cfg, log), nil, log)
	result, err := gen.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if req.DryRun {
		fmt.Fprint(cmd.OutOrStdout(), result.Rendered)
		return nil
	}
	if result.BackupPath != "" {
		log.Infof("previous launch.json saved as %s", result.BackupPath)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ws, _ := cmd.Flags().GetString("workspace")
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		entry, err := generator.Show(ws, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "    ")
		return enc.Encode(entry)
	}

	listing, err := generator.List(ws)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	}

	fmt.Fprintln(out, listing.LaunchPath)
	for _, c := range listing.Configurations {
		fmt.Fprintf(out, "  %-40s %-8s %-7s %s\n", c.Name, c.Type, c.Request, c.Program)
	}
	for _, w := range listing.Warnings {
		log.Warn(w)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	client := bazel.NewClient(cfg, log)
	client.Stdout = os.Stderr

	server := mcp.NewServer(cfg, generator.New(client, nil, log), log)
	if err := server.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
