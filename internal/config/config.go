// Package config provides configuration management for bazel-debug-config.
//
// Configuration controls:
//   - Which bazel binary is invoked and with which startup and build options
//   - The default debugger kind used when --debugger is not given
//
// Values are layered: built-in defaults, then an optional JSON file, then the
// BAZEL_STARTUP_OPTION_LIST and BAZEL_BUILD_OPTION_LIST environment variables,
// and finally command-line flags applied by the caller.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ctagard/bazel-debug-config/internal/shellwords"
)

const (
	// EnvBuildOptions holds extra options appended to every bazel command.
	EnvBuildOptions = "BAZEL_BUILD_OPTION_LIST"
	// EnvStartupOptions holds options inserted right after the bazel binary.
	EnvStartupOptions = "BAZEL_STARTUP_OPTION_LIST"

	// DefaultDebugger is used when neither the file nor the flags pick one.
	DefaultDebugger = "gdb"
)

// Config holds the tool configuration
type Config struct {
	// Path or name of the bazel executable
	BazelPath string `json:"bazelPath"`

	// Debugger kind: "gdb" or "lldb"
	Debugger string `json:"debugger"`

	// Options passed to bazel
	StartupOptions []string `json:"startupOptions"`
	BuildOptions   []string `json:"buildOptions"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BazelPath:      "bazel",
		Debugger:       DefaultDebugger,
		StartupOptions: []string{},
		BuildOptions:   []string{},
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv appends the options found in the environment to the configuration.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if raw, ok := lookup(EnvStartupOptions); ok {
		opts, err := shellwords.Split(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStartupOptions, err)
		}
		c.StartupOptions = append(c.StartupOptions, opts...)
	}

	if raw, ok := lookup(EnvBuildOptions); ok {
		opts, err := shellwords.Split(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBuildOptions, err)
		}
		c.BuildOptions = append(c.BuildOptions, opts...)
	}

	return nil
}

// Load is LoadConfig followed by ApplyEnv against the process environment.
func Load(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}
