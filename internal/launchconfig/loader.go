package launchconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// LaunchJSONFileName is the standard name for VS Code launch configuration file.
	LaunchJSONFileName = "launch.json"
	// VSCodeDirName is the VS Code configuration directory name.
	VSCodeDirName = ".vscode"
	// BackupSuffix is appended to launch.json to name the single-slot backup.
	BackupSuffix = ".bak"
)

// LaunchPath returns <workspace>/.vscode/launch.json.
func LaunchPath(workspace string) string {
	return filepath.Join(workspace, VSCodeDirName, LaunchJSONFileName)
}

// LoadFromPath loads a launch.json file from an explicit path.
func LoadFromPath(path string) (*LaunchJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read launch.json: %w", err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse launch.json: invalid JSON")
	}

	var lj LaunchJSON
	if err := json.Unmarshal(data, &lj); err != nil {
		return nil, fmt.Errorf("failed to parse launch.json: %w", err)
	}

	return &lj, nil
}

// LoadOrDefault loads path, falling back to New() when the file is missing,
// unreadable or not a usable launch.json. A missing file and a broken one are
// treated alike; the returned error only says why the default was used and is
// meant for logging.
func LoadOrDefault(path string) (*LaunchJSON, error) {
	lj, err := LoadFromPath(path)
	if err != nil {
		return New(), err
	}
	return lj, nil
}

// Discover searches for a .vscode/launch.json file starting from the given path
// and walking up the directory tree until found or reaching the root.
func Discover(startPath string) (string, error) {
	if startPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		startPath = cwd
	}

	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// If startPath is a file, start from its directory
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		absPath = filepath.Dir(absPath)
	}

	current := absPath
	for {
		launchPath := LaunchPath(current)
		if _, err := os.Stat(launchPath); err == nil {
			return launchPath, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached root
			break
		}
		current = parent
	}

	return "", fmt.Errorf("no %s/%s found in %s or parent directories", VSCodeDirName, LaunchJSONFileName, startPath)
}

// FindConfiguration finds a configuration by name in the LaunchJSON.
func FindConfiguration(lj *LaunchJSON, name string) (*DebugConfiguration, error) {
	if i, ok := indexByName(lj)[name]; ok {
		return lj.Configurations[i], nil
	}
	return nil, fmt.Errorf("configuration %q not found (available: %s)", name, strings.Join(ListConfigurationNames(lj), ", "))
}

// indexByName maps entry names to their position. The first entry wins when
// a file carries duplicates; entries without a string name are not indexed.
func indexByName(lj *LaunchJSON) map[string]int {
	index := make(map[string]int, len(lj.Configurations))
	for i, cfg := range lj.Configurations {
		if !cfg.Has("name") {
			continue
		}
		raw, _ := cfg.Raw("name")
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}

// ListConfigurationNames returns a list of all configuration names.
func ListConfigurationNames(lj *LaunchJSON) []string {
	names := make([]string, len(lj.Configurations))
	for i, cfg := range lj.Configurations {
		names[i] = cfg.Name()
	}
	return names
}

// ConfigurationInfo provides summary information about a configuration.
type ConfigurationInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Request string `json:"request"`
	Program string `json:"program,omitempty"`

	// ResolvedProgram is Program with editor variables expanded, when it has any.
	ResolvedProgram string `json:"resolvedProgram,omitempty"`
}

// ListConfigurations returns summary information about all configurations.
func ListConfigurations(lj *LaunchJSON) []ConfigurationInfo {
	infos := make([]ConfigurationInfo, len(lj.Configurations))
	for i, cfg := range lj.Configurations {
		infos[i] = ConfigurationInfo{
			Name:    cfg.Name(),
			Type:    cfg.Type(),
			Request: cfg.Request(),
			Program: cfg.Program(),
		}
	}
	return infos
}

// GetWorkspaceFolder derives the workspace folder from the launch.json path.
// The workspace folder is the parent of the .vscode directory.
func GetWorkspaceFolder(launchJSONPath string) string {
	return filepath.Dir(filepath.Dir(launchJSONPath))
}

// ValidateConfiguration performs basic validation on a configuration.
func ValidateConfiguration(cfg *DebugConfiguration) error {
	if cfg.Name() == "" {
		return fmt.Errorf("configuration name is required")
	}
	if cfg.Type() == "" {
		return fmt.Errorf("configuration type is required")
	}
	if cfg.Request() == "" {
		return fmt.Errorf("configuration request is required")
	}
	if cfg.Request() != "launch" && cfg.Request() != "attach" {
		return fmt.Errorf("configuration request must be 'launch' or 'attach', got %q", cfg.Request())
	}
	return nil
}

// ValidateLaunchJSON performs validation on the entire launch.json.
func ValidateLaunchJSON(lj *LaunchJSON) []error {
	var errors []error

	for i, cfg := range lj.Configurations {
		if err := ValidateConfiguration(cfg); err != nil {
			errors = append(errors, fmt.Errorf("configuration[%d]: %w", i, err))
		}
	}

	seen := make(map[string]bool)
	for _, cfg := range lj.Configurations {
		name := cfg.Name()
		if name == "" {
			continue
		}
		if seen[name] {
			errors = append(errors, fmt.Errorf("configuration %q is defined more than once", name))
		}
		seen[name] = true
	}

	compounds, err := lj.Compounds()
	if err != nil {
		return append(errors, err)
	}
	for i, compound := range compounds {
		if compound.Name == "" {
			errors = append(errors, fmt.Errorf("compound[%d]: name is required", i))
		}
		for _, cfgName := range compound.Configurations {
			if !seen[cfgName] {
				errors = append(errors, fmt.Errorf("compound %q references unknown configuration %q", compound.Name, cfgName))
			}
		}
	}

	return errors
}
