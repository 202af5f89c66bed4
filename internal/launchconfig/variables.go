package launchconfig

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Variable pattern matches ${...} expressions
var variablePattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandVariables replaces the editor variables that can be known outside the
// editor: ${workspaceFolder}, ${workspaceFolderBasename}, ${userHome},
// ${pathSeparator} and ${env:NAME}. Anything else is left as written.
func ExpandVariables(text, workspaceFolder string) string {
	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		expr := match[2 : len(match)-1]
		if v, ok := resolveVariable(expr, workspaceFolder); ok {
			return v
		}
		return match
	})
}

func resolveVariable(expr, workspaceFolder string) (string, bool) {
	switch {
	case expr == "workspaceFolder":
		return workspaceFolder, workspaceFolder != ""

	case expr == "workspaceFolderBasename":
		return filepath.Base(workspaceFolder), workspaceFolder != ""

	case expr == "userHome":
		home, err := os.UserHomeDir()
		return home, err == nil

	case expr == "pathSeparator":
		return string(os.PathSeparator), true

	case strings.HasPrefix(expr, "env:"):
		return os.Getenv(strings.TrimPrefix(expr, "env:")), true
	}
	return "", false
}
