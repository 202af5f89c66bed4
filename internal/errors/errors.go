// Package errors provides structured error types for bazel-debug-config.
// Each error carries a machine-readable code and a hint telling the user how
// to get unstuck, and build failures remember the exit status of bazel.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of error for programmatic handling
type ErrorCode string

const (
	// Build system errors
	CodeBuildFailed ErrorCode = "BUILD_FAILED"
	CodeInfoFailed  ErrorCode = "INFO_FAILED"

	// Parameter errors
	CodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	CodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
	CodeInvalidTarget    ErrorCode = "INVALID_TARGET"

	// Configuration errors
	CodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	CodeWriteFailed   ErrorCode = "WRITE_FAILED"

	// launch.json errors
	CodeLaunchJSONUnreadable ErrorCode = "LAUNCH_JSON_UNREADABLE"
)

// DebugError is a structured error type that includes a hint on how to fix it.
type DebugError struct {
	// Code is a machine-readable error category
	Code ErrorCode `json:"code"`

	// Message describes what went wrong
	Message string `json:"message"`

	// Hint provides actionable guidance on how to fix the error
	Hint string `json:"hint,omitempty"`

	// ExitCode is the status the process should exit with, 0 meaning unset
	ExitCode int `json:"exitCode,omitempty"`

	// Details contains additional context (e.g., the invalid value, expected format)
	Details map[string]interface{} `json:"details,omitempty"`

	// Cause is the underlying error, if any
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *DebugError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Hint != "" {
		sb.WriteString(" | Hint: ")
		sb.WriteString(e.Hint)
	}

	return sb.String()
}

// Unwrap returns the underlying error for error chaining
func (e *DebugError) Unwrap() error {
	return e.Cause
}

// WithDetails adds details to the error
func (e *DebugError) WithDetails(key string, value interface{}) *DebugError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *DebugError) WithCause(err error) *DebugError {
	e.Cause = err
	return e
}

// --- Build System Errors ---

// BuildFailed creates an error for a bazel build that exited non-zero.
func BuildFailed(targets []string, exitCode int, err error) *DebugError {
	return &DebugError{
		Code:     CodeBuildFailed,
		Message:  fmt.Sprintf("bazel build of %s failed: %v", strings.Join(targets, " "), err),
		Hint:     "Fix the build errors reported above; launch.json was left untouched. Extra flags can be passed via BAZEL_BUILD_OPTION_LIST.",
		ExitCode: exitCode,
		Cause:    err,
		Details: map[string]interface{}{
			"targets": targets,
		},
	}
}

// InfoFailed creates an error for a failed bazel info query.
func InfoFailed(key string, exitCode int, err error) *DebugError {
	return &DebugError{
		Code:     CodeInfoFailed,
		Message:  fmt.Sprintf("bazel info %s failed: %v", key, err),
		Hint:     "Run the tool from inside a Bazel workspace and check that bazel is on PATH (or set bazelPath in the config file).",
		ExitCode: exitCode,
		Cause:    err,
		Details: map[string]interface{}{
			"key": key,
		},
	}
}

// --- Parameter Errors ---

// MissingParameter creates an error for missing required parameters
func MissingParameter(paramName, description string) *DebugError {
	return &DebugError{
		Code:    CodeMissingParameter,
		Message: fmt.Sprintf("required parameter '%s' is missing", paramName),
		Hint:    description,
		Details: map[string]interface{}{
			"parameter": paramName,
		},
	}
}

// InvalidParameter creates an error for invalid parameter values
func InvalidParameter(paramName string, value interface{}, expected string) *DebugError {
	return &DebugError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("invalid value for parameter '%s': %v", paramName, value),
		Hint:    fmt.Sprintf("Expected: %s", expected),
		Details: map[string]interface{}{
			"parameter": paramName,
			"value":     value,
			"expected":  expected,
		},
	}
}

// InvalidTarget creates an error for a target label that names no binary.
func InvalidTarget(target string) *DebugError {
	return &DebugError{
		Code:    CodeInvalidTarget,
		Message: fmt.Sprintf("target %q does not name a binary", target),
		Hint:    "Pass a full label such as //source/exe:envoy-static or @repo//pkg:bin.",
		Details: map[string]interface{}{
			"target": target,
		},
	}
}

// --- Configuration Errors ---

// ConfigInvalid creates an error for an unreadable tool configuration file.
func ConfigInvalid(path string, err error) *DebugError {
	return &DebugError{
		Code:    CodeConfigInvalid,
		Message: fmt.Sprintf("configuration file %s is invalid: %v", path, err),
		Hint:    "Check the file for JSON syntax errors, or drop --config to use the defaults.",
		Cause:   err,
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// WriteFailed creates an error for a launch.json that could not be written.
func WriteFailed(path string, err error) *DebugError {
	return &DebugError{
		Code:    CodeWriteFailed,
		Message: fmt.Sprintf("failed to write %s: %v", path, err),
		Hint:    "Check that the .vscode directory is writable. A previous launch.json, if any, is kept as launch.json.bak.",
		Cause:   err,
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// --- Helper for wrapping generic errors ---

// Wrap wraps a generic error with context
func Wrap(code ErrorCode, message string, hint string, err error) *DebugError {
	return &DebugError{
		Code:    code,
		Message: message,
		Hint:    hint,
		Cause:   err,
	}
}

// FromError creates a DebugError from a generic error, attempting to preserve any existing structure
func FromError(err error) *DebugError {
	var de *DebugError
	if stderrors.As(err, &de) {
		return de
	}
	return &DebugError{
		Code:    "UNKNOWN_ERROR",
		Message: err.Error(),
		Hint:    "An unexpected error occurred. Please check the error message for details.",
		Cause:   err,
	}
}

// ExitCode returns the process exit status for err: 0 for nil, the recorded
// status of a failed bazel invocation, and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var de *DebugError
	if stderrors.As(err, &de) && de.ExitCode > 0 {
		return de.ExitCode
	}
	return 1
}
