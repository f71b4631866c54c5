package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Task errors (TASK-001 to TASK-099)
	ErrCodeTaskUnknown      ErrorCode = "TASK-001"
	ErrCodeTaskDuplicate    ErrorCode = "TASK-002"
	ErrCodeTaskEmptyName    ErrorCode = "TASK-003"
	ErrCodeTaskNilAction    ErrorCode = "TASK-004"
	ErrCodeTaskMissingDep   ErrorCode = "TASK-005"
	ErrCodeTaskCyclicDep    ErrorCode = "TASK-006"
	ErrCodeTaskFailed       ErrorCode = "TASK-007"
	ErrCodeTaskRegistrySeal ErrorCode = "TASK-008"

	// Workspace errors (WORKSPACE-001 to WORKSPACE-099)
	ErrCodeManifestNotFound   ErrorCode = "WORKSPACE-001"
	ErrCodeManifestInvalid    ErrorCode = "WORKSPACE-002"
	ErrCodeManifestUnmarshal  ErrorCode = "WORKSPACE-003"
	ErrCodeManifestMarshal    ErrorCode = "WORKSPACE-004"
	ErrCodeProjectDuplicate   ErrorCode = "WORKSPACE-005"
	ErrCodeProjectBadCategory ErrorCode = "WORKSPACE-006"
	ErrCodeProjectBadPath     ErrorCode = "WORKSPACE-007"

	// Toolchain errors (TOOL-001 to TOOL-099)
	ErrCodeToolNotFound         ErrorCode = "TOOL-001"
	ErrCodeToolFailed           ErrorCode = "TOOL-002"
	ErrCodePublishNotConfigured ErrorCode = "TOOL-003"
	ErrCodeSigningFailed        ErrorCode = "TOOL-004"

	// History errors (HISTORY-001 to HISTORY-099)
	ErrCodeHistoryOpen   ErrorCode = "HISTORY-001"
	ErrCodeHistoryRecord ErrorCode = "HISTORY-002"
	ErrCodeHistoryQuery  ErrorCode = "HISTORY-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
)

// AnvilError represents an enhanced error with code, suggestions, and documentation
type AnvilError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *AnvilError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AnvilError) Unwrap() error {
	return e.Cause
}

// New creates a new AnvilError
func New(code ErrorCode, message string) *AnvilError {
	return &AnvilError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AnvilError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *AnvilError {
	return &AnvilError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *AnvilError) WithSuggestion(suggestion string) *AnvilError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *AnvilError) WithSuggestions(suggestions ...string) *AnvilError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *AnvilError) WithDocs(url string) *AnvilError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewTaskUnknownError creates an unknown task error
func NewTaskUnknownError(name string, known []string) *AnvilError {
	return New(ErrCodeTaskUnknown, fmt.Sprintf("unknown task: %s", name)).
		WithSuggestion("Run 'anvil tasks' to list registered tasks").
		WithSuggestion(fmt.Sprintf("Available tasks: %s", strings.Join(known, ", ")))
}

// NewTaskCycleError creates a cyclic dependency error with the offending path
func NewTaskCycleError(path []string) *AnvilError {
	return New(ErrCodeTaskCyclicDep, fmt.Sprintf("cyclic task dependency: %s", strings.Join(path, " -> "))).
		WithSuggestion("Break the cycle by removing one of the dependencies above")
}

// NewTaskMissingDepError creates a missing dependency error
func NewTaskMissingDepError(task, dep string) *AnvilError {
	return New(ErrCodeTaskMissingDep, fmt.Sprintf("task %q depends on unregistered task %q", task, dep)).
		WithSuggestion("Register the missing task or remove the dependency")
}

// NewManifestNotFoundError creates a workspace manifest not found error
func NewManifestNotFoundError(path string) *AnvilError {
	return New(ErrCodeManifestNotFound, fmt.Sprintf("workspace manifest not found: %s", path)).
		WithSuggestion("Run 'anvil init' to scaffold a new workspace manifest").
		WithSuggestion("Use --manifest to point at a manifest in another directory").
		WithDocs("https://github.com/anvilbuild/anvil#workspace-manifest")
}

// NewManifestInvalidError creates a manifest validation error
func NewManifestInvalidError(details string) *AnvilError {
	return New(ErrCodeManifestInvalid, fmt.Sprintf("invalid workspace manifest: %s", details)).
		WithSuggestion("Check the manifest against the documented schema").
		WithDocs("https://github.com/anvilbuild/anvil#workspace-manifest")
}

// NewToolNotFoundError creates a tool lookup error naming the env override
func NewToolNotFoundError(tool, executable, envVar string) *AnvilError {
	return New(ErrCodeToolNotFound, fmt.Sprintf("%s tool not found: %s", tool, executable)).
		WithSuggestion(fmt.Sprintf("Install %s and make sure it is on PATH", executable)).
		WithSuggestion(fmt.Sprintf("Set %s to the full path of the executable", envVar)).
		WithSuggestion("Run 'anvil doctor' to check all configured tools")
}

// NewToolFailedError wraps a non-zero tool invocation
func NewToolFailedError(tool, project, stage string, cause error) *AnvilError {
	return Wrap(ErrCodeToolFailed, fmt.Sprintf("%s failed for project %s (stage %s)", tool, project, stage), cause)
}

// NewPublishNotConfiguredError creates a missing publish command error
func NewPublishNotConfiguredError() *AnvilError {
	return New(ErrCodePublishNotConfigured, "no publish command configured for this workspace").
		WithSuggestion("Add a command list under 'publish:' in anvil.yaml").
		WithDocs("https://github.com/anvilbuild/anvil#publishing")
}

// NewSigningFailedError wraps a checksum signing failure
func NewSigningFailedError(keyPath string, cause error) *AnvilError {
	return Wrap(ErrCodeSigningFailed, fmt.Sprintf("signing with key %s failed", keyPath), cause).
		WithSuggestion("Check that publish.signing_key points at a readable SSH private key")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *AnvilError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *AnvilError {
	return Wrap(ErrCodeManifestUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
