package exitcode

import (
	"context"
	"errors"
	"os"
	"strings"

	anverrors "github.com/anvilbuild/anvil/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, unknown task)
	UsageError = 2

	// TaskFailure indicates a task action or external tool invocation failed
	TaskFailure = 3

	// ManifestInvalid indicates the workspace manifest could not be loaded or validated
	ManifestInvalid = 4

	// ToolMissing indicates a required external tool could not be located
	ToolMissing = 5

	// Interrupted indicates the run was cancelled before completion
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var anvilErr *anverrors.AnvilError
	if errors.As(err, &anvilErr) {
		switch {
		case anvilErr.Code == anverrors.ErrCodeTaskUnknown:
			return UsageError
		case anvilErr.Code == anverrors.ErrCodeToolNotFound:
			return ToolMissing
		case strings.HasPrefix(string(anvilErr.Code), "TASK-"):
			return TaskFailure
		case strings.HasPrefix(string(anvilErr.Code), "TOOL-"):
			return TaskFailure
		case strings.HasPrefix(string(anvilErr.Code), "WORKSPACE-"):
			return ManifestInvalid
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	// Cancellation
	if errors.Is(err, context.Canceled) || strings.Contains(errMsg, "interrupt") {
		return Interrupted
	}

	// Usage errors surfaced by cobra itself
	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case TaskFailure:
		return "Task failed"
	case ManifestInvalid:
		return "Workspace manifest invalid"
	case ToolMissing:
		return "Required tool missing"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
