package exitcode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	anverrors "github.com/anvilbuild/anvil/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"TaskFailure", TaskFailure, 3},
		{"ManifestInvalid", ManifestInvalid, 4},
		{"ToolMissing", ToolMissing, 5},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "unknown task is a usage error",
			err:      anverrors.NewTaskUnknownError("dploy", []string{"build", "deploy"}),
			expected: UsageError,
		},
		{
			name:     "missing tool",
			err:      anverrors.NewToolNotFoundError("cover", "gocover-cobertura", "ANVIL_TOOL_COVER"),
			expected: ToolMissing,
		},
		{
			name:     "failed tool invocation",
			err:      anverrors.NewToolFailedError("go", "core", "build", errors.New("exit status 2")),
			expected: TaskFailure,
		},
		{
			name:     "task cycle",
			err:      anverrors.NewTaskCycleError([]string{"build", "pack", "build"}),
			expected: TaskFailure,
		},
		{
			name:     "manifest not found",
			err:      anverrors.NewManifestNotFoundError("anvil.yaml"),
			expected: ManifestInvalid,
		},
		{
			name:     "manifest invalid",
			err:      anverrors.NewManifestInvalidError("duplicate project name: core"),
			expected: ManifestInvalid,
		},
		{
			name:     "wrapped anvil error",
			err:      fmt.Errorf("run aborted: %w", anverrors.NewToolNotFoundError("tar", "tar", "ANVIL_TOOL_TAR")),
			expected: ToolMissing,
		},
		{
			name:     "history errors stay general",
			err:      anverrors.New(anverrors.ErrCodeHistoryOpen, "cannot open ledger"),
			expected: GeneralError,
		},
		{
			name:     "context cancellation",
			err:      context.Canceled,
			expected: Interrupted,
		},
		{
			name:     "usage error - unknown command",
			err:      errors.New("unknown command \"dploy\" for \"anvil\""),
			expected: UsageError,
		},
		{
			name:     "usage error - unknown flag",
			err:      errors.New("unknown flag: --manifset"),
			expected: UsageError,
		},
		{
			name:     "usage error - required flag",
			err:      errors.New("required flag(s) \"name\" not set"),
			expected: UsageError,
		},
		{
			name:     "usage error - invalid argument",
			err:      errors.New("invalid argument \"x\" for \"--limit\" flag"),
			expected: UsageError,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := DetermineExitCode(tt.err)
			if code != tt.expected {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, code, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags or arguments)"},
		{TaskFailure, "Task failed"},
		{ManifestInvalid, "Workspace manifest invalid"},
		{ToolMissing, "Required tool missing"},
		{Interrupted, "Interrupted"},
		{99, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := GetExitCodeDescription(tt.code)
			if result != tt.expected {
				t.Errorf("GetExitCodeDescription(%d) = %s, want %s", tt.code, result, tt.expected)
			}
		})
	}
}
