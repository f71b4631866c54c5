package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/anvilbuild/anvil/internal/ux"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// InitAnswers holds the values collected by the init form
type InitAnswers struct {
	Workspace       string
	Version         string
	ArtifactDir     string
	AddProject      bool
	ProjectName     string
	ProjectPath     string
	ProjectCategory string
}

// RunInitForm collects workspace settings interactively. Fields are
// pre-filled from defaults; the project form only runs when the user
// opts in.
func RunInitForm(defaults InitAnswers) (InitAnswers, error) {
	answers := defaults

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Workspace name").
			Placeholder("my-workspace").
			Value(&answers.Workspace).
			Validate(validateRequired("workspace name")),
		huh.NewInput().
			Title("Artifact version").
			Description("Stamped into packed archive names").
			Value(&answers.Version),
		huh.NewInput().
			Title("Artifact directory").
			Description("Where packed archives land, relative to the workspace root").
			Value(&answers.ArtifactDir),
		huh.NewConfirm().
			Title("Add a first project?").
			Affirmative("Yes").
			Negative("No").
			Value(&answers.AddProject),
	))

	if err := form.Run(); err != nil {
		return defaults, fmt.Errorf("init form: %w", err)
	}

	if !answers.AddProject {
		return answers, nil
	}

	categoryOptions := make([]huh.Option[string], len(workspace.KnownCategories))
	for i, c := range workspace.KnownCategories {
		categoryOptions[i] = huh.NewOption(string(c), string(c))
	}

	project := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Project name").
			Placeholder("api").
			Value(&answers.ProjectName).
			Validate(validateRequired("project name")),
		huh.NewInput().
			Title("Project path").
			Description("Directory relative to the workspace root").
			Value(&answers.ProjectPath).
			Validate(validateRequired("project path")),
		huh.NewSelect[string]().
			Title("Project category").
			Options(categoryOptions...).
			Value(&answers.ProjectCategory),
	))

	if err := project.Run(); err != nil {
		return defaults, fmt.Errorf("init form: %w", err)
	}

	return answers, nil
}

// validateRequired rejects blank input
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown. Prompts are
// disabled in CI environments and when stdin is not a terminal.
func ShouldPrompt() bool {
	if ux.IsCI() {
		return false
	}
	return IsInteractive()
}
