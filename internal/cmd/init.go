package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/tui"
	"github.com/anvilbuild/anvil/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an anvil.yaml in the current directory",
	Long: `Init scaffolds a workspace manifest. On a terminal it walks through a
short form; with --defaults, in CI, or when stdin is piped it writes a
minimal manifest named after the current directory.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	useDefaults, err := cmd.Flags().GetBool("defaults")
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	path := filepath.Join(cwd, workspace.DefaultManifestName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", workspace.DefaultManifestName)
	}

	answers := tui.InitAnswers{
		Workspace:       filepath.Base(cwd),
		Version:         "0.1.0",
		ArtifactDir:     "artifacts",
		ProjectCategory: string(workspace.CategoryApp),
	}
	if !useDefaults && tui.ShouldPrompt() {
		answers, err = tui.RunInitForm(answers)
		if err != nil {
			return err
		}
	}

	manifest := buildManifest(answers)
	if answers.AddProject {
		if err := os.MkdirAll(filepath.Join(cwd, answers.ProjectPath), 0o755); err != nil {
			return err
		}
	}
	if err := workspace.SaveManifest(manifest, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", workspace.DefaultManifestName)
	return nil
}

// buildManifest turns form answers into a manifest. Unset fields get
// their defaults applied on the next load.
func buildManifest(answers tui.InitAnswers) *workspace.Manifest {
	m := &workspace.Manifest{
		Workspace: answers.Workspace,
		Artifacts: workspace.Artifacts{
			Dir:     answers.ArtifactDir,
			Version: answers.Version,
		},
	}
	if answers.AddProject {
		m.Projects = append(m.Projects, workspace.Project{
			Name:     answers.ProjectName,
			Path:     answers.ProjectPath,
			Category: workspace.Category(answers.ProjectCategory),
		})
	}
	return m
}

func init() {
	initCmd.Flags().Bool("defaults", false, "Write a minimal manifest without prompting")
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing manifest")
	rootCmd.AddCommand(initCmd)
}
