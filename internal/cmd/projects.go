package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/ux"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List workspace projects and the stages they take part in",
	RunE:  runProjects,
}

func runProjects(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	manifest, _, err := resolveWorkspace(cmdCtx.Manifest)
	if err != nil {
		return err
	}

	view := ux.ProjectList{Workspace: manifest.Workspace}
	for i := range manifest.Projects {
		p := &manifest.Projects[i]
		view.Projects = append(view.Projects, ux.ProjectRow{
			Name:     p.Name,
			Path:     p.Path,
			Category: string(p.Category),
			Stages:   manifest.StagesFor(p),
		})
	}

	formatter, err := cmdCtx.Formatter(cmd)
	if err != nil {
		return err
	}
	return formatter.Format(view)
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
