package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/log"
	"github.com/anvilbuild/anvil/internal/pipeline"
	"github.com/anvilbuild/anvil/internal/task"
	"github.com/anvilbuild/anvil/internal/ux"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the tasks the workspace can run",
	RunE:  runTasks,
}

func runTasks(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	manifest, root, err := resolveWorkspace(cmdCtx.Manifest)
	if err != nil {
		return err
	}

	registry := task.NewRegistry()
	p := pipeline.New(manifest, root, log.DefaultLogger())
	if err := p.Register(registry); err != nil {
		return err
	}
	if err := registry.Finalize(); err != nil {
		return err
	}

	view := ux.TaskList{}
	for _, t := range registry.Tasks() {
		view.Tasks = append(view.Tasks, ux.TaskRow{
			Name:        t.Name,
			Description: t.Description,
			Deps:        t.Deps,
			Default:     t.Name == registry.Default(),
		})
	}

	formatter, err := cmdCtx.Formatter(cmd)
	if err != nil {
		return err
	}
	return formatter.Format(view)
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
