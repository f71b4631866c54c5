package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/log"
	"github.com/anvilbuild/anvil/internal/pipeline"
	"github.com/anvilbuild/anvil/internal/task"
	"github.com/anvilbuild/anvil/internal/ux"
)

var graphCmd = &cobra.Command{
	Use:   "graph [task...]",
	Short: "Show the execution order for tasks",
	Long: `Graph resolves the same plan 'anvil run' would execute and prints it
in order, without running anything. Without arguments it plans the
manifest's default task.`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
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

	plan, err := registry.Plan(args...)
	if err != nil {
		return err
	}

	formatter, err := cmdCtx.Formatter(cmd)
	if err != nil {
		return err
	}
	return formatter.Format(ux.GraphView{
		Targets: plan.Targets,
		Order:   plan.Names(),
	})
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
