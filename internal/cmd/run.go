package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/history"
	"github.com/anvilbuild/anvil/internal/log"
	"github.com/anvilbuild/anvil/internal/pipeline"
	"github.com/anvilbuild/anvil/internal/task"
	"github.com/anvilbuild/anvil/internal/ux"
	"github.com/anvilbuild/anvil/internal/workspace"
)

var runCmd = &cobra.Command{
	Use:   "run [task...]",
	Short: "Run tasks and their dependencies",
	Long: `Run executes the named tasks after everything they depend on, each
task at most once, in dependency order. Without arguments the manifest's
default task runs. The first failure stops the run; tasks still queued
are reported as skipped.`,
	Example: `  anvil run            # run the default task
  anvil run test       # restore, build, then test
  anvil run ci --yes   # full pipeline without the publish prompt
  anvil run build --only --dry-run`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	only, err := cmd.Flags().GetBool("only")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	manifest, root, err := resolveWorkspace(cmdCtx.Manifest)
	if err != nil {
		return err
	}
	fingerprint, err := workspace.Fingerprint(manifest)
	if err != nil {
		return err
	}

	logger := log.DefaultLogger().With("workspace", manifest.Workspace)

	p := pipeline.New(manifest, root, logger)
	p.Yes = yes

	registry := task.NewRegistry()
	if err := p.Register(registry); err != nil {
		return err
	}
	if err := registry.Finalize(); err != nil {
		return err
	}

	var plan *task.Plan
	if only {
		plan, err = registry.PlanOnly(args...)
	} else {
		plan, err = registry.Plan(args...)
	}
	if err != nil {
		return err
	}

	executor := &task.Executor{
		Registry:    registry,
		Logger:      logger,
		Out:         cmd.OutOrStdout(),
		DryRun:      dryRun,
		Quiet:       cmdCtx.Quiet || !cmdCtx.TextOutput(),
		Workspace:   manifest.Workspace,
		Fingerprint: fingerprint,
	}

	report, runErr := executor.Execute(cmd.Context(), plan)
	report.Artifacts = p.Artifacts()

	// Dry runs leave no trace on disk. Interrupted runs are still
	// recorded, so persistence ignores the command's cancellation.
	if !dryRun {
		persistRun(context.WithoutCancel(cmd.Context()), logger, root, report)
	}

	formatter, err := cmdCtx.Formatter(cmd)
	if err != nil {
		return err
	}
	summary := ux.RunSummary{
		RunID:    report.RunID,
		Total:    report.TotalTasks,
		Success:  report.SuccessTasks,
		Failed:   report.FailedTasks,
		Skipped:  report.SkippedTasks,
		Duration: report.Duration().Round(time.Millisecond).String(),
		DryRun:   report.DryRun,
		Only:     report.Only,
	}
	if report.Err != nil {
		summary.Failure = report.Err.Error()
	}
	if err := formatter.Format(summary); err != nil {
		return err
	}

	return runErr
}

// persistRun saves the run manifest and the history row. Persistence
// problems must not change the run's outcome, so both are warn-only.
func persistRun(ctx context.Context, logger *log.Logger, root string, report *task.Report) {
	runsDir, err := workspace.RunsDir(root)
	if err != nil {
		logger.Warn("run manifest not saved", "error", err)
	} else if path, err := task.SaveRunManifest(task.BuildRunManifest(report), runsDir); err != nil {
		logger.Warn("run manifest not saved", "error", err)
	} else {
		logger.Debug("run manifest saved", "path", path)
	}

	stateDir, err := workspace.StateDir(root)
	if err != nil {
		logger.Warn("run not recorded in history", "error", err)
		return
	}
	db, err := history.Open(ctx, stateDir)
	if err != nil {
		logger.Warn("run not recorded in history", "error", err)
		return
	}
	defer db.Close()
	if err := history.RecordRun(ctx, db, report); err != nil {
		logger.Warn("run not recorded in history", "error", err)
	}
}

func init() {
	runCmd.Flags().Bool("only", false, "Run only the named tasks, skipping their dependencies")
	runCmd.Flags().Bool("dry-run", false, "Show what each planned task would do without running it")
	runCmd.Flags().BoolP("yes", "y", false, "Skip the publish confirmation prompt")
	rootCmd.AddCommand(runCmd)
}
