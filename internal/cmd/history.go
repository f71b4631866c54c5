package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/history"
	"github.com/anvilbuild/anvil/internal/ux"
	"github.com/anvilbuild/anvil/internal/workspace"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded runs from the workspace ledger",
	Long: `History lists recent runs, newest first. With a run ID (a unique
prefix is enough) it shows that run's per-task breakdown instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	root, err := historyRoot(cmdCtx)
	if err != nil {
		return err
	}
	stateDir, err := workspace.StateDir(root)
	if err != nil {
		return err
	}

	db, err := history.Open(cmd.Context(), stateDir)
	if err != nil {
		return err
	}
	defer db.Close()

	formatter, err := cmdCtx.Formatter(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		run, err := history.FindRun(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}
		records, err := history.TaskRecordsFor(cmd.Context(), db, run.ID)
		if err != nil {
			return err
		}
		return formatter.Format(historyDetail(run, records))
	}

	runs, err := history.RecentRuns(cmd.Context(), db, limit)
	if err != nil {
		return err
	}
	view := ux.HistoryList{}
	for _, run := range runs {
		view.Runs = append(view.Runs, historyRow(run))
	}
	return formatter.Format(view)
}

// historyRoot finds the workspace root without requiring a valid
// manifest; the ledger of a workspace with a broken manifest is still
// readable
func historyRoot(cmdCtx *CommandContext) (string, error) {
	if cmdCtx.Manifest != "" {
		_, root, err := resolveWorkspace(cmdCtx.Manifest)
		return root, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return workspace.DiscoverRoot(cwd)
}

func historyRow(run *history.Run) ux.HistoryRow {
	return ux.HistoryRow{
		RunID:    run.ID,
		Started:  run.StartTime.Local().Format("2006-01-02 15:04:05"),
		Targets:  run.Targets,
		Failed:   run.Failed(),
		Tasks:    fmt.Sprintf("%d/%d", run.SuccessTasks, run.TotalTasks),
		Duration: run.Duration.Round(time.Millisecond).String(),
	}
}

func historyDetail(run *history.Run, records []*history.TaskRecord) ux.HistoryDetail {
	detail := ux.HistoryDetail{
		Run:   historyRow(run),
		Error: run.Error,
	}
	for _, rec := range records {
		detail.Tasks = append(detail.Tasks, ux.HistoryTaskRow{
			Name:     rec.Name,
			Status:   rec.Status,
			Duration: rec.Duration.Round(time.Millisecond).String(),
			Error:    rec.Error,
		})
	}
	return detail
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
