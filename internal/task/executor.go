package task

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/anvilbuild/anvil/internal/log"
)

// Executor runs a plan sequentially, one task at a time. The first
// failure aborts the run; every task still planned is reported as
// skipped. There is no retry.
type Executor struct {
	Registry    *Registry
	Logger      *log.Logger
	Out         io.Writer
	DryRun      bool
	Quiet       bool
	Workspace   string
	Fingerprint string
}

// Execute runs all tasks in the plan in order and returns a report.
// The returned error is the first action error, unchanged, so callers
// can map it to an exit code; the report carries the task context.
func (e *Executor) Execute(ctx context.Context, p *Plan) (*Report, error) {
	report := &Report{
		RunID:       uuid.New().String(),
		Targets:     p.Targets,
		Only:        p.Only,
		DryRun:      e.DryRun,
		Workspace:   e.Workspace,
		Fingerprint: e.Fingerprint,
		TotalTasks:  len(p.Tasks),
		StartTime:   time.Now(),
	}

	logger := e.logger().With("run_id", report.RunID)
	logger.Debug("run starting", "targets", p.Targets, "tasks", p.Names(), "dry_run", e.DryRun)
	if p.Only {
		logger.Info("dependency closure skipped by request")
	}

	for _, t := range p.Tasks {
		if report.Err != nil || ctx.Err() != nil {
			report.SkippedTasks++
			report.Results = append(report.Results, &TaskResult{
				Name:   t.Name,
				Status: StatusSkipped,
			})
			e.printf("  ⊘ %s skipped\n", t.Name)
			continue
		}

		result, err := e.runTask(ctx, t, logger)
		report.Results = append(report.Results, result)

		if err != nil {
			report.FailedTasks++
			report.Err = err
			continue
		}
		report.SuccessTasks++
	}

	if err := ctx.Err(); err != nil && report.Err == nil {
		report.Err = err
	}

	report.EndTime = time.Now()
	logger.Debug("run finished",
		"success", report.SuccessTasks,
		"failed", report.FailedTasks,
		"skipped", report.SkippedTasks,
		"duration", report.Duration().String(),
	)

	return report, report.Err
}

// runTask executes a single task and records its outcome
func (e *Executor) runTask(ctx context.Context, t *Task, logger *log.Logger) (*TaskResult, error) {
	result := &TaskResult{
		Name:      t.Name,
		StartTime: time.Now(),
	}

	e.printf("▸ %s\n", t.Name)

	if e.DryRun {
		switch {
		case t.Aggregate():
			e.printf("  ⊙ Dry run: aggregate of %v\n", t.Deps)
		case t.Explain != nil:
			for _, line := range t.Explain() {
				e.printf("  ⊙ %s\n", line)
			}
		default:
			e.printf("  ⊙ Dry run: would execute %s\n", t.Name)
		}
		result.Status = StatusSuccess
		result.EndTime = time.Now()
		return result, nil
	}

	var err error
	if !t.Aggregate() {
		err = t.Action(ctx)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		e.printf("  ✗ %s failed: %v\n", t.Name, err)
		logger.WithError(err).Error("task failed", "task", t.Name)
		return result, err
	}

	result.Status = StatusSuccess
	if !t.Aggregate() {
		e.printf("  ✓ %s completed in %v\n", t.Name, result.Duration.Round(time.Millisecond))
	}
	return result, nil
}

func (e *Executor) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.DefaultLogger()
}

func (e *Executor) printf(format string, args ...any) {
	if e.Quiet {
		return
	}
	out := e.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}
