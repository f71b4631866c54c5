package history

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/task"
)

// timeFormat pins how timestamps are stored. Fixed-width fractional
// seconds keep lexicographic order equal to chronological order, which
// ORDER BY started_at relies on.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one ledger row from the runs table
type Run struct {
	ID           string
	Workspace    string
	Fingerprint  string
	Targets      []string
	Only         bool
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalTasks   int
	SuccessTasks int
	FailedTasks  int
	SkippedTasks int
	Error        string
}

// Failed reports whether the run ended with a failure
func (r *Run) Failed() bool {
	return r.Error != "" || r.FailedTasks > 0
}

// TaskRecord is one ledger row from the task_results table
type TaskRecord struct {
	Name     string
	Status   string
	Duration time.Duration
	Error    string
}

// RecordRun writes a finished run and its per-task outcomes to the
// ledger in one transaction
func RecordRun(ctx context.Context, db *sql.DB, report *task.Report) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeHistoryRecord, "failed to begin ledger transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	runErr := ""
	if report.Err != nil {
		runErr = report.Err.Error()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, workspace, fingerprint, targets, only,
		                   started_at, finished_at, duration_ms,
		                   total_tasks, success_tasks, failed_tasks, skipped_tasks, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.Workspace, report.Fingerprint,
		strings.Join(report.Targets, " "), report.Only,
		report.StartTime.UTC().Format(timeFormat),
		report.EndTime.UTC().Format(timeFormat),
		report.Duration().Milliseconds(),
		report.TotalTasks, report.SuccessTasks, report.FailedTasks, report.SkippedTasks,
		runErr,
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeHistoryRecord, "failed to record run", err)
	}

	for i, result := range report.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO task_results (run_id, position, name, status, duration_ms, error)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			report.RunID, i, result.Name, string(result.Status),
			result.Duration.Milliseconds(), result.Error,
		)
		if err != nil {
			return errors.Wrap(errors.ErrCodeHistoryRecord, "failed to record task result", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryRecord, "failed to commit ledger transaction", err)
	}
	return nil
}

// RecentRuns returns the newest runs first, at most limit rows
func RecentRuns(ctx context.Context, db *sql.DB, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, workspace, fingerprint, targets, only,
		        started_at, finished_at, duration_ms,
		        total_tasks, success_tasks, failed_tasks, skipped_tasks, error
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to query runs", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to read run row", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to read runs", err)
	}
	return runs, nil
}

// FindRun returns one run by its full ID, or by an unambiguous prefix
func FindRun(ctx context.Context, db *sql.DB, id string) (*Run, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, workspace, fingerprint, targets, only,
		        started_at, finished_at, duration_ms,
		        total_tasks, success_tasks, failed_tasks, skipped_tasks, error
		 FROM runs
		 WHERE id LIKE ? || '%'
		 ORDER BY started_at DESC
		 LIMIT 2`,
		id,
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to query run", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to read run row", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to read run", err)
	}

	switch len(matches) {
	case 0:
		return nil, errors.New(errors.ErrCodeHistoryQuery, "no run matches "+id).
			WithSuggestion("Run 'anvil history' to list recent run IDs")
	case 1:
		return matches[0], nil
	default:
		return nil, errors.New(errors.ErrCodeHistoryQuery, "run ID prefix is ambiguous: "+id).
			WithSuggestion("Use more characters of the run ID")
	}
}

// TaskRecordsFor returns the per-task outcomes of a run in execution
// order
func TaskRecordsFor(ctx context.Context, db *sql.DB, runID string) ([]*TaskRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, status, duration_ms, error
		 FROM task_results
		 WHERE run_id = ?
		 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to query task results", err)
	}
	defer rows.Close()

	var records []*TaskRecord
	for rows.Next() {
		record := &TaskRecord{}
		var durationMs int64
		if err := rows.Scan(&record.Name, &record.Status, &durationMs, &record.Error); err != nil {
			return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to read task result row", err)
		}
		record.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryQuery, "failed to read task results", err)
	}
	return records, nil
}

func scanRun(rows *sql.Rows) (*Run, error) {
	run := &Run{}
	var targets, started, finished string
	var durationMs int64

	if err := rows.Scan(
		&run.ID, &run.Workspace, &run.Fingerprint, &targets, &run.Only,
		&started, &finished, &durationMs,
		&run.TotalTasks, &run.SuccessTasks, &run.FailedTasks, &run.SkippedTasks,
		&run.Error,
	); err != nil {
		return nil, err
	}

	if targets != "" {
		run.Targets = strings.Split(targets, " ")
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond

	var err error
	if run.StartTime, err = time.Parse(timeFormat, started); err != nil {
		return nil, err
	}
	if run.EndTime, err = time.Parse(timeFormat, finished); err != nil {
		return nil, err
	}
	return run, nil
}
