package history

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/task"
)

// openTestDB creates a ledger in a temp workspace state dir
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), ".anvil"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close ledger: %v", err)
		}
	})
	return db
}

// ledgerReport builds a finished run report for recording
func ledgerReport(id string, start time.Time) *task.Report {
	return &task.Report{
		RunID:        id,
		Targets:      []string{"build"},
		Workspace:    "acme",
		Fingerprint:  "deadbeef",
		TotalTasks:   2,
		SuccessTasks: 2,
		Results: []*task.TaskResult{
			{Name: "restore", Status: task.StatusSuccess, Duration: 1200 * time.Millisecond},
			{Name: "build", Status: task.StatusSuccess, Duration: 3400 * time.Millisecond},
		},
		StartTime: start,
		EndTime:   start.Add(5 * time.Second),
	}
}

func TestOpen_CreatesLedger(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), ".anvil")
	db, err := Open(context.Background(), stateDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(stateDir, DBName)); err != nil {
		t.Errorf("ledger file not created: %v", err)
	}
}

func TestRecordRun_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	report := ledgerReport("run-roundtrip", start)
	if err := RecordRun(ctx, db, report); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	runs, err := RecentRuns(ctx, db, 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	run := runs[0]
	if run.ID != "run-roundtrip" {
		t.Errorf("ID = %q, want run-roundtrip", run.ID)
	}
	if run.Workspace != "acme" {
		t.Errorf("Workspace = %q, want acme", run.Workspace)
	}
	if run.Fingerprint != "deadbeef" {
		t.Errorf("Fingerprint = %q, want deadbeef", run.Fingerprint)
	}
	if len(run.Targets) != 1 || run.Targets[0] != "build" {
		t.Errorf("Targets = %v, want [build]", run.Targets)
	}
	if !run.StartTime.Equal(start) {
		t.Errorf("StartTime = %v, want %v", run.StartTime, start)
	}
	if run.Duration != 5*time.Second {
		t.Errorf("Duration = %v, want 5s", run.Duration)
	}
	if run.SuccessTasks != 2 || run.FailedTasks != 0 {
		t.Errorf("counters = %d/%d, want 2/0", run.SuccessTasks, run.FailedTasks)
	}
	if run.Failed() {
		t.Error("Failed() = true for a clean run")
	}
}

func TestRecordRun_FailedRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	report := ledgerReport("run-failed", time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	report.Err = errors.NewToolFailedError("go", "core", "build", stderrors.New("exit status 1"))
	report.SuccessTasks = 1
	report.FailedTasks = 1
	report.Results[1].Status = task.StatusFailed
	report.Results[1].Error = "exit status 1"

	if err := RecordRun(ctx, db, report); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	run, err := FindRun(ctx, db, "run-failed")
	if err != nil {
		t.Fatalf("FindRun() error = %v", err)
	}
	if !run.Failed() {
		t.Error("Failed() = false for a failed run")
	}
	if run.Error == "" {
		t.Error("Error is empty for a failed run")
	}
}

func TestRecentRuns_OrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		report := ledgerReport(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Hour))
		if err := RecordRun(ctx, db, report); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := RecentRuns(ctx, db, 2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Errorf("order = [%s %s], want [run-2 run-1]", runs[0].ID, runs[1].ID)
	}
}

func TestTaskRecordsFor(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	report := ledgerReport("run-tasks", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	if err := RecordRun(ctx, db, report); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	records, err := TaskRecordsFor(ctx, db, "run-tasks")
	if err != nil {
		t.Fatalf("TaskRecordsFor() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "restore" || records[1].Name != "build" {
		t.Errorf("order = [%s %s], want [restore build]", records[0].Name, records[1].Name)
	}
	if records[1].Duration != 3400*time.Millisecond {
		t.Errorf("Duration = %v, want 3.4s", records[1].Duration)
	}
	if records[0].Status != string(task.StatusSuccess) {
		t.Errorf("Status = %q, want success", records[0].Status)
	}
}

func TestFindRun_Prefix(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"abc-first", "abc-second", "xyz-third"} {
		if err := RecordRun(ctx, db, ledgerReport(id, base)); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
		base = base.Add(time.Minute)
	}

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{name: "exact match", query: "xyz-third", wantID: "xyz-third"},
		{name: "unambiguous prefix", query: "xyz", wantID: "xyz-third"},
		{name: "ambiguous prefix", query: "abc", wantErr: true},
		{name: "no match", query: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := FindRun(ctx, db, tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var anvilErr *errors.AnvilError
				if !stderrors.As(err, &anvilErr) {
					t.Fatalf("expected AnvilError, got %T", err)
				}
				if anvilErr.Code != errors.ErrCodeHistoryQuery {
					t.Errorf("error code = %v, want %v", anvilErr.Code, errors.ErrCodeHistoryQuery)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindRun() error = %v", err)
			}
			if run.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", run.ID, tt.wantID)
			}
		})
	}
}

func TestOpen_Reopen(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), ".anvil")
	ctx := context.Background()

	db, err := Open(ctx, stateDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	report := ledgerReport("run-persist", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	if err := RecordRun(ctx, db, report); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Runs survive a reopen
	db, err = Open(ctx, stateDir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	runs, err := RecentRuns(ctx, db, 10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-persist" {
		t.Errorf("runs after reopen = %v, want the recorded run", runs)
	}
}
