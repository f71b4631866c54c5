package task

import (
	"context"
	"time"
)

// Action is the work a task performs. Aggregate tasks carry a nil action
// and exist only to group their dependencies.
type Action func(ctx context.Context) error

// Task is a named unit of work with declared prerequisites
type Task struct {
	Name        string
	Description string
	Deps        []string
	Action      Action
	// Explain lists the commands the action would run; dry runs print
	// these lines instead of executing
	Explain func() []string
}

// Aggregate reports whether the task only groups dependencies
func (t *Task) Aggregate() bool {
	return t.Action == nil
}

// Status represents the outcome of a single task in a run
type Status string

const (
	// StatusSuccess means the task action completed without error
	StatusSuccess Status = "success"
	// StatusFailed means the task action returned an error
	StatusFailed Status = "failed"
	// StatusSkipped means the task never ran because an earlier task failed
	// or the run was cancelled
	StatusSkipped Status = "skipped"
)

// TaskResult records the outcome of one task within a run
type TaskResult struct {
	Name      string
	Status    Status
	Error     string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Artifact is a packaged output recorded with a run
type Artifact struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

// Report contains the results of executing a plan
type Report struct {
	RunID        string
	Targets      []string
	Only         bool
	DryRun       bool
	Workspace    string
	Fingerprint  string
	TotalTasks   int
	SuccessTasks int
	FailedTasks  int
	SkippedTasks int
	Results      []*TaskResult
	Artifacts    []Artifact
	StartTime    time.Time
	EndTime      time.Time
	Err          error
}

// Duration returns the wall-clock duration of the run
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Failed reports whether any task in the run failed
func (r *Report) Failed() bool {
	return r.FailedTasks > 0
}
