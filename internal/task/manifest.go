package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anvilbuild/anvil/internal/errors"
)

// RunManifest is the audit record written for every run
type RunManifest struct {
	RunID        string         `json:"run_id"`
	Workspace    string         `json:"workspace,omitempty"`
	Fingerprint  string         `json:"fingerprint,omitempty"`
	Targets      []string       `json:"targets"`
	Only         bool           `json:"only,omitempty"`
	DryRun       bool           `json:"dry_run,omitempty"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	Duration     string         `json:"duration"`
	TotalTasks   int            `json:"total_tasks"`
	SuccessTasks int            `json:"success_tasks"`
	FailedTasks  int            `json:"failed_tasks"`
	SkippedTasks int            `json:"skipped_tasks"`
	Tasks        []TaskManifest `json:"tasks"`
	Artifacts    []Artifact     `json:"artifacts,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// TaskManifest is the per-task entry within a run manifest
type TaskManifest struct {
	Name     string `json:"name"`
	Status   Status `json:"status"`
	Duration string `json:"duration,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BuildRunManifest converts a report into its audit record
func BuildRunManifest(report *Report) *RunManifest {
	m := &RunManifest{
		RunID:        report.RunID,
		Workspace:    report.Workspace,
		Fingerprint:  report.Fingerprint,
		Targets:      report.Targets,
		Only:         report.Only,
		DryRun:       report.DryRun,
		StartTime:    report.StartTime,
		EndTime:      report.EndTime,
		Duration:     report.Duration().String(),
		TotalTasks:   report.TotalTasks,
		SuccessTasks: report.SuccessTasks,
		FailedTasks:  report.FailedTasks,
		SkippedTasks: report.SkippedTasks,
		Artifacts:    report.Artifacts,
	}

	if report.Err != nil {
		m.Error = report.Err.Error()
	}

	for _, result := range report.Results {
		entry := TaskManifest{
			Name:   result.Name,
			Status: result.Status,
			Error:  result.Error,
		}
		if result.Duration > 0 {
			entry.Duration = result.Duration.String()
		}
		m.Tasks = append(m.Tasks, entry)
	}

	return m
}

// SaveRunManifest writes a run manifest to dir and returns the file path
func SaveRunManifest(manifest *RunManifest, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "create run manifest directory", err)
	}

	// Timestamped filename keeps the directory sortable by run time
	filename := fmt.Sprintf("%s_%s.json",
		manifest.StartTime.Format("20060102_150405"),
		shortRunID(manifest.RunID))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "marshal run manifest", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "write run manifest", err)
	}

	return path, nil
}

// shortRunID returns the first segment of a UUID for use in filenames
func shortRunID(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '-' {
			return id[:i]
		}
	}
	return id
}
