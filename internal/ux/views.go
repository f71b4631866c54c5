package ux

import (
	"fmt"
	"strings"
)

// TaskRow is one registered task in the tasks view
type TaskRow struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Deps        []string `json:"deps,omitempty" yaml:"deps,omitempty"`
	Default     bool     `json:"default,omitempty" yaml:"default,omitempty"`
}

// TaskList is the view behind 'anvil tasks'
type TaskList struct {
	Tasks []TaskRow `json:"tasks" yaml:"tasks"`
}

// Render formats the task table
func (l TaskList) Render(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Tasks") + "\n\n")

	width := 0
	for _, t := range l.Tasks {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}

	hasDefault := false
	for _, t := range l.Tasks {
		marker := " "
		if t.Default {
			marker = "*"
			hasDefault = true
		}
		name := st.Accent.Render(fmt.Sprintf("%-*s", width, t.Name))
		b.WriteString(fmt.Sprintf("  %s %s  %s", marker, name, t.Description))
		if len(t.Deps) > 0 {
			b.WriteString("  " + st.Muted.Render("(after: "+strings.Join(t.Deps, ", ")+")"))
		}
		b.WriteString("\n")
	}

	if hasDefault {
		b.WriteString("\n" + st.Muted.Render("* default task") + "\n")
	}
	return b.String()
}

// GraphView is the view behind 'anvil graph': the resolved execution
// order for the requested targets
type GraphView struct {
	Targets []string `json:"targets" yaml:"targets"`
	Order   []string `json:"order" yaml:"order"`
}

// Render formats the numbered execution order
func (v GraphView) Render(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Execution order for "+strings.Join(v.Targets, ", ")) + "\n\n")
	for i, name := range v.Order {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			st.Muted.Render(fmt.Sprintf("%2d.", i+1)),
			st.Accent.Render(name)))
	}
	return b.String()
}

// ProjectRow is one workspace project in the projects view
type ProjectRow struct {
	Name     string   `json:"name" yaml:"name"`
	Path     string   `json:"path" yaml:"path"`
	Category string   `json:"category" yaml:"category"`
	Stages   []string `json:"stages" yaml:"stages"`
}

// ProjectList is the view behind 'anvil projects'
type ProjectList struct {
	Workspace string       `json:"workspace" yaml:"workspace"`
	Projects  []ProjectRow `json:"projects" yaml:"projects"`
}

// Render formats the project table with per-stage eligibility
func (l ProjectList) Render(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Projects in "+l.Workspace) + "\n\n")

	nameWidth, catWidth := 0, 0
	for _, p := range l.Projects {
		if len(p.Name) > nameWidth {
			nameWidth = len(p.Name)
		}
		if len(p.Category) > catWidth {
			catWidth = len(p.Category)
		}
	}

	for _, p := range l.Projects {
		name := st.Accent.Render(fmt.Sprintf("%-*s", nameWidth, p.Name))
		category := fmt.Sprintf("%-*s", catWidth, p.Category)
		stages := st.Muted.Render("stages: " + strings.Join(p.Stages, ", "))
		if len(p.Stages) == 0 {
			stages = st.Warning.Render("skips every stage")
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
			name, category, st.Muted.Render(p.Path), stages))
	}

	b.WriteString(fmt.Sprintf("\n%s\n", st.Count.Render(fmt.Sprintf("%d projects", len(l.Projects)))))
	return b.String()
}

// DoctorProbe is one tool check in the doctor view
type DoctorProbe struct {
	Tool      string `json:"tool" yaml:"tool"`
	Available bool   `json:"available" yaml:"available"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DoctorReport is the view behind 'anvil doctor'
type DoctorReport struct {
	Workspace string        `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Manifest  string        `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	Projects  int           `json:"projects" yaml:"projects"`
	Tools     []DoctorProbe `json:"tools" yaml:"tools"`
	Healthy   bool          `json:"healthy" yaml:"healthy"`
}

// Render formats the workspace and tool health summary
func (r DoctorReport) Render(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Workspace") + "\n\n")
	if r.Workspace != "" {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			st.Success.Render("✓"), r.Workspace,
			st.Muted.Render(fmt.Sprintf("%s, %d projects", r.Manifest, r.Projects))))
	} else {
		b.WriteString(fmt.Sprintf("  %s no workspace manifest found\n", st.Failure.Render("✗")))
	}

	b.WriteString("\n" + st.Title.Render("Tools") + "\n\n")
	for _, probe := range r.Tools {
		if !probe.Available {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				st.Failure.Render("✗"), probe.Tool, st.Muted.Render(probe.Error)))
			continue
		}
		detail := probe.Path
		if probe.Version != "" {
			detail += "  (" + probe.Version + ")"
		}
		if probe.Source != "" && probe.Source != "path" {
			detail += "  [" + probe.Source + "]"
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			st.Success.Render("✓"), probe.Tool, st.Muted.Render(detail)))
	}

	b.WriteString("\n")
	if r.Healthy {
		b.WriteString(st.Success.Render("✓ Ready to run") + "\n")
	} else {
		b.WriteString(st.Failure.Render("✗ Problems found, fix the items above") + "\n")
	}
	return b.String()
}

// RunSummary is the end-of-run view printed by 'anvil run'
type RunSummary struct {
	RunID    string `json:"run_id" yaml:"run_id"`
	Total    int    `json:"total" yaml:"total"`
	Success  int    `json:"success" yaml:"success"`
	Failed   int    `json:"failed" yaml:"failed"`
	Skipped  int    `json:"skipped" yaml:"skipped"`
	Duration string `json:"duration" yaml:"duration"`
	Failure  string `json:"failure,omitempty" yaml:"failure,omitempty"`
	DryRun   bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Only     bool   `json:"only,omitempty" yaml:"only,omitempty"`
}

// Render formats the one-paragraph run verdict
func (s RunSummary) Render(st Styles) string {
	var b strings.Builder

	counts := fmt.Sprintf("%d succeeded", s.Success)
	if s.Failed > 0 {
		counts += fmt.Sprintf(", %d failed", s.Failed)
	}
	if s.Skipped > 0 {
		counts += fmt.Sprintf(", %d skipped", s.Skipped)
	}

	switch {
	case s.DryRun:
		b.WriteString(fmt.Sprintf("\n%s %s\n",
			st.Warning.Render("⊙ Dry run complete:"),
			fmt.Sprintf("%d tasks would execute", s.Total)))
	case s.Failed > 0:
		b.WriteString(fmt.Sprintf("\n%s %s %s\n",
			st.Failure.Render("✗ Run failed"),
			st.Muted.Render("in "+s.Duration+":"), counts))
		if s.Failure != "" {
			b.WriteString("  " + st.Failure.Render(s.Failure) + "\n")
		}
	default:
		b.WriteString(fmt.Sprintf("\n%s %s %s\n",
			st.Success.Render("✓ Run complete"),
			st.Muted.Render("in "+s.Duration+":"), counts))
	}

	if s.Only {
		b.WriteString(st.Muted.Render("  dependencies skipped by request (--only)") + "\n")
	}
	b.WriteString(st.Muted.Render("  run "+s.RunID) + "\n")
	return b.String()
}

// HistoryRow is one recorded run in the history view
type HistoryRow struct {
	RunID    string   `json:"run_id" yaml:"run_id"`
	Started  string   `json:"started" yaml:"started"`
	Targets  []string `json:"targets" yaml:"targets"`
	Failed   bool     `json:"failed" yaml:"failed"`
	Tasks    string   `json:"tasks" yaml:"tasks"`
	Duration string   `json:"duration" yaml:"duration"`
}

// HistoryList is the view behind 'anvil history'
type HistoryList struct {
	Runs []HistoryRow `json:"runs" yaml:"runs"`
}

// Render formats the recent-runs table, newest first
func (l HistoryList) Render(st Styles) string {
	if len(l.Runs) == 0 {
		return "No recorded runs yet.\n"
	}

	var b strings.Builder
	b.WriteString(st.Title.Render("Recent runs") + "\n\n")

	targetWidth := 0
	for _, r := range l.Runs {
		if w := len(strings.Join(r.Targets, " ")); w > targetWidth {
			targetWidth = w
		}
	}

	for _, r := range l.Runs {
		glyph := st.Success.Render("✓")
		if r.Failed {
			glyph = st.Failure.Render("✗")
		}
		targets := fmt.Sprintf("%-*s", targetWidth, strings.Join(r.Targets, " "))
		b.WriteString(fmt.Sprintf("  %s %s  %s  %5s  %8s  %s\n",
			glyph, st.Muted.Render(r.Started), st.Accent.Render(targets),
			r.Tasks, r.Duration, st.Muted.Render(r.RunID)))
	}
	return b.String()
}

// HistoryTaskRow is one task outcome in the run detail view
type HistoryTaskRow struct {
	Name     string `json:"name" yaml:"name"`
	Status   string `json:"status" yaml:"status"`
	Duration string `json:"duration" yaml:"duration"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HistoryDetail is the view behind 'anvil history <run-id>'
type HistoryDetail struct {
	Run   HistoryRow       `json:"run" yaml:"run"`
	Error string           `json:"error,omitempty" yaml:"error,omitempty"`
	Tasks []HistoryTaskRow `json:"tasks" yaml:"tasks"`
}

// Render formats one run with its per-task breakdown
func (d HistoryDetail) Render(st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Run "+d.Run.RunID) + "\n\n")
	b.WriteString(fmt.Sprintf("  started:  %s\n", d.Run.Started))
	b.WriteString(fmt.Sprintf("  targets:  %s\n", strings.Join(d.Run.Targets, " ")))
	b.WriteString(fmt.Sprintf("  duration: %s\n", d.Run.Duration))
	if d.Error != "" {
		b.WriteString(fmt.Sprintf("  error:    %s\n", st.Failure.Render(d.Error)))
	}

	b.WriteString("\n")
	for _, t := range d.Tasks {
		var glyph string
		switch t.Status {
		case "success":
			glyph = st.Success.Render("✓")
		case "failed":
			glyph = st.Failure.Render("✗")
		default:
			glyph = st.Muted.Render("⊘")
		}
		line := fmt.Sprintf("  %s %s  %s", glyph, t.Name, st.Muted.Render(t.Duration))
		if t.Error != "" {
			line += "  " + st.Failure.Render(t.Error)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
