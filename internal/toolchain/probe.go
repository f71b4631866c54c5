package toolchain

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout caps how long a version command may hang
const probeTimeout = 5 * time.Second

// Probe is the result of checking one tool for doctor
type Probe struct {
	Tool      Tool
	Available bool
	Path      string
	Source    Source
	Version   string
	Err       error
}

// ProbeAll checks every built-in tool
func (r *Resolver) ProbeAll(ctx context.Context) []Probe {
	tools := KnownTools()
	probes := make([]Probe, 0, len(tools))
	for _, tool := range tools {
		probes = append(probes, r.ProbeTool(ctx, tool))
	}
	return probes
}

// ProbeTool resolves a tool and, where the tool supports it, captures
// its version line
func (r *Resolver) ProbeTool(ctx context.Context, tool Tool) Probe {
	probe := Probe{Tool: tool}

	res, err := r.Resolve(tool)
	if err != nil {
		probe.Err = err
		return probe
	}

	probe.Available = true
	probe.Path = res.Path
	probe.Source = res.Source

	if len(tool.VersionArgs) == 0 {
		return probe
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, res.Path, tool.VersionArgs...)
	output, err := cmd.Output()
	if err == nil {
		probe.Version = firstLine(string(output))
	}

	return probe
}

// firstLine trims the output down to its first non-empty line
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
