package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anvilbuild/anvil/internal/log"
	"github.com/anvilbuild/anvil/internal/toolchain"
	"github.com/anvilbuild/anvil/internal/ux"
	"github.com/anvilbuild/anvil/internal/workspace"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check workspace and tool health",
	Long: `Doctor verifies that a usable manifest is in reach and that every
external tool the pipeline shells out to can be resolved, honoring
ANVIL_TOOL_* overrides and manifest pins. It exits non-zero when
anything is missing.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	report := ux.DoctorReport{}

	// A broken or absent manifest must not hide toolchain problems, so
	// the workspace check is non-fatal and the probes still run.
	var tools map[string]string
	manifest, root, wsErr := resolveWorkspace(cmdCtx.Manifest)
	if wsErr != nil {
		log.DefaultLogger().Debug("workspace not usable", "error", wsErr)
	} else {
		report.Workspace = manifest.Workspace
		report.Projects = len(manifest.Projects)
		report.Manifest = filepath.Join(root, workspace.DefaultManifestName)
		if cmdCtx.Manifest != "" {
			report.Manifest = cmdCtx.Manifest
		}
		tools = manifest.Tools
	}

	healthy := wsErr == nil
	resolver := toolchain.NewResolver(tools)
	for _, probe := range resolver.ProbeAll(cmd.Context()) {
		row := ux.DoctorProbe{
			Tool:      probe.Tool.Name,
			Available: probe.Available,
			Path:      probe.Path,
			Source:    string(probe.Source),
			Version:   probe.Version,
		}
		if probe.Err != nil {
			row.Error = probe.Err.Error()
		}
		if !probe.Available {
			healthy = false
		}
		report.Tools = append(report.Tools, row)
	}
	report.Healthy = healthy

	formatter, err := cmdCtx.Formatter(cmd)
	if err != nil {
		return err
	}
	if err := formatter.Format(report); err != nil {
		return err
	}

	if !report.Healthy {
		return fmt.Errorf("workspace health check failed")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
