package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/toolchain"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// CoverageDirName is the artifact-dir subdirectory coverage output
// lands in
const CoverageDirName = "coverage"

// cover runs each eligible project's tests with a coverage profile and
// converts the profile to a Cobertura XML report. A project with a
// cover override runs that command instead and owns its own report.
func (p *Pipeline) cover(ctx context.Context) error {
	projects := p.Manifest.CoverProjects()
	if len(projects) == 0 {
		p.logger().Info("no coverage-eligible projects in this workspace")
		return nil
	}

	covDir := filepath.Join(p.artifactDir(), CoverageDirName)
	if err := os.MkdirAll(covDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "create coverage directory", err)
	}

	for _, proj := range projects {
		if argv, ok := proj.CommandFor(workspace.StageCover); ok {
			if err := p.invokeOverride(ctx, argv, proj, workspace.StageCover); err != nil {
				return err
			}
			continue
		}

		profile := filepath.Join(covDir, proj.Name+".out")
		args := []string{"test", "-coverprofile", profile, "./..."}
		if err := p.invoke(ctx, toolchain.Go, args, proj, workspace.StageCover); err != nil {
			return err
		}

		report := filepath.Join(covDir, proj.Name+".xml")
		if err := p.convertProfile(ctx, proj, profile, report); err != nil {
			return err
		}
		p.logger().Info("coverage report written", "project", proj.Name, "report", report)
	}
	return nil
}

// convertProfile pipes a Go coverage profile through the cover tool,
// which reads the profile on stdin and writes Cobertura XML on stdout
func (p *Pipeline) convertProfile(ctx context.Context, proj workspace.Project, profilePath, reportPath string) error {
	res, err := p.Resolver.Resolve(toolchain.Cover)
	if err != nil {
		return err
	}

	profile, err := os.Open(profilePath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileReadFailed, "open coverage profile", err)
	}
	defer profile.Close()

	report, err := os.Create(reportPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "create coverage report", err)
	}

	runErr := p.Runner.Run(ctx, toolchain.Invocation{
		Tool:    toolchain.Cover.Name,
		Path:    res.Path,
		Dir:     p.projectDir(proj),
		Project: proj.Name,
		Stage:   workspace.StageCover,
		Stdin:   profile,
		Stdout:  report,
	})
	closeErr := report.Close()

	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "close coverage report", closeErr)
	}
	return nil
}

func (p *Pipeline) explainCover() []string {
	lines := explainStage(workspace.StageCover, p.Manifest.CoverProjects(),
		"go test -coverprofile <profile> ./...")
	if len(p.Manifest.CoverProjects()) > 0 {
		lines = append(lines, "convert profiles to Cobertura XML with "+toolchain.Cover.Executable)
	}
	return lines
}
