package pipeline

import (
	"context"
	"os"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/toolchain"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// Default per-project commands, overridable per project in the manifest
var (
	cleanArgs   = []string{"clean"}
	restoreArgs = []string{"mod", "download"}
	buildArgs   = []string{"build", "./..."}
	testArgs    = []string{"test", "./..."}
)

// clean runs the build tool's clean in each project, then removes the
// artifact directory
func (p *Pipeline) clean(ctx context.Context) error {
	if err := p.runStage(ctx, workspace.StageClean, p.Manifest.CleanProjects(), toolchain.Go, cleanArgs); err != nil {
		return err
	}

	dir := p.artifactDir()
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "remove artifact directory", err)
	}
	p.logger().Info("artifact directory removed", "dir", dir)
	return nil
}

func (p *Pipeline) explainClean() []string {
	lines := explainStage(workspace.StageClean, p.Manifest.CleanProjects(), "go clean")
	return append(lines, "remove "+p.artifactDir())
}

func (p *Pipeline) restore(ctx context.Context) error {
	return p.runStage(ctx, workspace.StageRestore, p.Manifest.RestoreProjects(), toolchain.Go, restoreArgs)
}

func (p *Pipeline) explainRestore() []string {
	return explainStage(workspace.StageRestore, p.Manifest.RestoreProjects(), "go mod download")
}

func (p *Pipeline) build(ctx context.Context) error {
	return p.runStage(ctx, workspace.StageBuild, p.Manifest.BuildProjects(), toolchain.Go, buildArgs)
}

func (p *Pipeline) explainBuild() []string {
	return explainStage(workspace.StageBuild, p.Manifest.BuildProjects(), "go build ./...")
}

func (p *Pipeline) test(ctx context.Context) error {
	return p.runStage(ctx, workspace.StageTest, p.Manifest.TestProjects(), toolchain.Go, testArgs)
}

func (p *Pipeline) explainTest() []string {
	return explainStage(workspace.StageTest, p.Manifest.TestProjects(), "go test ./...")
}
