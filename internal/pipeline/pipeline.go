// Package pipeline registers the built-in build tasks. Each task is a
// thin pass-through from the workspace's eligible projects to one
// external tool invocation per project; the task graph sequences them.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anvilbuild/anvil/internal/log"
	"github.com/anvilbuild/anvil/internal/task"
	"github.com/anvilbuild/anvil/internal/toolchain"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// TaskCI is the aggregate task running the full pipeline
const TaskCI = "ci"

// Pipeline owns the built-in tasks for one workspace
type Pipeline struct {
	Manifest *workspace.Manifest
	// Root is the workspace root directory; project paths and the
	// artifact dir are relative to it
	Root     string
	Resolver *toolchain.Resolver
	Runner   *toolchain.Runner
	Logger   *log.Logger
	// Yes skips the interactive publish gate
	Yes bool

	// artifacts packed during this run, in pack order
	artifacts []task.Artifact
}

// New creates a pipeline for the manifest rooted at root
func New(manifest *workspace.Manifest, root string, logger *log.Logger) *Pipeline {
	return &Pipeline{
		Manifest: manifest,
		Root:     root,
		Resolver: toolchain.NewResolver(manifest.Tools),
		Runner:   toolchain.NewRunner(logger),
		Logger:   logger,
	}
}

// Register adds the built-in tasks to the registry and applies the
// manifest's default task. The caller finalizes the registry.
func (p *Pipeline) Register(reg *task.Registry) error {
	tasks := []*task.Task{
		{
			Name:        workspace.StageClean,
			Description: "Remove build outputs and the artifact directory",
			Action:      p.clean,
			Explain:     p.explainClean,
		},
		{
			Name:        workspace.StageRestore,
			Description: "Restore project dependencies",
			Action:      p.restore,
			Explain:     p.explainRestore,
		},
		{
			Name:        workspace.StageBuild,
			Description: "Compile workspace projects",
			Deps:        []string{workspace.StageRestore},
			Action:      p.build,
			Explain:     p.explainBuild,
		},
		{
			Name:        workspace.StageTest,
			Description: "Run test projects",
			Deps:        []string{workspace.StageBuild},
			Action:      p.test,
			Explain:     p.explainTest,
		},
		{
			Name:        workspace.StageCover,
			Description: "Run tests with coverage and produce an XML report",
			Deps:        []string{workspace.StageBuild},
			Action:      p.cover,
			Explain:     p.explainCover,
		},
		{
			Name:        workspace.StagePack,
			Description: "Package deliverables into versioned archives",
			Deps:        []string{workspace.StageBuild},
			Action:      p.pack,
			Explain:     p.explainPack,
		},
		{
			Name:        workspace.StagePublish,
			Description: "Push packed artifacts with the configured command",
			Deps:        []string{workspace.StagePack},
			Action:      p.publish,
			Explain:     p.explainPublish,
		},
		{
			Name:        TaskCI,
			Description: "Run the full pipeline: test, cover and pack",
			Deps: []string{
				workspace.StageTest,
				workspace.StageCover,
				workspace.StagePack,
			},
		},
	}

	for _, t := range tasks {
		if err := reg.Register(t); err != nil {
			return err
		}
	}

	reg.SetDefault(p.Manifest.DefaultTask)
	return nil
}

// Artifacts returns the artifacts packed during this run
func (p *Pipeline) Artifacts() []task.Artifact {
	return p.artifacts
}

// projectDir returns the absolute directory of a project
func (p *Pipeline) projectDir(proj workspace.Project) string {
	return filepath.Join(p.Root, proj.Path)
}

// artifactDir returns the absolute artifact directory
func (p *Pipeline) artifactDir() string {
	return filepath.Join(p.Root, p.Manifest.Artifacts.Dir)
}

// invoke resolves a built-in tool and runs it for one project
func (p *Pipeline) invoke(ctx context.Context, tool toolchain.Tool, args []string, proj workspace.Project, stage string) error {
	res, err := p.Resolver.Resolve(tool)
	if err != nil {
		return err
	}
	return p.Runner.Run(ctx, toolchain.Invocation{
		Tool:    tool.Name,
		Path:    res.Path,
		Args:    args,
		Dir:     p.projectDir(proj),
		Project: proj.Name,
		Stage:   stage,
	})
}

// invokeOverride runs a project's command override for a stage. The
// override's first element resolves like any other tool, so env
// overrides apply to it as well.
func (p *Pipeline) invokeOverride(ctx context.Context, argv []string, proj workspace.Project, stage string) error {
	tool := toolchain.Tool{Name: argv[0], Executable: argv[0]}
	res, err := p.Resolver.Resolve(tool)
	if err != nil {
		return err
	}
	return p.Runner.Run(ctx, toolchain.Invocation{
		Tool:    argv[0],
		Path:    res.Path,
		Args:    argv[1:],
		Dir:     p.projectDir(proj),
		Project: proj.Name,
		Stage:   stage,
	})
}

// runStage executes one stage across its eligible projects: the
// project's override when present, the default argv otherwise. The
// first failure stops the stage.
func (p *Pipeline) runStage(ctx context.Context, stage string, projects []workspace.Project, tool toolchain.Tool, args []string) error {
	if len(projects) == 0 {
		p.logger().Info("no eligible projects, nothing to do", "stage", stage)
		return nil
	}
	for _, proj := range projects {
		if argv, ok := proj.CommandFor(stage); ok {
			if err := p.invokeOverride(ctx, argv, proj, stage); err != nil {
				return err
			}
			continue
		}
		if err := p.invoke(ctx, tool, args, proj, stage); err != nil {
			return err
		}
	}
	return nil
}

// explainStage renders the commands a stage would run, for dry runs
func explainStage(stage string, projects []workspace.Project, defaultLine string) []string {
	if len(projects) == 0 {
		return []string{fmt.Sprintf("no projects eligible for %s", stage)}
	}
	lines := make([]string, 0, len(projects))
	for _, proj := range projects {
		line := defaultLine
		if argv, ok := proj.CommandFor(stage); ok {
			line = strings.Join(argv, " ")
		}
		lines = append(lines, fmt.Sprintf("%s (project %s)", line, proj.Name))
	}
	return lines
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.DefaultLogger()
}
