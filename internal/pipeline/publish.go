package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/task"
	"github.com/anvilbuild/anvil/internal/toolchain"
	"github.com/anvilbuild/anvil/internal/tui"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// publish pushes packed artifacts with the workspace's publish command.
// Unless confirmation was pre-given, an interactive gate shows what is
// about to be pushed; in non-interactive contexts the gate cannot run
// and the task fails instead of auto-confirming.
func (p *Pipeline) publish(ctx context.Context) error {
	command := p.Manifest.Publish.Command
	if len(command) == 0 {
		return errors.NewPublishNotConfiguredError()
	}

	artifacts := p.artifacts
	if len(artifacts) == 0 {
		found, err := p.findPackedArtifacts()
		if err != nil {
			return err
		}
		artifacts = found
	}
	if len(artifacts) == 0 {
		return errors.New(errors.ErrCodeFileNotFound, "no packed artifacts to publish").
			WithSuggestion("Run 'anvil run pack' first, or check the artifact directory")
	}

	if err := p.verifyChecksums(); err != nil {
		return err
	}

	if !p.Yes {
		approved, err := p.confirmPublish(artifacts)
		if err != nil {
			return err
		}
		if !approved {
			return errors.New(errors.ErrCodeTaskFailed, "publish aborted")
		}
	}

	tool := toolchain.Tool{Name: "publish", Executable: command[0]}
	res, err := p.Resolver.Resolve(tool)
	if err != nil {
		return err
	}

	args := append([]string{}, command[1:]...)
	for _, a := range artifacts {
		args = append(args, a.Path)
	}

	return p.Runner.Run(ctx, toolchain.Invocation{
		Tool:    tool.Name,
		Path:    res.Path,
		Args:    args,
		Dir:     p.Root,
		Project: p.Manifest.Workspace,
		Stage:   workspace.StagePublish,
	})
}

// findPackedArtifacts discovers archives from an earlier pack run, for
// publishes that did not pack in the same process
func (p *Pipeline) findPackedArtifacts() ([]task.Artifact, error) {
	pattern := filepath.Join(p.artifactDir(), "*.tar.gz")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "scan artifact directory", err)
	}

	out := make([]task.Artifact, 0, len(matches))
	for _, path := range matches {
		digest, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, task.Artifact{Name: filepath.Base(path), Path: path, Digest: digest})
	}
	return out, nil
}

// verifyChecksums re-checks the checksum signature when one exists, so
// a tampered artifact directory fails before anything is pushed
func (p *Pipeline) verifyChecksums() error {
	path := filepath.Join(p.artifactDir(), DigestFileName)
	sigPath := path + ".sig"
	if _, err := os.Stat(sigPath); err != nil {
		return nil
	}
	return VerifyFile(path, sigPath)
}

// confirmPublish runs the interactive gate. Without a terminal there is
// no safe way to confirm, so the task fails rather than pushing
// silently.
func (p *Pipeline) confirmPublish(artifacts []task.Artifact) (bool, error) {
	if !tui.ShouldPrompt() {
		return false, errors.New(errors.ErrCodeTaskFailed, "publish needs confirmation and no interactive terminal is available").
			WithSuggestion("Re-run with --yes to confirm non-interactively")
	}

	prompt := tui.PublishPrompt{
		Workspace: p.Manifest.Workspace,
		Version:   p.Manifest.Artifacts.Version,
		Command:   p.Manifest.Publish.Command,
	}
	for _, a := range artifacts {
		item := tui.PublishArtifact{Name: a.Name, Digest: a.Digest}
		if info, err := os.Stat(a.Path); err == nil {
			item.Size = info.Size()
		}
		prompt.Artifacts = append(prompt.Artifacts, item)
	}
	return tui.ShowPublishGate(prompt)
}

func (p *Pipeline) explainPublish() []string {
	command := p.Manifest.Publish.Command
	if len(command) == 0 {
		return []string{"no publish command configured"}
	}
	return []string{strings.Join(command, " ") + " <artifacts>"}
}
