package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/task"
	"github.com/anvilbuild/anvil/internal/toolchain"
	"github.com/anvilbuild/anvil/internal/workspace"
)

// DigestFileName is the checksums file written next to packed archives
const DigestFileName = "checksums.b3"

// pack archives each packable project into the artifact directory and
// records a blake3 digest per archive. Archive names carry the
// workspace artifact version.
func (p *Pipeline) pack(ctx context.Context) error {
	projects := p.Manifest.PackProjects()
	if len(projects) == 0 {
		p.logger().Info("no packable projects in this workspace")
		return nil
	}

	dir := p.artifactDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "create artifact directory", err)
	}

	version := p.Manifest.Artifacts.Version
	for _, proj := range projects {
		if argv, ok := proj.CommandFor(workspace.StagePack); ok {
			// The override owns its outputs; nothing to digest here
			if err := p.invokeOverride(ctx, argv, proj, workspace.StagePack); err != nil {
				return err
			}
			continue
		}

		name := fmt.Sprintf("%s-%s.tar.gz", proj.Name, version)
		archive := filepath.Join(dir, name)
		args := []string{"-czf", archive, "-C", p.projectDir(proj), "."}
		if err := p.invoke(ctx, toolchain.Tar, args, proj, workspace.StagePack); err != nil {
			return err
		}

		digest, err := hashFile(archive)
		if err != nil {
			return err
		}
		p.artifacts = append(p.artifacts, task.Artifact{Name: name, Path: archive, Digest: digest})
		p.logger().Info("packed", "project", proj.Name, "artifact", name, "digest", digest[:12])
	}

	return p.writeDigests()
}

// writeDigests records the digest of every packed archive in a
// checksums file and signs it when a signing key is configured
func (p *Pipeline) writeDigests() error {
	if len(p.artifacts) == 0 {
		return nil
	}

	var b strings.Builder
	for _, a := range p.artifacts {
		fmt.Fprintf(&b, "%s  %s\n", a.Digest, a.Name)
	}

	path := filepath.Join(p.artifactDir(), DigestFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write checksums file", err)
	}
	p.logger().Info("checksums written", "file", path, "artifacts", len(p.artifacts))

	if key := p.Manifest.Publish.SigningKey; key != "" {
		if !filepath.IsAbs(key) {
			key = filepath.Join(p.Root, key)
		}
		sigPath, err := SignFile(path, key)
		if err != nil {
			return err
		}
		p.logger().Info("checksums signed", "signature", sigPath)
	}
	return nil
}

func (p *Pipeline) explainPack() []string {
	projects := p.Manifest.PackProjects()
	lines := explainStage(workspace.StagePack, projects,
		fmt.Sprintf("tar -czf <project>-%s.tar.gz", p.Manifest.Artifacts.Version))
	if len(projects) > 0 {
		lines = append(lines, "write blake3 checksums to "+filepath.Join(p.artifactDir(), DigestFileName))
	}
	return lines
}

// hashFile computes the blake3 digest of a file, hex encoded
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "open artifact for hashing", err)
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "hash artifact", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
