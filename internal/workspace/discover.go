package workspace

import (
	"os"
	"path/filepath"

	"github.com/anvilbuild/anvil/internal/errors"
)

// StateDirName is the per-workspace state directory holding the run
// ledger and run manifests
const StateDirName = ".anvil"

// DiscoverRoot finds the workspace root by walking up from startDir
// until a manifest file is found. Returns the directory containing the
// manifest.
func DiscoverRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, "failed to resolve start directory", err)
	}

	for {
		manifestPath := filepath.Join(dir, DefaultManifestName)
		if info, err := os.Stat(manifestPath); err == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", errors.NewManifestNotFoundError(filepath.Join(startDir, DefaultManifestName))
}

// StateDir returns the workspace state directory, creating it if needed
func StateDir(root string) (string, error) {
	dir := filepath.Join(root, StateDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create state directory", err)
	}
	return dir, nil
}

// RunsDir returns the directory run manifests are written to, creating
// it if needed
func RunsDir(root string) (string, error) {
	stateDir, err := StateDir(root)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(stateDir, "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeDirectoryFailed, "failed to create runs directory", err)
	}
	return dir, nil
}
