package cmd

import (
	"os"
	"path/filepath"

	"github.com/anvilbuild/anvil/internal/workspace"
)

// resolveWorkspace loads and validates the workspace manifest. An
// explicit --manifest path wins; otherwise the manifest is discovered
// by walking up from the working directory. The returned root is the
// directory holding the manifest.
func resolveWorkspace(manifestPath string) (*workspace.Manifest, string, error) {
	path := manifestPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		root, err := workspace.DiscoverRoot(cwd)
		if err != nil {
			return nil, "", err
		}
		path = filepath.Join(root, workspace.DefaultManifestName)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	root := filepath.Dir(abs)

	manifest, err := workspace.LoadManifest(abs)
	if err != nil {
		return nil, "", err
	}
	if err := manifest.Validate(root); err != nil {
		return nil, "", err
	}
	return manifest, root, nil
}
