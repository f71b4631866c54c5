package workspace

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anvilbuild/anvil/internal/errors"
)

func writeManifestFile(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, DefaultManifestName)
	if err := os.WriteFile(path, []byte("workspace: test\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestDiscoverRoot_InStartDir(t *testing.T) {
	dir := t.TempDir()
	writeManifestFile(t, dir)

	root, err := DiscoverRoot(dir)
	if err != nil {
		t.Fatalf("DiscoverRoot() error = %v", err)
	}
	if root != dir {
		t.Errorf("DiscoverRoot() = %q, want %q", root, dir)
	}
}

func TestDiscoverRoot_WalksToParent(t *testing.T) {
	dir := t.TempDir()
	writeManifestFile(t, dir)

	nested := filepath.Join(dir, "services", "api")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	root, err := DiscoverRoot(nested)
	if err != nil {
		t.Fatalf("DiscoverRoot() error = %v", err)
	}
	if root != dir {
		t.Errorf("DiscoverRoot() = %q, want %q", root, dir)
	}
}

func TestDiscoverRoot_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := DiscoverRoot(dir)
	if err == nil {
		t.Fatal("DiscoverRoot() expected error, got nil")
	}

	var anvilErr *errors.AnvilError
	if !stderrors.As(err, &anvilErr) {
		t.Fatalf("DiscoverRoot() error type = %T, want *errors.AnvilError", err)
	}
	if anvilErr.Code != errors.ErrCodeManifestNotFound {
		t.Errorf("DiscoverRoot() code = %s, want %s", anvilErr.Code, errors.ErrCodeManifestNotFound)
	}
}

func TestDiscoverRoot_IgnoresDirectoryNamedLikeManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, DefaultManifestName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := DiscoverRoot(dir)
	if err == nil {
		t.Fatal("DiscoverRoot() expected error for directory named like manifest")
	}
}

func TestStateDir_Creates(t *testing.T) {
	root := t.TempDir()

	dir, err := StateDir(root)
	if err != nil {
		t.Fatalf("StateDir() error = %v", err)
	}
	want := filepath.Join(root, StateDirName)
	if dir != want {
		t.Errorf("StateDir() = %q, want %q", dir, want)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("StateDir() did not create directory: %v", err)
	}
}

func TestRunsDir_Creates(t *testing.T) {
	root := t.TempDir()

	dir, err := RunsDir(root)
	if err != nil {
		t.Fatalf("RunsDir() error = %v", err)
	}
	want := filepath.Join(root, StateDirName, "runs")
	if dir != want {
		t.Errorf("RunsDir() = %q, want %q", dir, want)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("RunsDir() did not create directory: %v", err)
	}
}
