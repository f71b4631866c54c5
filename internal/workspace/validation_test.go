package workspace

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/anvilbuild/anvil/internal/errors"
)

// workspaceFixture creates a root directory with the given project
// subdirectories present on disk
func workspaceFixture(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return root
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		dirs     []string
		manifest Manifest
		wantCode errors.ErrorCode
	}{
		{
			name: "valid workspace",
			dirs: []string{"src/core", "src/web", "tests/core"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "core", Path: "src/core", Category: CategoryLibrary},
					{Name: "web", Path: "src/web", Category: CategoryApp},
					{Name: "core-tests", Path: "tests/core", Category: CategoryTest},
				},
			},
		},
		{
			name:     "empty project list is valid",
			manifest: Manifest{Workspace: "bare"},
		},
		{
			name:     "empty workspace name",
			manifest: Manifest{},
			wantCode: errors.ErrCodeManifestInvalid,
		},
		{
			name: "duplicate project name",
			dirs: []string{"a", "b"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "core", Path: "a", Category: CategoryLibrary},
					{Name: "core", Path: "b", Category: CategoryLibrary},
				},
			},
			wantCode: errors.ErrCodeProjectDuplicate,
		},
		{
			name: "duplicate project path",
			dirs: []string{"shared"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "one", Path: "shared", Category: CategoryLibrary},
					{Name: "two", Path: "shared/", Category: CategoryApp},
				},
			},
			wantCode: errors.ErrCodeProjectDuplicate,
		},
		{
			name: "unknown category",
			dirs: []string{"svc"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "svc", Path: "svc", Category: "service"},
				},
			},
			wantCode: errors.ErrCodeProjectBadCategory,
		},
		{
			name: "missing path on disk",
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "ghost", Path: "nowhere", Category: CategoryLibrary},
				},
			},
			wantCode: errors.ErrCodeProjectBadPath,
		},
		{
			name: "absolute path rejected",
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "abs", Path: "/etc", Category: CategoryLibrary},
				},
			},
			wantCode: errors.ErrCodeProjectBadPath,
		},
		{
			name: "path escaping the workspace rejected",
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "escape", Path: "../outside", Category: CategoryLibrary},
				},
			},
			wantCode: errors.ErrCodeProjectBadPath,
		},
		{
			name: "unknown skip stage",
			dirs: []string{"core"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "core", Path: "core", Category: CategoryLibrary, Skip: []string{"deploy"}},
				},
			},
			wantCode: errors.ErrCodeManifestInvalid,
		},
		{
			name: "unknown command stage",
			dirs: []string{"core"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "core", Path: "core", Category: CategoryLibrary,
						Commands: map[string][]string{"deploy": {"true"}}},
				},
			},
			wantCode: errors.ErrCodeManifestInvalid,
		},
		{
			name: "empty command override",
			dirs: []string{"core"},
			manifest: Manifest{
				Workspace: "acme",
				Projects: []Project{
					{Name: "core", Path: "core", Category: CategoryLibrary,
						Commands: map[string][]string{"test": {}}},
				},
			},
			wantCode: errors.ErrCodeManifestInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := workspaceFixture(t, tt.dirs...)

			err := tt.manifest.Validate(root)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var anvilErr *errors.AnvilError
			if !stderrors.As(err, &anvilErr) {
				t.Fatalf("expected AnvilError, got %T", err)
			}
			if anvilErr.Code != tt.wantCode {
				t.Errorf("error code = %v, want %v", anvilErr.Code, tt.wantCode)
			}
		})
	}
}

func TestValidate_PathIsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notadir"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	m := Manifest{
		Workspace: "acme",
		Projects: []Project{
			{Name: "file", Path: "notadir", Category: CategoryLibrary},
		},
	}

	err := m.Validate(root)
	if err == nil {
		t.Fatal("expected error for file path")
	}
	var anvilErr *errors.AnvilError
	if !stderrors.As(err, &anvilErr) {
		t.Fatalf("expected AnvilError, got %T", err)
	}
	if anvilErr.Code != errors.ErrCodeProjectBadPath {
		t.Errorf("error code = %v, want %v", anvilErr.Code, errors.ErrCodeProjectBadPath)
	}
}
