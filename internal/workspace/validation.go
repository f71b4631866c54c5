package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anvilbuild/anvil/internal/errors"
)

// Validate checks the manifest against the workspace root directory.
// An empty project list is valid; every listed project must be sound.
func (m *Manifest) Validate(root string) error {
	if strings.TrimSpace(m.Workspace) == "" {
		return errors.NewManifestInvalidError("workspace name cannot be empty")
	}

	seenNames := make(map[string]bool, len(m.Projects))
	seenPaths := make(map[string]string, len(m.Projects))

	for i := range m.Projects {
		p := &m.Projects[i]

		if err := p.validate(root); err != nil {
			return err
		}

		if seenNames[p.Name] {
			return errors.New(errors.ErrCodeProjectDuplicate,
				fmt.Sprintf("duplicate project name: %s", p.Name))
		}
		seenNames[p.Name] = true

		cleaned := filepath.Clean(p.Path)
		if other, ok := seenPaths[cleaned]; ok {
			return errors.New(errors.ErrCodeProjectDuplicate,
				fmt.Sprintf("projects %s and %s share the path %s", other, p.Name, cleaned))
		}
		seenPaths[cleaned] = p.Name
	}

	return nil
}

// validate checks a single project entry
func (p *Project) validate(root string) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.NewManifestInvalidError("project name cannot be empty")
	}

	if !knownCategory(p.Category) {
		return errors.New(errors.ErrCodeProjectBadCategory,
			fmt.Sprintf("project %s has unknown category %q (must be %s)",
				p.Name, p.Category, categoryList())).
			WithSuggestion("Use one of: library, app, test")
	}

	if strings.TrimSpace(p.Path) == "" {
		return errors.New(errors.ErrCodeProjectBadPath,
			fmt.Sprintf("project %s has an empty path", p.Name))
	}

	// Paths must stay inside the workspace
	if filepath.IsAbs(p.Path) || !filepath.IsLocal(p.Path) {
		return errors.New(errors.ErrCodeProjectBadPath,
			fmt.Sprintf("project %s path %q must be relative and inside the workspace", p.Name, p.Path))
	}

	full := filepath.Join(root, p.Path)
	info, err := os.Stat(full)
	if err != nil {
		return errors.New(errors.ErrCodeProjectBadPath,
			fmt.Sprintf("project %s path does not exist: %s", p.Name, p.Path)).
			WithSuggestion("Fix the path in the manifest or create the directory").
			WithSuggestion("Re-run 'anvil init' to regenerate the manifest")
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeProjectBadPath,
			fmt.Sprintf("project %s path is not a directory: %s", p.Name, p.Path))
	}

	for _, stage := range p.Skip {
		if !knownStage(stage) {
			return errors.NewManifestInvalidError(
				fmt.Sprintf("project %s skips unknown stage %q", p.Name, stage))
		}
	}

	for stage, argv := range p.Commands {
		if !knownStage(stage) {
			return errors.NewManifestInvalidError(
				fmt.Sprintf("project %s overrides unknown stage %q", p.Name, stage))
		}
		if len(argv) == 0 {
			return errors.NewManifestInvalidError(
				fmt.Sprintf("project %s has an empty command for stage %q", p.Name, stage))
		}
	}

	return nil
}

func knownCategory(c Category) bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

func knownStage(stage string) bool {
	for _, known := range KnownStages {
		if stage == known {
			return true
		}
	}
	return false
}

func categoryList() string {
	parts := make([]string, len(KnownCategories))
	for i, c := range KnownCategories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
