package workspace

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/anvilbuild/anvil/internal/errors"
)

// ManifestRepository defines the interface for loading and saving
// workspace manifests. The interface exists for dependency injection in
// tests.
type ManifestRepository interface {
	// Load reads a manifest from a file
	Load(path string) (*Manifest, error)

	// Save writes a manifest to a file
	Save(manifest *Manifest, path string) error
}

// FileManifestRepository implements ManifestRepository for file-based storage
type FileManifestRepository struct{}

// NewFileManifestRepository creates a new file-based manifest repository
func NewFileManifestRepository() *FileManifestRepository {
	return &FileManifestRepository{}
}

// Load reads a manifest from a YAML file and applies defaults
func (r *FileManifestRepository) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewManifestNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, "read manifest file", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.NewFileUnmarshalError(path, "yaml", err)
	}

	manifest.applyDefaults()
	return &manifest, nil
}

// Save writes a manifest to a YAML file
func (r *FileManifestRepository) Save(manifest *Manifest, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, "create directory", err)
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return errors.Wrap(errors.ErrCodeManifestMarshal, "marshal manifest", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write manifest file", err)
	}

	return nil
}

// applyDefaults fills the fields the manifest may omit
func (m *Manifest) applyDefaults() {
	if m.DefaultTask == "" {
		m.DefaultTask = StageBuild
	}
	if m.Artifacts.Dir == "" {
		m.Artifacts.Dir = "artifacts"
	}
	if m.Artifacts.Version == "" {
		m.Artifacts.Version = "0.0.0"
	}
}

// Default instance for package-level functions
var defaultRepository = NewFileManifestRepository()

// LoadManifest reads a manifest using the default repository
func LoadManifest(path string) (*Manifest, error) {
	return defaultRepository.Load(path)
}

// SaveManifest writes a manifest using the default repository
func SaveManifest(manifest *Manifest, path string) error {
	return defaultRepository.Save(manifest, path)
}

// Compile-time verification that FileManifestRepository implements ManifestRepository
var _ ManifestRepository = (*FileManifestRepository)(nil)
