package workspace

// DefaultManifestName is the manifest filename looked up in the
// workspace root when no --manifest flag is given
const DefaultManifestName = "anvil.yaml"

// Pipeline stage names, as used in project skip lists and command
// overrides
const (
	StageClean   = "clean"
	StageRestore = "restore"
	StageBuild   = "build"
	StageTest    = "test"
	StageCover   = "cover"
	StagePack    = "pack"
	StagePublish = "publish"
)

// KnownStages lists every stage a project may reference
var KnownStages = []string{
	StageClean,
	StageRestore,
	StageBuild,
	StageTest,
	StageCover,
	StagePack,
	StagePublish,
}

// Category classifies a project's role in the workspace
type Category string

const (
	// CategoryLibrary is a reusable package consumed by other projects
	CategoryLibrary Category = "library"
	// CategoryApp is a deliverable that gets packaged
	CategoryApp Category = "app"
	// CategoryTest is a test suite project
	CategoryTest Category = "test"
)

// KnownCategories lists the valid project categories
var KnownCategories = []Category{CategoryLibrary, CategoryApp, CategoryTest}

// Manifest is the parsed anvil.yaml workspace definition
type Manifest struct {
	Workspace   string            `yaml:"workspace" json:"workspace"`
	DefaultTask string            `yaml:"default_task,omitempty" json:"default_task,omitempty"`
	Tools       map[string]string `yaml:"tools,omitempty" json:"tools,omitempty"`
	Artifacts   Artifacts         `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	Publish     Publish           `yaml:"publish,omitempty" json:"publish,omitempty"`
	Projects    []Project         `yaml:"projects" json:"projects"`
}

// Artifacts configures where packaged outputs land
type Artifacts struct {
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Version string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Publish configures how packed artifacts are pushed. The command is an
// argv list; artifact paths are appended to it. Credentials are the
// command's own concern, never anvil's.
type Publish struct {
	Command    []string `yaml:"command,omitempty" json:"command,omitempty"`
	SigningKey string   `yaml:"signing_key,omitempty" json:"signing_key,omitempty"`
}

// Project is one buildable unit inside the workspace
type Project struct {
	Name     string              `yaml:"name" json:"name"`
	Path     string              `yaml:"path" json:"path"`
	Category Category            `yaml:"category" json:"category"`
	Skip     []string            `yaml:"skip,omitempty" json:"skip,omitempty"`
	Commands map[string][]string `yaml:"commands,omitempty" json:"commands,omitempty"`
	Packable bool                `yaml:"packable,omitempty" json:"packable,omitempty"`
}

// SkipsStage reports whether the project opted out of a stage
func (p *Project) SkipsStage(stage string) bool {
	for _, s := range p.Skip {
		if s == stage {
			return true
		}
	}
	return false
}

// CommandFor returns the project's command override for a stage
func (p *Project) CommandFor(stage string) ([]string, bool) {
	argv, ok := p.Commands[stage]
	return argv, ok
}
