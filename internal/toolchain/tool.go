package toolchain

import (
	"os"
	"os/exec"
	"strings"

	"github.com/anvilbuild/anvil/internal/errors"
)

// EnvPrefix is prepended to the uppercased tool name to form the
// per-tool override variable, e.g. ANVIL_TOOL_GO
const EnvPrefix = "ANVIL_TOOL_"

// Tool describes one external executable anvil drives
type Tool struct {
	// Name is the logical name used in manifest pins and env overrides
	Name string
	// Executable is the default name looked up on PATH
	Executable string
	// VersionArgs prints the tool version; empty when the tool has no
	// version flag
	VersionArgs []string
}

// EnvVar returns the environment override variable for the tool.
// Characters that cannot appear in an environment variable name become
// underscores, so ad-hoc tools like publish commands get a usable
// override too.
func (t Tool) EnvVar() string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, t.Name)
	return EnvPrefix + strings.ToUpper(name)
}

// Built-in tools driven by the pipeline stages
var (
	// Go compiles, restores and tests projects
	Go = Tool{Name: "go", Executable: "go", VersionArgs: []string{"version"}}
	// Tar packages project outputs into versioned archives
	Tar = Tool{Name: "tar", Executable: "tar", VersionArgs: []string{"--version"}}
	// Cover converts Go coverage profiles to Cobertura XML
	Cover = Tool{Name: "cover", Executable: "gocover-cobertura"}
)

// KnownTools lists the built-in tools in doctor display order
func KnownTools() []Tool {
	return []Tool{Go, Tar, Cover}
}

// Source says where a tool path came from
type Source string

const (
	// SourceEnv means an ANVIL_TOOL_<NAME> override
	SourceEnv Source = "env"
	// SourceManifest means a pin under tools: in anvil.yaml
	SourceManifest Source = "manifest"
	// SourcePath means a plain PATH lookup of the default executable
	SourcePath Source = "path"
)

// Resolution is a successfully located tool
type Resolution struct {
	Tool   Tool
	Path   string
	Source Source
}

// Resolver locates external tools. Precedence: ANVIL_TOOL_<NAME>
// environment override, then the manifest pin, then PATH lookup of the
// default executable name.
type Resolver struct {
	// Pins maps tool names to paths from the manifest tools: section
	Pins map[string]string
}

// NewResolver creates a resolver with the given manifest pins
func NewResolver(pins map[string]string) *Resolver {
	return &Resolver{Pins: pins}
}

// Resolve locates a tool, verifying the candidate is executable. Env
// overrides and pins may name either a path or a bare executable; both
// go through exec.LookPath.
func (r *Resolver) Resolve(tool Tool) (Resolution, error) {
	if override := os.Getenv(tool.EnvVar()); override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return Resolution{}, errors.NewToolNotFoundError(tool.Name, override, tool.EnvVar()).
				WithSuggestion("The env override points at a missing or non-executable file")
		}
		return Resolution{Tool: tool, Path: path, Source: SourceEnv}, nil
	}

	if pin, ok := r.Pins[tool.Name]; ok && pin != "" {
		path, err := exec.LookPath(pin)
		if err != nil {
			return Resolution{}, errors.NewToolNotFoundError(tool.Name, pin, tool.EnvVar()).
				WithSuggestion("Fix the pin under tools: in anvil.yaml")
		}
		return Resolution{Tool: tool, Path: path, Source: SourceManifest}, nil
	}

	path, err := exec.LookPath(tool.Executable)
	if err != nil {
		return Resolution{}, errors.NewToolNotFoundError(tool.Name, tool.Executable, tool.EnvVar())
	}
	return Resolution{Tool: tool, Path: path, Source: SourcePath}, nil
}
