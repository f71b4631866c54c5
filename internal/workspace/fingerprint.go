package workspace

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Canonicalize returns a canonical JSON representation of the manifest
// with stable ordering for consistent hashing
func Canonicalize(m *Manifest) ([]byte, error) {
	data := map[string]interface{}{
		"workspace":    m.Workspace,
		"default_task": m.DefaultTask,
	}

	if len(m.Tools) > 0 {
		tools := make(map[string]interface{}, len(m.Tools))
		for name, path := range m.Tools {
			tools[name] = path
		}
		data["tools"] = tools
	}

	if m.Artifacts != (Artifacts{}) {
		artifacts := map[string]interface{}{}
		if m.Artifacts.Dir != "" {
			artifacts["dir"] = m.Artifacts.Dir
		}
		if m.Artifacts.Version != "" {
			artifacts["version"] = m.Artifacts.Version
		}
		data["artifacts"] = artifacts
	}

	if len(m.Publish.Command) > 0 || m.Publish.SigningKey != "" {
		publish := map[string]interface{}{}
		if len(m.Publish.Command) > 0 {
			publish["command"] = m.Publish.Command
		}
		if m.Publish.SigningKey != "" {
			publish["signing_key"] = m.Publish.SigningKey
		}
		data["publish"] = publish
	}

	projects := make([]map[string]interface{}, len(m.Projects))
	for i, p := range m.Projects {
		project := map[string]interface{}{
			"name":     p.Name,
			"path":     p.Path,
			"category": string(p.Category),
		}
		if len(p.Skip) > 0 {
			project["skip"] = p.Skip
		}
		if len(p.Commands) > 0 {
			commands := make(map[string]interface{}, len(p.Commands))
			for stage, argv := range p.Commands {
				commands[stage] = argv
			}
			project["commands"] = commands
		}
		if p.Packable {
			project["packable"] = p.Packable
		}
		projects[i] = project
	}
	data["projects"] = projects

	return json.Marshal(sortKeys(data))
}

// Fingerprint computes the blake3 hash of the canonicalized manifest
func Fingerprint(m *Manifest) (string, error) {
	canonical, err := Canonicalize(m)
	if err != nil {
		return "", fmt.Errorf("canonicalize manifest: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash manifest: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// sortKeys recursively sorts map keys for stable JSON output
func sortKeys(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sorted := make(map[string]interface{}, len(val))
		for _, k := range keys {
			sorted[k] = sortKeys(val[k])
		}
		return sorted

	case []interface{}:
		for i, item := range val {
			val[i] = sortKeys(item)
		}
		return val

	case []map[string]interface{}:
		for i, item := range val {
			val[i] = sortKeys(item).(map[string]interface{})
		}
		return val

	default:
		return v
	}
}
