package workspace

import (
	"reflect"
	"testing"
)

// classifyFixture covers every eligibility rule: categories, skip
// lists, packable flags, and test command overrides
func classifyFixture() *Manifest {
	return &Manifest{
		Workspace: "acme",
		Projects: []Project{
			{Name: "core", Path: "src/core", Category: CategoryLibrary},
			{Name: "cli", Path: "src/cli", Category: CategoryApp},
			{Name: "core-tests", Path: "tests/core", Category: CategoryTest},
			{Name: "bench", Path: "tests/bench", Category: CategoryTest, Skip: []string{StageTest}},
			{Name: "smoke", Path: "tests/smoke", Category: CategoryTest, Skip: []string{StageCover}},
			{Name: "tools", Path: "src/tools", Category: CategoryLibrary, Packable: true},
			{Name: "legacy", Path: "src/legacy", Category: CategoryLibrary, Skip: []string{StageClean, StageRestore, StageBuild}},
			{Name: "scripts", Path: "src/scripts", Category: CategoryLibrary,
				Commands: map[string][]string{StageTest: {"./check.sh"}}},
		},
	}
}

func projectNames(projects []Project) []string {
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return names
}

func TestClassification(t *testing.T) {
	m := classifyFixture()

	tests := []struct {
		name string
		got  []Project
		want []string
	}{
		{
			name: "clean visits everything not skipping it",
			got:  m.CleanProjects(),
			want: []string{"core", "cli", "core-tests", "bench", "smoke", "tools", "scripts"},
		},
		{
			name: "restore includes everything not skipping it",
			got:  m.RestoreProjects(),
			want: []string{"core", "cli", "core-tests", "bench", "smoke", "tools", "scripts"},
		},
		{
			name: "build takes libraries and apps",
			got:  m.BuildProjects(),
			want: []string{"core", "cli", "tools", "scripts"},
		},
		{
			name: "test takes test projects and override holders",
			got:  m.TestProjects(),
			want: []string{"core-tests", "smoke", "scripts"},
		},
		{
			name: "cover drops cover and test skips",
			got:  m.CoverProjects(),
			want: []string{"core-tests", "scripts"},
		},
		{
			name: "pack takes apps and packable projects",
			got:  m.PackProjects(),
			want: []string{"cli", "tools"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := projectNames(tt.got); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStagesFor(t *testing.T) {
	m := classifyFixture()

	tests := []struct {
		project string
		want    []string
	}{
		{"core", []string{StageRestore, StageBuild}},
		{"cli", []string{StageRestore, StageBuild, StagePack}},
		{"core-tests", []string{StageRestore, StageTest, StageCover}},
		{"bench", []string{StageRestore}},
		{"smoke", []string{StageRestore, StageTest}},
		{"tools", []string{StageRestore, StageBuild, StagePack}},
		{"legacy", nil},
		{"scripts", []string{StageRestore, StageBuild, StageTest, StageCover}},
	}

	for _, tt := range tests {
		t.Run(tt.project, func(t *testing.T) {
			p, ok := m.ProjectByName(tt.project)
			if !ok {
				t.Fatalf("project %q not found", tt.project)
			}
			if got := m.StagesFor(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StagesFor(%s) = %v, want %v", tt.project, got, tt.want)
			}
		})
	}
}

func TestProjectByName(t *testing.T) {
	m := classifyFixture()

	p, ok := m.ProjectByName("tools")
	if !ok {
		t.Fatal("expected tools to be found")
	}
	if p.Path != "src/tools" {
		t.Errorf("path = %q, want src/tools", p.Path)
	}

	if _, ok := m.ProjectByName("missing"); ok {
		t.Error("expected missing project to not be found")
	}
}
