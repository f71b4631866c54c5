package workspace

// CleanProjects returns the projects the clean stage visits: every
// project that did not skip it
func (m *Manifest) CleanProjects() []Project {
	return m.projectsWhere(StageClean, func(p *Project) bool {
		return true
	})
}

// RestoreProjects returns the projects that take part in dependency
// restore: every project that did not skip the stage
func (m *Manifest) RestoreProjects() []Project {
	return m.projectsWhere(StageRestore, func(p *Project) bool {
		return true
	})
}

// BuildProjects returns the projects that get compiled: libraries and
// apps. Test projects are compiled by their test runner.
func (m *Manifest) BuildProjects() []Project {
	return m.projectsWhere(StageBuild, func(p *Project) bool {
		return p.Category == CategoryLibrary || p.Category == CategoryApp
	})
}

// TestProjects returns the projects whose tests run: test-category
// projects plus any project with a test command override
func (m *Manifest) TestProjects() []Project {
	return m.projectsWhere(StageTest, func(p *Project) bool {
		if p.Category == CategoryTest {
			return true
		}
		_, ok := p.CommandFor(StageTest)
		return ok
	})
}

// CoverProjects returns the projects that contribute coverage: the same
// set as TestProjects, minus cover skips
func (m *Manifest) CoverProjects() []Project {
	return m.projectsWhere(StageCover, func(p *Project) bool {
		if p.SkipsStage(StageTest) {
			return false
		}
		if p.Category == CategoryTest {
			return true
		}
		_, ok := p.CommandFor(StageTest)
		return ok
	})
}

// PackProjects returns the projects that get packaged: apps plus any
// project marked packable
func (m *Manifest) PackProjects() []Project {
	return m.projectsWhere(StagePack, func(p *Project) bool {
		return p.Category == CategoryApp || p.Packable
	})
}

// ProjectByName returns the named project
func (m *Manifest) ProjectByName(name string) (*Project, bool) {
	for i := range m.Projects {
		if m.Projects[i].Name == name {
			return &m.Projects[i], true
		}
	}
	return nil, false
}

// StagesFor reports which stages a project takes part in, in pipeline
// order. Used by 'anvil projects' to show eligibility.
func (m *Manifest) StagesFor(p *Project) []string {
	var stages []string
	contains := func(set []Project) bool {
		for i := range set {
			if set[i].Name == p.Name {
				return true
			}
		}
		return false
	}

	if contains(m.RestoreProjects()) {
		stages = append(stages, StageRestore)
	}
	if contains(m.BuildProjects()) {
		stages = append(stages, StageBuild)
	}
	if contains(m.TestProjects()) {
		stages = append(stages, StageTest)
	}
	if contains(m.CoverProjects()) {
		stages = append(stages, StageCover)
	}
	if contains(m.PackProjects()) {
		stages = append(stages, StagePack)
	}
	return stages
}

// projectsWhere filters projects by eligibility and stage skip, in
// manifest declaration order
func (m *Manifest) projectsWhere(stage string, eligible func(*Project) bool) []Project {
	var out []Project
	for i := range m.Projects {
		p := &m.Projects[i]
		if p.SkipsStage(stage) {
			continue
		}
		if eligible(p) {
			out = append(out, *p)
		}
	}
	return out
}
