package task

import (
	"github.com/anvilbuild/anvil/internal/errors"
)

// Plan is the resolved execution order for one invocation. Tasks appear
// prerequisites-first, each at most once, even when reachable through
// several paths or requested more than once.
type Plan struct {
	Targets []string
	Only    bool
	Tasks   []*Task
}

// Names returns the task names in execution order
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		names = append(names, t.Name)
	}
	return names
}

// Plan resolves the dependency closure of the requested targets into a
// single execution order. Dependencies run before their dependents, in
// declaration order, and a task reachable from several targets is planned
// once. Requires a finalized registry.
func (r *Registry) Plan(targets ...string) (*Plan, error) {
	targets, err := r.resolveTargets(targets)
	if err != nil {
		return nil, err
	}

	p := &Plan{Targets: targets}
	visited := make(map[string]bool, len(r.tasks))

	// The graph is validated at Finalize, so the walk cannot loop.
	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		t := r.tasks[name]
		for _, dep := range t.Deps {
			visit(dep)
		}
		p.Tasks = append(p.Tasks, t)
	}

	for _, target := range targets {
		visit(target)
	}

	return p, nil
}

// PlanOnly resolves the requested targets without their dependency
// closure. Duplicate targets still collapse to one execution.
func (r *Registry) PlanOnly(targets ...string) (*Plan, error) {
	targets, err := r.resolveTargets(targets)
	if err != nil {
		return nil, err
	}

	p := &Plan{Targets: targets, Only: true}
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		if seen[target] {
			continue
		}
		seen[target] = true
		p.Tasks = append(p.Tasks, r.tasks[target])
	}

	return p, nil
}

// resolveTargets applies the default task, rejects unknown names and
// collapses duplicates while preserving request order
func (r *Registry) resolveTargets(targets []string) ([]string, error) {
	if len(targets) == 0 {
		if r.defaultTask == "" {
			return nil, errors.New(errors.ErrCodeTaskUnknown, "no task requested and no default task configured").
				WithSuggestion("Name a task: anvil run <task>").
				WithSuggestion("Set default_task in the workspace manifest")
		}
		targets = []string{r.defaultTask}
	}

	out := make([]string, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, target := range targets {
		if _, exists := r.tasks[target]; !exists {
			return nil, errors.NewTaskUnknownError(target, r.Names())
		}
		if seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out, nil
}
