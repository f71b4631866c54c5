package task

import (
	"sort"

	"github.com/anvilbuild/anvil/internal/errors"
)

// Registry holds the set of registered tasks and, once finalized, the
// validated dependency graph over them
type Registry struct {
	tasks       map[string]*Task
	defaultTask string
	sealed      bool
}

// NewRegistry creates an empty task registry
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]*Task),
	}
}

// Register adds a task to the registry with validation
// Returns an error if:
// - The registry has already been finalized
// - The task name is empty
// - The task name is already registered
// - The task has neither an action nor dependencies
func (r *Registry) Register(t *Task) error {
	if r.sealed {
		return errors.New(errors.ErrCodeTaskRegistrySeal, "registry is finalized, no further tasks can be registered")
	}

	if t.Name == "" {
		return errors.New(errors.ErrCodeTaskEmptyName, "task name must not be empty")
	}

	if t.Action == nil && len(t.Deps) == 0 {
		return errors.New(errors.ErrCodeTaskNilAction, "task "+t.Name+" has no action and no dependencies").
			WithSuggestion("Give the task an action or declare at least one dependency")
	}

	if _, exists := r.tasks[t.Name]; exists {
		return errors.New(errors.ErrCodeTaskDuplicate, "task already registered: "+t.Name)
	}

	r.tasks[t.Name] = t
	return nil
}

// SetDefault records the task to run when no target is named.
// The name is validated against the registered set at Finalize time.
func (r *Registry) SetDefault(name string) {
	r.defaultTask = name
}

// Default returns the default task name, or empty if none was set
func (r *Registry) Default() string {
	return r.defaultTask
}

// Get returns the task with the given name
func (r *Registry) Get(name string) (*Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Names returns all registered task names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tasks))
	for name := range r.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tasks returns all registered tasks sorted by name
func (r *Registry) Tasks() []*Task {
	tasks := make([]*Task, 0, len(r.tasks))
	for _, name := range r.Names() {
		tasks = append(tasks, r.tasks[name])
	}
	return tasks
}

// Len returns the number of registered tasks
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Finalize validates the dependency graph and seals the registry.
// Returns an error if:
// - Any task depends on an unregistered task
// - The graph contains a cycle (the error carries one deterministic cycle path)
// - The default task names an unregistered task
func (r *Registry) Finalize() error {
	// Every declared dependency must exist. Names are walked in sorted
	// order so the first reported failure is stable.
	for _, name := range r.Names() {
		for _, dep := range r.tasks[name].Deps {
			if _, exists := r.tasks[dep]; !exists {
				return errors.NewTaskMissingDepError(name, dep)
			}
		}
	}

	if cycle := r.findCycle(); cycle != nil {
		return errors.NewTaskCycleError(cycle)
	}

	if r.defaultTask != "" {
		if _, exists := r.tasks[r.defaultTask]; !exists {
			return errors.NewTaskUnknownError(r.defaultTask, r.Names()).
				WithSuggestion("Fix default_task in the workspace manifest")
		}
	}

	r.sealed = true
	return nil
}

// Sealed reports whether Finalize has run successfully
func (r *Registry) Sealed() bool {
	return r.sealed
}

// findCycle performs a deterministic DFS over sorted task names and returns
// one cycle path (closed, first node repeated at the end), or nil when the
// graph is acyclic. It does not attempt to list all cycles; it returns a
// single stable witness.
func (r *Registry) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(r.tasks))
	parent := make(map[string]string, len(r.tasks))

	var cycle []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		color[name] = gray
		for _, dep := range r.tasks[name].Deps {
			if color[dep] == white {
				parent[dep] = name
				if dfs(dep) {
					return true
				}
				continue
			}
			if color[dep] == gray {
				// Back-edge name -> dep. Reconstruct dep ... name -> dep.
				cycle = append(cycle, dep)
				cur := name
				for cur != "" && cur != dep {
					cycle = append(cycle, cur)
					cur = parent[cur]
				}
				cycle = append(cycle, dep)
				return true
			}
		}
		color[name] = black
		return false
	}

	for _, name := range r.Names() {
		if color[name] != white {
			continue
		}
		if dfs(name) {
			break
		}
	}

	if len(cycle) == 0 {
		return nil
	}

	// The walk above collects the path backwards; reverse into dep order.
	out := make([]string, len(cycle))
	for i := range cycle {
		out[i] = cycle[len(cycle)-1-i]
	}
	return out
}
