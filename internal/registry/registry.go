// Package registry tracks the known task types and loads externally
// authored ones from plugin artifacts, so new task behaviors arrive without
// recompiling the core.
package registry

import (
	"sort"
	"sync"

	"github.com/mwyatt/balance/internal/task"
)

// Registry holds the known task type descriptors, keyed by type name.
// Types are never unregistered during the process lifetime.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*task.Type
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]*task.Type)}
}

// Register adds t unless a type of the same name is already known or the
// descriptor does not satisfy the task shape. It reports whether the type
// was newly added; re-registration is a no-op, not an error.
func (r *Registry) Register(t *task.Type) bool {
	if !t.Valid() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Name]; ok {
		return false
	}
	r.types[t.Name] = t
	return true
}

// Lookup resolves a type by name.
func (r *Registry) Lookup(name string) (*task.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Types returns the registered descriptors sorted by name.
func (r *Registry) Types() []*task.Type {
	r.mu.RLock()
	out := make([]*task.Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
