// Package balance holds the live set of tasks, keyed by unique name, plus
// the names whose save artifacts still need deleting.
package balance

import (
	"sync"

	"github.com/mwyatt/balance/internal/task"
)

// Balance is the in-memory task collection. Membership has its own lock,
// which is never held across task activation or any per-instance lock, so
// a slow tick can never stall an unrelated add or remove.
type Balance struct {
	reg task.Registrar

	mu            sync.RWMutex
	tasks         map[string]task.Task
	pendingDelete map[string]struct{}
}

// New creates an empty collection whose tasks activate against reg.
func New(reg task.Registrar) *Balance {
	return &Balance{
		reg:           reg,
		tasks:         make(map[string]task.Task),
		pendingDelete: make(map[string]struct{}),
	}
}

// Add activates t and inserts it. It reports false and changes nothing if
// a task with the same name is already present; activation does not happen
// in that case. A successful add clears the name from pending-delete.
func (b *Balance) Add(t task.Task) bool {
	name := t.Name()

	b.mu.RLock()
	_, exists := b.tasks[name]
	b.mu.RUnlock()
	if exists {
		return false
	}

	// catch-up and scheduler registration happen here, outside the
	// membership lock
	t.Activate(b.reg)

	b.mu.Lock()
	if _, exists := b.tasks[name]; exists {
		b.mu.Unlock()
		t.Deactivate()
		return false
	}
	delete(b.pendingDelete, name)
	b.tasks[name] = t
	b.mu.Unlock()
	return true
}

// Remove deletes the named task and records the name for artifact cleanup.
// The name is recorded even when no such task exists, to be conservative
// about stale save files.
func (b *Balance) Remove(name string) bool {
	b.mu.Lock()
	t, ok := b.tasks[name]
	delete(b.tasks, name)
	b.pendingDelete[name] = struct{}{}
	b.mu.Unlock()

	if ok {
		t.Deactivate()
	}
	return ok
}

// Get returns the live task with the given name.
func (b *Balance) Get(name string) (task.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.tasks[name]
	return t, ok
}

// Len reports the number of live tasks.
func (b *Balance) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tasks)
}

// Tasks returns a point-in-time snapshot of the live tasks, unordered.
// Mutating membership while ranging over a snapshot is safe; the snapshot
// just goes stale.
func (b *Balance) Tasks() []task.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]task.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, t)
	}
	return out
}

// PendingDelete returns a copy of the names whose save artifacts await
// cleanup.
func (b *Balance) PendingDelete() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.pendingDelete))
	for name := range b.pendingDelete {
		out = append(out, name)
	}
	return out
}

// ClearPendingDelete forgets the given names, called after the persistence
// writer has deleted their artifacts.
func (b *Balance) ClearPendingDelete(names []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, name := range names {
		delete(b.pendingDelete, name)
	}
}
