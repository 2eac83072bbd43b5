// Package task defines the task abstraction: the Task and TimeDependent
// interfaces, the per-type descriptors that drive generic construction and
// mutation from plain strings, and the base types concrete variants embed.
//
// Only int32, int64, float64, and string values cross the generic layer.
// Constructors are considered in declaration order and the first full match
// is invoked. Custom task types register their descriptor with the registry;
// no runtime introspection is involved.
package task

import (
	"sync"
	"time"
)

// CancelFunc revokes a scheduler registration.
type CancelFunc func()

// Registrar schedules a function to run repeatedly at a fixed interval.
// The scheduler implements it; tasks see nothing else of the scheduler.
type Registrar interface {
	Schedule(interval time.Duration, fn func()) CancelFunc
}

// Task is a named unit of tracked work. What progress means is wholly
// defined by the concrete variant.
type Task interface {
	Name() string
	Type() *Type

	// Progress advances the task in whatever way the variant defines.
	Progress()

	// Activate runs one-time setup when the task enters a collection,
	// either freshly constructed or restored from a save file.
	// Implementations must tolerate repeated calls.
	Activate(r Registrar)

	// Deactivate revokes any scheduler registration. No-op for most tasks.
	Deactivate()

	// String renders "type 'name'" followed by a tab and variant status.
	String() string
}

// TimeDependent is a Task that also mutates itself on a clock.
type TimeDependent interface {
	Task

	// Update applies a single tick.
	Update()

	// UpdateMany applies n ticks. Variants with a closed form must override
	// the serial default so catch-up after long gaps stays cheap.
	UpdateMany(n int64)

	Interval() time.Duration
}

// Base carries the identity shared by all variants.
type Base struct {
	name string
}

// NewBase returns a Base with the given name.
func NewBase(name string) Base { return Base{name: name} }

func (b *Base) Name() string { return b.name }

// SetName is used by persistence restore only; live renames are not
// supported through generic mutation.
func (b *Base) SetName(name string) { b.name = name }

// Activate is a no-op; variants needing setup override it.
func (b *Base) Activate(Registrar) {}

// Deactivate is a no-op; time-dependent variants override it.
func (b *Base) Deactivate() {}

// DefaultInterval is the tick period used when a constructor does not take
// one explicitly.
const DefaultInterval = time.Second

// TimeBase carries the clock state shared by time-dependent variants: the
// fixed tick interval, the last-update timestamp catch-up is computed from,
// and the once-guard on activation.
type TimeBase struct {
	Base

	mu        sync.Mutex
	interval  time.Duration
	last      time.Time
	activated bool
	cancel    CancelFunc
}

// NewTimeBase returns a TimeBase ticking every interval. Non-positive
// intervals fall back to DefaultInterval.
func NewTimeBase(name string, interval time.Duration) TimeBase {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return TimeBase{Base: NewBase(name), interval: interval, last: time.Now()}
}

func (t *TimeBase) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// SetInterval is used by persistence restore; the interval is otherwise
// fixed at construction.
func (t *TimeBase) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	t.mu.Lock()
	t.interval = d
	t.mu.Unlock()
}

// LastUpdate reports the wall-clock time of the most recent tick.
func (t *TimeBase) LastUpdate() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// SetLastUpdate is used by persistence restore to carry the timestamp that
// catch-up on the next activation is computed from.
func (t *TimeBase) SetLastUpdate(at time.Time) {
	t.mu.Lock()
	t.last = at
	t.mu.Unlock()
}

// ActivateTicking catches up ticks missed since the last recorded update,
// then registers u with the scheduler at the fixed interval. A second call
// is a no-op. Time-dependent variants call this from their Activate.
func (t *TimeBase) ActivateTicking(r Registrar, u TimeDependent) {
	t.mu.Lock()
	if t.activated {
		t.mu.Unlock()
		return
	}
	t.activated = true
	interval := t.interval
	missed := int64(time.Since(t.last) / interval)
	if missed > 0 {
		t.last = t.last.Add(time.Duration(missed) * interval)
	}
	t.mu.Unlock()

	// non-trivial number of missed ticks when restoring from a save file
	if missed > 0 {
		u.UpdateMany(missed)
	}

	cancel := r.Schedule(interval, func() {
		u.Update()
		t.mu.Lock()
		t.last = time.Now()
		t.mu.Unlock()
	})
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
}

// Deactivate revokes the scheduler registration, if any.
func (t *TimeBase) Deactivate() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
