// Package sched provides the shared clock that drives time-dependent tasks.
// One background worker fires every registration at its own fixed interval.
package sched

import (
	"container/heap"
	"sync"
	"time"

	"github.com/mwyatt/balance/internal/task"
)

// Scheduler fires registered functions at fixed-rate intervals from a
// single background worker. The next fire time is computed from the
// previous scheduled time, not the previous completion, so transient
// jitter does not accumulate drift. Running everything on one worker also
// means no registration's function ever overlaps itself.
type Scheduler struct {
	now func() time.Time

	mu      sync.Mutex
	entries entryHeap
	wake    chan struct{}
	stopped bool
	done    chan struct{}
}

type entry struct {
	next     time.Time
	interval time.Duration
	fn       func()
	canceled bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a scheduler and starts its worker. Stop releases it.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		now:  time.Now,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.run()
	return s
}

// Schedule registers fn to run every interval, first at now+interval.
// The returned cancel func revokes the registration; cancellation is
// idempotent. A tick that runs long delays only this registration's
// subsequent ticks.
func (s *Scheduler) Schedule(interval time.Duration, fn func()) task.CancelFunc {
	e := &entry{next: s.now().Add(interval), interval: interval, fn: fn}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return func() {}
	}
	heap.Push(&s.entries, e)
	s.mu.Unlock()
	s.kick()

	return func() {
		s.mu.Lock()
		e.canceled = true
		s.mu.Unlock()
	}
}

// Stop releases the worker. Registrations never fire again afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.stopped = true
	s.mu.Unlock()
	s.kick()
	<-s.done
}

func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer close(s.done)
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}

		var due *entry
		wait := time.Duration(-1)
		for len(s.entries) > 0 {
			top := s.entries[0]
			if top.canceled {
				heap.Pop(&s.entries)
				continue
			}
			if d := top.next.Sub(s.now()); d > 0 {
				wait = d
				break
			}
			// fixed-rate: reschedule from the scheduled time before running,
			// so an overdue entry catches up in a burst
			due = top
			top.next = top.next.Add(top.interval)
			heap.Fix(&s.entries, 0)
			break
		}
		s.mu.Unlock()

		if due != nil {
			due.fn()
			continue
		}

		if wait < 0 {
			// idle until something is scheduled or Stop
			<-s.wake
			continue
		}

		timer.Reset(wait)
		select {
		case <-s.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
		}
	}
}

type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].next.Before(h[j].next) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
