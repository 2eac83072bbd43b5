package builtin

import (
	"fmt"
	"sync"
	"time"

	"github.com/mwyatt/balance/internal/task"
)

// Rate accrues while active and bleeds off while idle. Progress switches
// the task on, one way; every tick then adds rate to the counter, or
// subtracts 1 until that happens.
type Rate struct {
	task.TimeBase

	mu      sync.Mutex
	counter float64
	rate    float64
	active  bool
}

// NewRate creates an idle rate task accruing rate per tick once activated
// by progress. A non-positive interval falls back to the one-second default.
func NewRate(name string, rate float64, interval time.Duration) *Rate {
	return &Rate{TimeBase: task.NewTimeBase(name, interval), rate: rate}
}

func (r *Rate) Type() *task.Type { return RateType }

// Activate catches up missed ticks and joins the shared scheduler.
func (r *Rate) Activate(reg task.Registrar) { r.ActivateTicking(reg, r) }

// Update applies one tick: +rate while active, -1 while idle.
func (r *Rate) Update() {
	r.mu.Lock()
	if r.active {
		r.counter += r.rate
	} else {
		r.counter--
	}
	r.mu.Unlock()
}

// UpdateMany applies n ticks in closed form. The active state is constant
// across a catch-up batch, so the sum collapses.
func (r *Rate) UpdateMany(n int64) {
	r.mu.Lock()
	if r.active {
		r.counter += float64(n) * r.rate
	} else {
		r.counter -= float64(n)
	}
	r.mu.Unlock()
}

// Progress switches the task active.
func (r *Rate) Progress() {
	r.mu.Lock()
	r.active = true
	r.mu.Unlock()
}

// Active reports whether progress has switched the task on.
func (r *Rate) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Rate) Counter() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counter
}

func (r *Rate) RateValue() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rate
}

func (r *Rate) setCounter(v float64) {
	r.mu.Lock()
	r.counter = v
	r.mu.Unlock()
}

func (r *Rate) setRate(v float64) {
	r.mu.Lock()
	r.rate = v
	r.mu.Unlock()
}

func (r *Rate) setActive(on bool) {
	r.mu.Lock()
	r.active = on
	r.mu.Unlock()
}

func (r *Rate) String() string {
	r.mu.Lock()
	counter, rate, active := r.counter, r.rate, r.active
	r.mu.Unlock()
	state := "idle"
	if active {
		state = "active"
	}
	return fmt.Sprintf("rate '%s'\t%g Δ%g %s", r.Name(), counter, rate, state)
}

// RateType describes rate tasks to the generic layer. The second
// constructor takes the tick interval in milliseconds.
var RateType = &task.Type{
	Name: "rate",
	Ctors: []task.Ctor{
		{Params: []task.Kind{task.String, task.Float64}, New: func(args []any) task.Task {
			return NewRate(args[0].(string), args[1].(float64), 0)
		}},
		{Params: []task.Kind{task.String, task.Float64, task.Int32}, New: func(args []any) task.Task {
			return NewRate(args[0].(string), args[1].(float64), millis(args[2].(int32)))
		}},
	},
	Fields: []task.Field{
		nameField(),
		{Name: "counter", Kind: task.Float64, Editable: true,
			Get: func(t task.Task) any { return t.(*Rate).Counter() },
			Set: func(t task.Task, v any) { t.(*Rate).setCounter(v.(float64)) }},
		{Name: "rate", Kind: task.Float64, Editable: true,
			Get: func(t task.Task) any { return t.(*Rate).RateValue() },
			Set: func(t task.Task, v any) { t.(*Rate).setRate(v.(float64)) }},
		{Name: "active", Kind: task.Int32, Editable: true,
			Get: func(t task.Task) any { return boolToInt32(t.(*Rate).Active()) },
			Set: func(t task.Task, v any) { t.(*Rate).setActive(v.(int32) != 0) }},
		intervalField(),
		lastUpdateField(),
	},
	Empty: func() task.Task { return NewRate("", 0, 0) },
}
