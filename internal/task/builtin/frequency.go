package builtin

import (
	"fmt"
	"sync"
	"time"

	"github.com/mwyatt/balance/internal/task"
)

// Frequency tracks whether progress arrives often enough to outpace a decay
// rate. Every tick subtracts rate from the counter; every Progress adds 1.
// The counter trends upward only while progress calls outnumber ticks times
// rate.
type Frequency struct {
	task.TimeBase

	mu      sync.Mutex
	counter float64
	rate    float64
}

// NewFrequency creates a frequency task decaying by rate each tick. A
// non-positive interval falls back to the one-second default.
func NewFrequency(name string, rate float64, interval time.Duration) *Frequency {
	return &Frequency{TimeBase: task.NewTimeBase(name, interval), rate: rate}
}

func (f *Frequency) Type() *task.Type { return FrequencyType }

// Activate catches up missed ticks and joins the shared scheduler.
func (f *Frequency) Activate(r task.Registrar) { f.ActivateTicking(r, f) }

// Update applies one tick of decay.
func (f *Frequency) Update() {
	f.mu.Lock()
	f.counter -= f.rate
	f.mu.Unlock()
}

// UpdateMany applies n ticks in closed form.
func (f *Frequency) UpdateMany(n int64) {
	f.mu.Lock()
	f.counter -= float64(n) * f.rate
	f.mu.Unlock()
}

// Progress increments the counter by 1.
func (f *Frequency) Progress() {
	f.mu.Lock()
	f.counter++
	f.mu.Unlock()
}

func (f *Frequency) Counter() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter
}

func (f *Frequency) Rate() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rate
}

func (f *Frequency) setCounter(v float64) {
	f.mu.Lock()
	f.counter = v
	f.mu.Unlock()
}

func (f *Frequency) setRate(v float64) {
	f.mu.Lock()
	f.rate = v
	f.mu.Unlock()
}

func (f *Frequency) String() string {
	f.mu.Lock()
	counter, rate := f.counter, f.rate
	f.mu.Unlock()
	return fmt.Sprintf("frequency '%s'\t%g Δ%g", f.Name(), counter, rate)
}

// FrequencyType describes frequency tasks to the generic layer. The second
// constructor takes the tick interval in milliseconds.
var FrequencyType = &task.Type{
	Name: "frequency",
	Ctors: []task.Ctor{
		{Params: []task.Kind{task.String, task.Float64}, New: func(args []any) task.Task {
			return NewFrequency(args[0].(string), args[1].(float64), 0)
		}},
		{Params: []task.Kind{task.String, task.Float64, task.Int32}, New: func(args []any) task.Task {
			return NewFrequency(args[0].(string), args[1].(float64), millis(args[2].(int32)))
		}},
	},
	Fields: []task.Field{
		nameField(),
		{Name: "counter", Kind: task.Float64, Editable: true,
			Get: func(t task.Task) any { return t.(*Frequency).Counter() },
			Set: func(t task.Task, v any) { t.(*Frequency).setCounter(v.(float64)) }},
		{Name: "rate", Kind: task.Float64, Editable: true,
			Get: func(t task.Task) any { return t.(*Frequency).Rate() },
			Set: func(t task.Task, v any) { t.(*Frequency).setRate(v.(float64)) }},
		intervalField(),
		lastUpdateField(),
	},
	Empty: func() task.Task { return NewFrequency("", 0, 0) },
}
