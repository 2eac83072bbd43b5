// Package builtin holds the task variants that ship with balance and their
// type descriptors. Externally authored variants arrive through plugin
// artifacts instead; see the registry package.
package builtin

import (
	"fmt"
	"sync"

	"github.com/mwyatt/balance/internal/task"
)

// Counter counts progress toward a fixed goal and saturates there.
type Counter struct {
	task.Base

	mu      sync.Mutex
	counter int32
	goal    int32
}

// NewCounter creates a counter task aiming for goal.
func NewCounter(name string, goal int32) *Counter {
	return &Counter{Base: task.NewBase(name), goal: goal}
}

func (c *Counter) Type() *task.Type { return CounterType }

// Progress increments the counter unless the goal is already reached.
func (c *Counter) Progress() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counter < c.goal {
		c.counter++
	}
}

// Completed reports whether the counter has reached the goal.
func (c *Counter) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter >= c.goal
}

func (c *Counter) Counter() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}

func (c *Counter) Goal() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goal
}

func (c *Counter) setCounter(n int32) {
	c.mu.Lock()
	c.counter = n
	c.mu.Unlock()
}

func (c *Counter) setGoal(n int32) {
	c.mu.Lock()
	c.goal = n
	c.mu.Unlock()
}

func (c *Counter) String() string {
	c.mu.Lock()
	counter, goal := c.counter, c.goal
	c.mu.Unlock()
	status := fmt.Sprintf("%d/%d", counter, goal)
	if counter >= goal {
		status = "completed"
	}
	return fmt.Sprintf("counter '%s'\t%s", c.Name(), status)
}

// CounterType describes counter tasks to the generic layer.
var CounterType = &task.Type{
	Name: "counter",
	Ctors: []task.Ctor{
		{Params: []task.Kind{task.String, task.Int32}, New: func(args []any) task.Task {
			return NewCounter(args[0].(string), args[1].(int32))
		}},
	},
	Fields: []task.Field{
		nameField(),
		{Name: "counter", Kind: task.Int32, Editable: true,
			Get: func(t task.Task) any { return t.(*Counter).Counter() },
			Set: func(t task.Task, v any) { t.(*Counter).setCounter(v.(int32)) }},
		{Name: "goal", Kind: task.Int32, Editable: true,
			Get: func(t task.Task) any { return t.(*Counter).Goal() },
			Set: func(t task.Task, v any) { t.(*Counter).setGoal(v.(int32)) }},
	},
	Empty: func() task.Task { return NewCounter("", 0) },
}
