package builtin

import (
	"fmt"
	"sync"

	"github.com/mwyatt/balance/internal/task"
)

// Completion is a one-shot task whose only state is done or not. Progress
// flips the flag one way; further calls change nothing.
type Completion struct {
	task.Base

	mu   sync.Mutex
	done bool
}

// NewCompletion creates an incomplete completion task.
func NewCompletion(name string) *Completion {
	return &Completion{Base: task.NewBase(name)}
}

func (c *Completion) Type() *task.Type { return CompletionType }

// Progress marks the task completed.
func (c *Completion) Progress() {
	c.mu.Lock()
	c.done = true
	c.mu.Unlock()
}

// Completed reports whether the task has been progressed at least once.
func (c *Completion) Completed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Completion) setCompleted(done bool) {
	c.mu.Lock()
	c.done = done
	c.mu.Unlock()
}

func (c *Completion) String() string {
	status := "incomplete"
	if c.Completed() {
		status = "completed"
	}
	return fmt.Sprintf("completion '%s'\t%s", c.Name(), status)
}

// CompletionType describes completion tasks to the generic layer. The flag
// surfaces as an int32 field because bool is outside the closed kind set.
var CompletionType = &task.Type{
	Name: "completion",
	Ctors: []task.Ctor{
		{Params: []task.Kind{task.String}, New: func(args []any) task.Task {
			return NewCompletion(args[0].(string))
		}},
	},
	Fields: []task.Field{
		nameField(),
		{Name: "completed", Kind: task.Int32, Editable: true,
			Get: func(t task.Task) any { return boolToInt32(t.(*Completion).Completed()) },
			Set: func(t task.Task, v any) { t.(*Completion).setCompleted(v.(int32) != 0) }},
	},
	Empty: func() task.Task { return NewCompletion("") },
}
