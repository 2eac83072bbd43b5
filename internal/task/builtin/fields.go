package builtin

import (
	"time"

	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/task"
)

// RegisterAll registers the built-in task types. Called once at startup;
// re-registration is a no-op.
func RegisterAll(r *registry.Registry) {
	r.Register(CounterType)
	r.Register(CompletionType)
	r.Register(FrequencyType)
	r.Register(RateType)
}

// nameField declares the shared identity field. It is listed so listings
// and save files include it, but generic mutation may not touch it: renaming
// a live task would desynchronize the collection's keying.
func nameField() task.Field {
	return task.Field{
		Name: "name",
		Kind: task.String,
		Get:  func(t task.Task) any { return t.Name() },
		Set:  func(t task.Task, v any) { t.(renamer).SetName(v.(string)) },
	}
}

// timeState is the TimeBase surface the shared clock fields go through.
type timeState interface {
	Interval() time.Duration
	SetInterval(time.Duration)
	LastUpdate() time.Time
	SetLastUpdate(time.Time)
}

type renamer interface {
	SetName(string)
}

// intervalField declares the fixed tick period of a time-dependent variant,
// in milliseconds. Not editable: the interval is fixed at construction.
func intervalField() task.Field {
	return task.Field{
		Name: "interval_ms",
		Kind: task.Int32,
		Get:  func(t task.Task) any { return int32(t.(timeState).Interval() / time.Millisecond) },
		Set:  func(t task.Task, v any) { t.(timeState).SetInterval(millis(v.(int32))) },
	}
}

// lastUpdateField declares the last-tick timestamp catch-up is computed
// from, as epoch milliseconds.
func lastUpdateField() task.Field {
	return task.Field{
		Name: "last_update_ms",
		Kind: task.Int64,
		Get:  func(t task.Task) any { return t.(timeState).LastUpdate().UnixMilli() },
		Set:  func(t task.Task, v any) { t.(timeState).SetLastUpdate(time.UnixMilli(v.(int64))) },
	}
}

func millis(ms int32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
