package repl

import (
	"strings"
	"testing"
	"time"

	"github.com/mwyatt/balance/internal/balance"
	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/store"
	"github.com/mwyatt/balance/internal/task"
	"github.com/mwyatt/balance/internal/task/builtin"
)

type nopRegistrar struct{}

func (nopRegistrar) Schedule(time.Duration, func()) task.CancelFunc { return func() {} }

func newDispatcher(t *testing.T) (*Dispatcher, *strings.Builder) {
	t.Helper()
	reg := registry.New()
	builtin.RegisterAll(reg)
	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	out := &strings.Builder{}
	return &Dispatcher{
		Balance:  balance.New(nopRegistrar{}),
		Registry: reg,
		Store:    s,
		Out:      out,
	}, out
}

func TestDispatchQuit(t *testing.T) {
	d, _ := newDispatcher(t)

	for _, cmd := range []string{"quit", "exit"} {
		if d.Dispatch([]string{cmd}) {
			t.Errorf("Dispatch(%q) = true, want false to signal exit", cmd)
		}
	}
}

func TestDispatchUnknownPrintsHelp(t *testing.T) {
	d, out := newDispatcher(t)

	if !d.Dispatch([]string{"frobnicate"}) {
		t.Fatal("Dispatch() = false for unknown command, want true")
	}
	if got := out.String(); !strings.Contains(got, "Unrecognized command: frobnicate") ||
		!strings.Contains(got, "COMMANDS:") {
		t.Errorf("output = %q, want unknown-command notice followed by help", got)
	}
}

func TestCreateListProgress(t *testing.T) {
	d, out := newDispatcher(t)

	d.Dispatch([]string{"create", "counter", "gym", "30"})
	d.Dispatch([]string{"progress", "gym", "gym"})
	out.Reset()

	d.Dispatch([]string{"list"})
	if got := out.String(); !strings.Contains(got, "counter 'gym'") || !strings.Contains(got, "2/30") {
		t.Errorf("list output = %q, want the counter at 2/30", got)
	}
}

func TestCreateDuplicateRejected(t *testing.T) {
	d, out := newDispatcher(t)

	d.Dispatch([]string{"create", "completion", "gym"})
	out.Reset()
	d.Dispatch([]string{"create", "counter", "gym", "3"})

	if got := out.String(); !strings.Contains(got, "Task already exists: gym") {
		t.Errorf("output = %q, want duplicate-name rejection", got)
	}
	if got, _ := d.Balance.Get("gym"); got.Type() != builtin.CompletionType {
		t.Error("duplicate create replaced the original task")
	}
}

func TestCreateBadArguments(t *testing.T) {
	d, out := newDispatcher(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown type", []string{"create", "nope", "x"}, "Unknown task type: nope"},
		{"no constructor match", []string{"create", "counter", "gym"}, "Construction failed"},
		{"unparsable argument", []string{"create", "counter", "gym", "lots"}, "Construction failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			d.Dispatch(tt.args)
			if got := out.String(); !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want substring %q", got, tt.want)
			}
			if d.Balance.Len() != 0 {
				t.Error("failed create still added a task")
			}
		})
	}
}

func TestListNamedShowsEditableFields(t *testing.T) {
	d, out := newDispatcher(t)

	d.Dispatch([]string{"create", "counter", "gym", "30"})
	out.Reset()
	d.Dispatch([]string{"list", "gym", "ghost"})

	got := out.String()
	for _, want := range []string{"int32 counter:", "int32 goal:", "Task 'ghost' does not exist"} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want substring %q", got, want)
		}
	}
	if strings.Contains(got, "name:") {
		t.Errorf("output = %q, lists the non-editable name field", got)
	}
}

func TestEditAppliesAllOrNothing(t *testing.T) {
	d, out := newDispatcher(t)
	d.Dispatch([]string{"create", "counter", "gym", "30"})

	d.Dispatch([]string{"edit", "gym", "counter=5", "goal=40"})
	got, _ := d.Balance.Get("gym")
	c := got.(*builtin.Counter)
	if c.Counter() != 5 || c.Goal() != 40 {
		t.Fatalf("after edit: %d/%d, want 5/40", c.Counter(), c.Goal())
	}

	out.Reset()
	d.Dispatch([]string{"edit", "gym", "counter=6", "goal=oops"})
	if c.Counter() != 5 || c.Goal() != 40 {
		t.Errorf("failed edit partially applied: %d/%d, want 5/40 untouched", c.Counter(), c.Goal())
	}
	if got := out.String(); got == "" {
		t.Error("failed edit produced no diagnostics")
	}
}

func TestEditMalformedPairReportsEverything(t *testing.T) {
	d, out := newDispatcher(t)
	d.Dispatch([]string{"create", "counter", "gym", "30"})
	out.Reset()

	d.Dispatch([]string{"edit", "gym", "counter", "goal=oops"})

	got := out.String()
	if !strings.Contains(got, "Argument is not KEY=VALUE pair: counter") {
		t.Errorf("output = %q, want malformed-pair notice", got)
	}
	if !strings.Contains(got, "oops") {
		t.Errorf("output = %q, want the bad value diagnosed as well", got)
	}
	c, _ := d.Balance.Get("gym")
	if counter := c.(*builtin.Counter).Counter(); counter != 0 {
		t.Errorf("Counter() = %d after rejected edit, want 0", counter)
	}
}

func TestEditWithoutPairsListsFields(t *testing.T) {
	d, out := newDispatcher(t)
	d.Dispatch([]string{"create", "counter", "gym", "30"})
	out.Reset()

	d.Dispatch([]string{"edit", "gym"})
	if got := out.String(); !strings.Contains(got, "int32 goal:") {
		t.Errorf("output = %q, want the field listing", got)
	}
}

func TestRmReportsMissing(t *testing.T) {
	d, out := newDispatcher(t)
	d.Dispatch([]string{"create", "completion", "gym"})
	out.Reset()

	d.Dispatch([]string{"rm", "gym", "ghost"})
	if got := out.String(); !strings.Contains(got, "Task 'ghost' does not exist") {
		t.Errorf("output = %q, want missing-task notice", got)
	}
	if d.Balance.Len() != 0 {
		t.Errorf("Len() = %d after rm, want 0", d.Balance.Len())
	}
}

func TestHelpListsTypesAndSignatures(t *testing.T) {
	d, out := newDispatcher(t)

	d.Dispatch([]string{"help"})
	got := out.String()
	for _, want := range []string{
		"COMMANDS:",
		"TASK TYPES:",
		"counter( string, int32 )",
		"frequency( string, float64 )",
		"frequency( string, float64, int32 )",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRunReadsUntilQuit(t *testing.T) {
	d, out := newDispatcher(t)

	d.Run(strings.NewReader("create completion gym\nlist\nquit\ncreate completion late\n"))

	if !strings.Contains(out.String(), "completion 'gym'") {
		t.Errorf("output = %q, want the listed task", out.String())
	}
	if _, ok := d.Balance.Get("late"); ok {
		t.Error("command after quit was executed")
	}
}

func TestSaveWritesFiles(t *testing.T) {
	d, out := newDispatcher(t)
	d.Dispatch([]string{"create", "completion", "gym"})

	d.Dispatch([]string{"save"})
	if got := out.String(); strings.Contains(got, "Save failed") {
		t.Fatalf("output = %q, want silent success", got)
	}

	reloaded := balance.New(nopRegistrar{})
	if errs := d.Store.LoadAll(reloaded, d.Registry); len(errs) != 0 {
		t.Fatalf("LoadAll() errors = %v", errs)
	}
	if reloaded.Len() != 1 {
		t.Errorf("Len() = %d after reload, want 1", reloaded.Len())
	}
}
