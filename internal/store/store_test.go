package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwyatt/balance/internal/balance"
	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/task"
	"github.com/mwyatt/balance/internal/task/builtin"
)

type nopRegistrar struct{}

func (nopRegistrar) Schedule(time.Duration, func()) task.CancelFunc { return func() {} }

func newWorld(t *testing.T) (*Store, *balance.Balance, *registry.Registry) {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	reg := registry.New()
	builtin.RegisterAll(reg)
	return s, balance.New(nopRegistrar{}), reg
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, b, reg := newWorld(t)

	c := builtin.NewCounter("gym", 30)
	c.Progress()
	c.Progress()
	b.Add(c)
	b.Add(builtin.NewCompletion("ship it"))

	if err := s.SaveAll(b); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	restoredInto := balance.New(nopRegistrar{})
	if errs := s.LoadAll(restoredInto, reg); len(errs) != 0 {
		t.Fatalf("LoadAll() errors = %v", errs)
	}
	if restoredInto.Len() != 2 {
		t.Fatalf("Len() = %d after load, want 2", restoredInto.Len())
	}

	got, ok := restoredInto.Get("gym")
	if !ok {
		t.Fatal("counter task missing after load")
	}
	if counter := got.(*builtin.Counter); counter.Counter() != 2 || counter.Goal() != 30 {
		t.Errorf("restored counter = %d/%d, want 2/30", counter.Counter(), counter.Goal())
	}
}

func TestSaveAllRemovesPendingDeleteFiles(t *testing.T) {
	s, b, _ := newWorld(t)

	b.Add(builtin.NewCompletion("ship it"))
	if err := s.SaveAll(b); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	path := filepath.Join(s.Dir(), "ship it.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("save file missing after SaveAll: %v", err)
	}

	b.Remove("ship it")
	if err := s.SaveAll(b); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("save file still present after pending delete, stat err = %v", err)
	}
	if got := b.PendingDelete(); len(got) != 0 {
		t.Errorf("PendingDelete() = %v after SaveAll, want empty", got)
	}
}

func TestPendingDeleteWithoutFileIsCleared(t *testing.T) {
	s, b, _ := newWorld(t)

	b.Remove("never saved")
	if err := s.SaveAll(b); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if got := b.PendingDelete(); len(got) != 0 {
		t.Errorf("PendingDelete() = %v for nonexistent file, want empty", got)
	}
}

func TestLoadSkipsBrokenFiles(t *testing.T) {
	s, b, reg := newWorld(t)

	b.Add(builtin.NewCompletion("ship it"))
	if err := s.SaveAll(b); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "junk.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "orphan.json"),
		[]byte(`{"type":"no-such-type","fields":{}}`), 0644); err != nil {
		t.Fatal(err)
	}

	restoredInto := balance.New(nopRegistrar{})
	errs := s.LoadAll(restoredInto, reg)
	if len(errs) != 2 {
		t.Errorf("LoadAll() errors = %v, want 2", errs)
	}
	if restoredInto.Len() != 1 {
		t.Errorf("Len() = %d, want the 1 healthy task", restoredInto.Len())
	}
}

func TestFileForSanitizesNames(t *testing.T) {
	s, b, _ := newWorld(t)

	b.Add(builtin.NewCompletion("../escape/attempt"))
	if err := s.SaveAll(b); err != nil {
		t.Fatalf("SaveAll() error = %v", err)
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("save dir has %d entries, want 1", len(entries))
	}
	if got := entries[0].Name(); got != ".._escape_attempt.json" {
		t.Errorf("save file name = %q, want %q", got, ".._escape_attempt.json")
	}
}

func TestLoadCatchesUpStaleClock(t *testing.T) {
	s, _, reg := newWorld(t)

	f := builtin.NewFrequency("practice", 1, time.Hour)
	f.SetLastUpdate(time.Now().Add(-3*time.Hour - 30*time.Minute))
	if err := s.SaveTask(f); err != nil {
		t.Fatalf("SaveTask() error = %v", err)
	}

	restoredInto := balance.New(nopRegistrar{})
	if errs := s.LoadAll(restoredInto, reg); len(errs) != 0 {
		t.Fatalf("LoadAll() errors = %v", errs)
	}
	got, ok := restoredInto.Get("practice")
	if !ok {
		t.Fatal("frequency task missing after load")
	}
	// ~3.5 hours of missed hourly ticks, floor 3, at rate 1
	if counter := got.(*builtin.Frequency).Counter(); counter < -3.1 || counter > -2.9 {
		t.Errorf("restored counter = %v, want -3 from catch-up", counter)
	}
}
