package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal", "balance.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndHistory(t *testing.T) {
	j := openTest(t)

	events := []struct{ task, typ, action, detail string }{
		{"gym", "counter", ActionCreated, "gym 30"},
		{"gym", "counter", ActionProgressed, ""},
		{"practice", "frequency", ActionCreated, "practice 0.5"},
	}
	for _, e := range events {
		if err := j.Record(e.task, e.typ, e.action, e.detail); err != nil {
			t.Fatalf("Record(%v) error = %v", e, err)
		}
	}

	got, err := j.History("", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("History() returned %d events, want 3", len(got))
	}
	// newest first
	if got[0].Task != "practice" || got[2].Action != ActionCreated {
		t.Errorf("History() order = [%s %s %s], want newest first",
			got[0].Task, got[1].Task, got[2].Task)
	}
	if got[0].At.IsZero() || time.Since(got[0].At) > time.Minute {
		t.Errorf("event timestamp = %v, want recent", got[0].At)
	}
}

func TestHistoryFiltersByTask(t *testing.T) {
	j := openTest(t)

	j.Record("gym", "counter", ActionCreated, "")
	j.Record("practice", "frequency", ActionCreated, "")
	j.Record("gym", "counter", ActionRemoved, "")

	got, err := j.History("gym", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("History(gym) returned %d events, want 2", len(got))
	}
	for _, e := range got {
		if e.Task != "gym" {
			t.Errorf("History(gym) returned event for %q", e.Task)
		}
	}
}

func TestHistoryLimit(t *testing.T) {
	j := openTest(t)

	for i := 0; i < 10; i++ {
		j.Record("gym", "counter", ActionProgressed, "")
	}

	got, err := j.History("", 4)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("History(limit=4) returned %d events, want 4", len(got))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.db")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	j.Record("gym", "counter", ActionCreated, "")
	j.Close()

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer j2.Close()

	got, err := j2.History("", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("History() after reopen returned %d events, want 1", len(got))
	}
}
