// Package store persists tasks as one JSON file per task under the save
// directory. Each file carries the type name and the full declared field
// map, enough for exact reconstruction through the registry.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwyatt/balance/internal/balance"
	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/task"
)

// Store reads and writes task save files.
type Store struct {
	dir string
}

// saveFile is the on-disk shape of one task.
type saveFile struct {
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields"`
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating save dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the save directory.
func (s *Store) Dir() string { return s.dir }

// fileFor keeps task names from escaping the save dir.
func (s *Store) fileFor(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
	return filepath.Join(s.dir, safe+".json")
}

// SaveTask writes one task's full declared field map, editable or not,
// via a temp file rename.
func (s *Store) SaveTask(t task.Task) error {
	typ := t.Type()
	fields := make(map[string]any, len(typ.Fields))
	for _, f := range typ.Fields {
		if f.Get == nil {
			continue
		}
		fields[f.Name] = f.Get(t)
	}

	data, err := json.MarshalIndent(saveFile{Type: typ.Name, Fields: fields}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", t.Name(), err)
	}

	path := s.fileFor(t.Name())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

// SaveAll deletes artifacts for pending-delete names, clears the names it
// handled, and writes every live task. Individual failures are collected;
// the rest of the save still happens.
func (s *Store) SaveAll(b *balance.Balance) error {
	var errs []error

	pending := b.PendingDelete()
	cleared := make([]string, 0, len(pending))
	for _, name := range pending {
		if err := os.Remove(s.fileFor(name)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("deleting save for %s: %w", name, err))
			continue
		}
		cleared = append(cleared, name)
	}
	b.ClearPendingDelete(cleared)

	for _, t := range b.Tasks() {
		if err := s.SaveTask(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadAll restores every save file into b. Adding triggers activation and
// therefore tick catch-up. A file that cannot be restored is reported and
// skipped, never fatal.
func (s *Store) LoadAll(b *balance.Balance, reg *registry.Registry) []error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []error{fmt.Errorf("reading save dir: %w", err)}
	}

	var errs []error
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, ent.Name())
		t, err := s.loadFile(path, reg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if !b.Add(t) {
			errs = append(errs, fmt.Errorf("%s: duplicate task name %q", path, t.Name()))
		}
	}
	return errs
}

func (s *Store) loadFile(path string, reg *registry.Registry) (task.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var sf saveFile
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	typ, ok := reg.Lookup(sf.Type)
	if !ok {
		return nil, fmt.Errorf("unknown task type %q", sf.Type)
	}
	return task.Restore(typ, sf.Fields)
}
