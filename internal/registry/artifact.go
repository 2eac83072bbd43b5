package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/mwyatt/balance/internal/task"
)

// TypeSymbol is the symbol a task type plugin must export. Its value must
// be a *task.Type (or a func() *task.Type factory).
const TypeSymbol = "TaskType"

// ArtifactFormatError reports bytes that are not a loadable plugin.
type ArtifactFormatError struct {
	Path string
	Err  error
}

func (e *ArtifactFormatError) Error() string {
	return fmt.Sprintf("bad task type artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactFormatError) Unwrap() error { return e.Err }

// TypeKindError reports an artifact that loaded but does not define a task
// type of the required shape.
type TypeKindError struct {
	Path   string
	Reason string
}

func (e *TypeKindError) Error() string {
	return fmt.Sprintf("artifact %s is not a task type definition: %s", e.Path, e.Reason)
}

// LoadArtifactFile loads one plugin artifact, validates the task type it
// defines, and registers it. A type name already known is left as is.
func (r *Registry) LoadArtifactFile(path string) (*task.Type, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, &ArtifactFormatError{Path: path, Err: err}
	}

	sym, err := p.Lookup(TypeSymbol)
	if err != nil {
		return nil, &TypeKindError{Path: path, Reason: "no TaskType symbol"}
	}

	var typ *task.Type
	switch v := sym.(type) {
	case **task.Type:
		typ = *v
	case *task.Type:
		typ = v
	case func() *task.Type:
		typ = v()
	default:
		return nil, &TypeKindError{Path: path, Reason: fmt.Sprintf("TaskType has type %T", sym)}
	}

	if !typ.Valid() {
		return nil, &TypeKindError{Path: path, Reason: "descriptor does not satisfy the task shape"}
	}

	r.Register(typ)
	return typ, nil
}

// LoadArtifact registers a task type supplied as raw plugin bytes. Plugins
// load from the filesystem, so the bytes are staged to a temporary file
// that is removed once the descriptor has been extracted.
func (r *Registry) LoadArtifact(data []byte) (*task.Type, error) {
	f, err := os.CreateTemp("", "balance-type-*.so")
	if err != nil {
		return nil, &ArtifactFormatError{Path: "(bytes)", Err: err}
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, &ArtifactFormatError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &ArtifactFormatError{Path: path, Err: err}
	}
	return r.LoadArtifactFile(path)
}

// LoadDir loads every .so artifact under dir. A bad artifact is reported
// and skipped; the rest still load. A missing directory is reported the
// same way, since a fresh install has none.
func (r *Registry) LoadDir(dir string) (loaded []*task.Type, errs []error) {
	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".so") {
			return nil
		}
		typ, err := r.LoadArtifactFile(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		loaded = append(loaded, typ)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return loaded, errs
}
