package task

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Construct builds a new instance of t from positional literal arguments.
// Constructors are tried in declaration order; the first one whose arity
// matches and whose every argument parses wins, even if a later one would
// also match. With no match, construction fails and no instance exists.
func Construct(t *Type, args []string) (Task, error) {
nextCtor:
	for _, c := range t.Ctors {
		if len(c.Params) != len(args) {
			continue
		}
		vals := make([]any, len(args))
		for i, p := range c.Params {
			v, err := ParseValue(args[i], p)
			if err != nil {
				continue nextCtor
			}
			vals[i] = v
		}
		return c.New(vals), nil
	}
	return nil, &NoMatchingConstructorError{Type: t.Name, Args: args}
}

// Edit is a single field-name/literal pair of an edit request.
type Edit struct {
	Field string
	Value string
}

// Apply validates every edit against tk's declared fields and assigns them
// only if all are valid. On failure it reports every invalid entry and
// changes nothing. A field named more than once takes its last value.
func Apply(tk Task, edits []Edit) error {
	assigns, err := stage(tk, edits)
	if err != nil {
		return err
	}
	for _, a := range assigns {
		a.set(tk, a.val)
	}
	return nil
}

// Validate checks edits exactly as Apply does, without assigning anything.
func Validate(tk Task, edits []Edit) error {
	_, err := stage(tk, edits)
	return err
}

type assignment struct {
	set func(Task, any)
	val any
}

func stage(tk Task, edits []Edit) ([]assignment, error) {
	typ := tk.Type()

	// later duplicate silently wins going into validation
	staged := make([]Edit, 0, len(edits))
	index := make(map[string]int, len(edits))
	for _, e := range edits {
		if i, ok := index[e.Field]; ok {
			staged[i] = e
			continue
		}
		index[e.Field] = len(staged)
		staged = append(staged, e)
	}

	var errs []error
	assigns := make([]assignment, 0, len(staged))
	for _, e := range staged {
		f, ok := typ.FieldByName(e.Field)
		if !ok {
			errs = append(errs, &UnknownFieldError{Type: typ.Name, Field: e.Field})
			continue
		}
		if !f.Editable || f.Set == nil {
			errs = append(errs, &NotEditableError{Type: typ.Name, Field: e.Field})
			continue
		}
		v, err := ParseValue(e.Value, f.Kind)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		assigns = append(assigns, assignment{set: f.Set, val: v})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return assigns, nil
}

// Restore builds an instance of t from a deserialized field map, bypassing
// constructor matching. Declared fields absent from the map keep their zero
// value; map entries the type does not declare are ignored.
func Restore(t *Type, fields map[string]any) (Task, error) {
	tk := t.Empty()
	for _, f := range t.Fields {
		raw, ok := fields[f.Name]
		if !ok || f.Set == nil {
			continue
		}
		v, err := coerce(raw, f.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		f.Set(tk, v)
	}
	return tk, nil
}

// coerce converts a deserialized value to the declared kind. JSON decoding
// hands back strings, json.Number, or float64 depending on decoder options;
// already-typed values pass through.
func coerce(raw any, k Kind) (any, error) {
	switch v := raw.(type) {
	case string:
		if k == String {
			return v, nil
		}
		return ParseValue(v, k)
	case json.Number:
		if k == String {
			return v.String(), nil
		}
		return ParseValue(v.String(), k)
	case int32:
		if k == Int32 {
			return v, nil
		}
	case int64:
		switch k {
		case Int64:
			return v, nil
		case Int32:
			return int32(v), nil
		}
	case float64:
		switch k {
		case Float64:
			return v, nil
		case Int32:
			return int32(v), nil
		case Int64:
			return int64(v), nil
		}
	}
	return nil, &ParseError{Literal: fmt.Sprint(raw), Kind: k}
}
