package task

import "fmt"

// ParseError reports a literal that does not parse as the requested kind.
type ParseError struct {
	Literal string
	Kind    Kind
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s", e.Literal, e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedKindError reports a requested kind outside the closed set.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported kind %s", e.Kind)
}

// NoMatchingConstructorError reports that no declared constructor accepted
// the given argument list.
type NoMatchingConstructorError struct {
	Type string
	Args []string
}

func (e *NoMatchingConstructorError) Error() string {
	return fmt.Sprintf("no constructor of %s accepts %d argument(s)", e.Type, len(e.Args))
}

// UnknownFieldError reports an edit naming a field the type does not declare.
type UnknownFieldError struct {
	Type  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Type, e.Field)
}

// NotEditableError reports an edit naming a declared field that generic
// mutation may not touch, including the identity name field.
type NotEditableError struct {
	Type  string
	Field string
}

func (e *NotEditableError) Error() string {
	return fmt.Sprintf("field %q of %s is not editable", e.Field, e.Type)
}
