package task

// Ctor is one declared constructor of a task type. Construction considers
// constructors in declaration order and invokes the first full match.
type Ctor struct {
	Params []Kind
	New    func(args []any) Task
}

// Field is one declared field of a task type. Get and Set go through the
// variant's own locking; the generic layer never touches state directly.
// A field with Editable unset is still listed and persisted, but generic
// mutation rejects it.
type Field struct {
	Name     string
	Kind     Kind
	Editable bool
	Get      func(Task) any
	Set      func(Task, any)
}

// Type is the static descriptor of a task variant: everything the generic
// layer knows about it.
type Type struct {
	Name  string
	Ctors []Ctor

	// Fields in declaration order, identity first by convention.
	Fields []Field

	// Empty returns a zero instance for persistence restore; every declared
	// field is assigned afterwards, bypassing constructor matching.
	Empty func() Task
}

// FieldByName resolves a declared field by name.
func (t *Type) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Valid reports whether the descriptor satisfies the required task shape:
// a name, a zero factory, and at least one invokable constructor.
func (t *Type) Valid() bool {
	if t == nil || t.Name == "" || t.Empty == nil || len(t.Ctors) == 0 {
		return false
	}
	for _, c := range t.Ctors {
		if c.New == nil {
			return false
		}
	}
	return true
}
