package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mwyatt/balance/internal/balance"
	"github.com/mwyatt/balance/internal/journal"
	"github.com/mwyatt/balance/internal/logging"
	"github.com/mwyatt/balance/internal/registry"
	"github.com/mwyatt/balance/internal/store"
	"github.com/mwyatt/balance/internal/task"
)

// Dispatcher executes parsed commands against the live collection. Journal
// may be nil; events are then simply not recorded.
type Dispatcher struct {
	Balance  *balance.Balance
	Registry *registry.Registry
	Store    *store.Store
	Journal  *journal.Journal
	Log      *logging.Logger
	Out      io.Writer
}

// command is one REPL command. run reports false to signal exit.
type command struct {
	name  string
	usage string
	run   func(d *Dispatcher, args []string) bool
}

var commands []command

func init() {
	commands = []command{
		{"quit", "quit", (*Dispatcher).runQuit},
		{"exit", "exit\n\tExit the program.", (*Dispatcher).runQuit},
		{"list", "list [TASK]...\n\tList current tasks. With arguments, list the editable fields\n\tof the specified tasks.", (*Dispatcher).runList},
		{"save", "save\n\tSave all tasks to file. Saved tasks are loaded on next launch.", (*Dispatcher).runSave},
		{"create", "create TYPE [ARGUMENT]...\n\tCreate a new task of the specified type. Constructors are\n\tconsidered in declaration order and the first full match is\n\tinvoked.", (*Dispatcher).runCreate},
		{"edit", "edit TASK [KEY=VALUE]...\n\tEdit the specified task. Either every change applies or none\n\tdoes.", (*Dispatcher).runEdit},
		{"rm", "rm TASK...\n\tRemove tasks.", (*Dispatcher).runRm},
		{"progress", "progress TASK...\n\tMake progress on the specified tasks.", (*Dispatcher).runProgress},
		{"help", "help\n\tDisplay help text.", (*Dispatcher).runHelp},
	}
}

// Run reads commands from in until exit or end of input.
func (d *Dispatcher) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(d.Out, "> ")
		if !scanner.Scan() {
			return
		}
		args := Tokenize(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if !d.Dispatch(args) {
			return
		}
	}
}

// Dispatch executes one tokenized command line. It reports false to signal
// exit. Unknown commands print the help text and continue.
func (d *Dispatcher) Dispatch(args []string) bool {
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(d, args[1:])
		}
	}
	fmt.Fprintf(d.Out, "Unrecognized command: %s\n", args[0])
	d.runHelp(nil)
	return true
}

func (d *Dispatcher) runQuit([]string) bool { return false }

func (d *Dispatcher) runList(args []string) bool {
	if len(args) == 0 {
		for _, t := range d.Balance.Tasks() {
			fmt.Fprintln(d.Out, t)
		}
		return true
	}

	for _, name := range args {
		t, ok := d.Balance.Get(name)
		if !ok {
			fmt.Fprintf(d.Out, "Task '%s' does not exist\n", name)
			continue
		}
		fmt.Fprintln(d.Out, t)
		for _, f := range t.Type().Fields {
			if !f.Editable || f.Get == nil {
				continue
			}
			fmt.Fprintf(d.Out, "\t%s %s:\t%v\n", f.Kind, f.Name, f.Get(t))
		}
	}
	return true
}

func (d *Dispatcher) runSave(args []string) bool {
	if err := d.Store.SaveAll(d.Balance); err != nil {
		fmt.Fprintf(d.Out, "Save failed: %v\n", err)
		return true
	}
	d.record("", "", journal.ActionSaved, fmt.Sprintf("%d task(s)", d.Balance.Len()))
	return true
}

func (d *Dispatcher) runCreate(args []string) bool {
	if len(args) < 1 {
		d.usage("create")
		return true
	}

	typ, ok := d.Registry.Lookup(args[0])
	if !ok {
		fmt.Fprintf(d.Out, "Unknown task type: %s\n", args[0])
		fmt.Fprintln(d.Out, "Use help to see available types")
		return true
	}

	t, err := task.Construct(typ, args[1:])
	if err != nil {
		fmt.Fprintf(d.Out, "Construction failed: %v\n", err)
		return true
	}

	if !d.Balance.Add(t) {
		fmt.Fprintf(d.Out, "Task already exists: %s\n", t.Name())
		return true
	}
	d.record(t.Name(), typ.Name, journal.ActionCreated, strings.Join(args[1:], " "))
	return true
}

func (d *Dispatcher) runEdit(args []string) bool {
	if len(args) < 1 {
		d.usage("edit")
		return true
	}
	if len(args) < 2 {
		return d.runList(args)
	}

	t, ok := d.Balance.Get(args[0])
	if !ok {
		fmt.Fprintf(d.Out, "Task '%s' does not exist\n", args[0])
		return true
	}

	// split each pair at the first =; a malformed pair fails the whole
	// request, but the valid entries are still validated so every problem
	// is reported at once
	var edits []task.Edit
	malformed := false
	for _, entry := range args[1:] {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			fmt.Fprintf(d.Out, "Argument is not KEY=VALUE pair: %s\n", entry)
			malformed = true
			continue
		}
		edits = append(edits, task.Edit{Field: k, Value: v})
	}

	if malformed {
		if err := task.Validate(t, edits); err != nil {
			fmt.Fprintln(d.Out, err)
		}
		return true
	}

	if err := task.Apply(t, edits); err != nil {
		fmt.Fprintln(d.Out, err)
		return true
	}
	d.record(t.Name(), t.Type().Name, journal.ActionEdited, strings.Join(args[1:], " "))
	return true
}

func (d *Dispatcher) runRm(args []string) bool {
	if len(args) < 1 {
		d.usage("rm")
		return true
	}

	for _, name := range args {
		if !d.Balance.Remove(name) {
			fmt.Fprintf(d.Out, "Task '%s' does not exist\n", name)
			continue
		}
		d.record(name, "", journal.ActionRemoved, "")
	}
	return true
}

func (d *Dispatcher) runProgress(args []string) bool {
	if len(args) < 1 {
		d.usage("progress")
		return true
	}

	for _, name := range args {
		t, ok := d.Balance.Get(name)
		if !ok {
			fmt.Fprintf(d.Out, "Task '%s' does not exist\n", name)
			continue
		}
		t.Progress()
		d.record(name, t.Type().Name, journal.ActionProgressed, "")
	}
	return true
}

func (d *Dispatcher) runHelp([]string) bool {
	fmt.Fprintln(d.Out, "COMMANDS:")
	for _, c := range commands {
		fmt.Fprintln(d.Out, c.usage)
	}
	fmt.Fprintln(d.Out)
	fmt.Fprintln(d.Out, "TASK TYPES:")
	for _, typ := range d.Registry.Types() {
		fmt.Fprintln(d.Out, typ.Name)
		for _, c := range typ.Ctors {
			fmt.Fprintf(d.Out, "\t%s( %s )\n", typ.Name, kindList(c.Params))
		}
	}
	return true
}

func (d *Dispatcher) usage(name string) {
	for _, c := range commands {
		if c.name == name {
			fmt.Fprintln(d.Out, c.usage)
			return
		}
	}
}

func (d *Dispatcher) record(taskName, typeName, action, detail string) {
	if d.Journal == nil {
		return
	}
	if err := d.Journal.Record(taskName, typeName, action, detail); err != nil && d.Log != nil {
		d.Log.Warnf("journal: %v", err)
	}
}

func kindList(kinds []task.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
