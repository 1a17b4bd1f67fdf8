package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/escape"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/macro"
	"github.com/ardnew/bakery/script"
	"github.com/ardnew/bakery/vars"
)

// replSection names the section attributed to lines typed at the prompt.
const replSection = "REPL"

// State is a loaded project with its variables and macros.
type State struct {
	Project *script.Project
	Vars    *vars.Store
	Macros  *macro.Resolver
}

// Loader loads the project a [Session] works on. It is called again by
// [Session.Reload] after a script is edited.
type Loader func(ctx context.Context, d *diag.Buffer) (State, error)

// Result is the outcome of evaluating one line.
type Result struct {
	// Kind is the command the line names, or [command.KindNone] for text.
	Kind command.Kind
	// Macro is the macro the line invoked, if any.
	Macro string
	// Value is the line with parameters and variables expanded.
	Value string
}

func (r Result) String() string {
	switch {
	case r.Macro != "":
		return r.Macro + " → " + r.Value
	case r.Kind != command.KindNone:
		return r.Kind.String() + " → " + r.Value
	default:
		return r.Value
	}
}

// Session evaluates script lines against a project. The active script
// selects which local variables and local macros are visible.
type Session struct {
	load   Loader
	state  State
	active *script.Document
	diags  diag.Buffer
	parser command.Parser
}

// NewSession loads the project with load and selects its main script.
func NewSession(ctx context.Context, load Loader) (*Session, error) {
	s := &Session{load: load, parser: command.LineParser{}}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Reload loads the project again, keeping the active script selected if
// it still exists.
func (s *Session) Reload(ctx context.Context) error {
	state, err := s.load(ctx, &s.diags)
	if err != nil {
		return err
	}

	active := state.Project.Main()

	if s.active != nil {
		if d, ok := state.Project.Find(s.active.Path()); ok {
			active = d
		}
	}

	s.state = state
	s.active = nil

	return s.use(active)
}

// Use selects the script at path, relative to the project root or
// absolute.
func (s *Session) Use(path string) error {
	d, ok := s.state.Project.Find(path)
	if !ok {
		return script.ErrOpen.With(slog.String("path", path))
	}

	return s.use(d)
}

func (s *Session) use(d *script.Document) error {
	isMain := d == s.state.Project.Main()

	if err := s.state.Vars.LoadDocument(d, isMain, &s.diags); err != nil {
		return err
	}

	if err := s.state.Macros.SwitchDocument(d, &s.diags); err != nil {
		return err
	}

	s.active = d

	log.Debug("repl script selected", slog.String("path", d.RelPath()))

	return nil
}

// Active returns the selected script.
func (s *Session) Active() *script.Document { return s.active }

// Project returns the loaded project.
func (s *Session) Project() *script.Project { return s.state.Project }

// Diagnostics returns and clears the entries gathered since the last call.
func (s *Session) Diagnostics() []diag.Entry {
	return s.diags.Drain()
}

// Eval expands line. A line naming a macro expands the macro template with
// the line's arguments bound; any other line has only its variables
// expanded.
func (s *Session) Eval(line string) (Result, error) {
	cmd, err := s.parser.ParseOneRawLine(line, command.Address{Section: replSection})
	if err != nil {
		return Result{}, err
	}

	if cmd.Kind != command.KindMacro {
		return Result{Kind: cmd.Kind, Value: s.expand(line)}, nil
	}

	if _, ok := s.state.Macros.Lookup(cmd.Name); !ok && !strings.Contains(line, ",") {
		return Result{Value: s.expand(line)}, nil
	}

	inv, err := s.state.Macros.Invoke(cmd)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Kind:  inv.Macro.Command.Kind,
		Macro: inv.Macro.Name,
		Value: display(inv.Expand(s.state.Vars.Expand)),
	}, nil
}

func (s *Session) expand(text string) string {
	return display(s.state.Vars.Expand(text))
}

// display turns escape sequences, including unresolved references, back
// into the characters they stand for.
func display(text string) string {
	return escape.UnescapePercent(escape.Unescape(text))
}

// Set assigns a local variable.
func (s *Session) Set(name, value string) error {
	return s.state.Vars.SetValue(vars.TierLocal, name, value)
}

// Vars returns the variables of every tier, fixed first.
func (s *Session) Vars() []vars.Var {
	var all []vars.Var

	for _, t := range []vars.Tier{vars.TierFixed, vars.TierGlobal, vars.TierLocal} {
		all = append(all, s.state.Vars.Vars(t)...)
	}

	return all
}

// VarNames returns the distinct names of every defined variable.
func (s *Session) VarNames() []string { return s.state.Vars.Names() }

// MacroNames returns the names of every visible macro.
func (s *Session) MacroNames() []string { return s.state.Macros.Names() }

// Macros returns every visible macro.
func (s *Session) Macros() []macro.Macro { return s.state.Macros.Macros() }

// Macro returns the macro called name.
func (s *Session) Macro(name string) (macro.Macro, bool) {
	return s.state.Macros.Lookup(name)
}

// Scripts returns the project-relative paths of the project scripts.
func (s *Session) Scripts() []string {
	docs := s.state.Project.Documents()

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.RelPath())
	}

	slices.Sort(paths)

	return paths
}
