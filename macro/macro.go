// Package macro resolves the named command templates of a project.
//
// The library table is read once from the section named by the main
// script's APIVAR variable, in the script named by its API variable. The
// local table is rebuilt from the Variables section of each document a
// build switches to. Local macros shadow library macros of the same name.
package macro

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/tevino/abool/v2"

	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/escape"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/script"
	"github.com/ardnew/bakery/token"
	"github.com/ardnew/bakery/vars"
)

// Variables of the main script that locate the macro library.
const (
	VarAPI    = "API"
	VarAPIVar = "APIVAR"
)

// maxSuggestions bounds the names attached to an [ErrUnknownMacro].
const maxSuggestions = 3

// Scope tells which table a macro came from.
type Scope int

const (
	ScopeLibrary Scope = iota
	ScopeLocal
)

func (s Scope) String() string {
	if s == ScopeLocal {
		return "Local"
	}

	return "Library"
}

// MarshalText implements [encoding.TextMarshaler].
func (s Scope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Scope) UnmarshalText(text []byte) error {
	switch {
	case strings.EqualFold(string(text), ScopeLibrary.String()):
		*s = ScopeLibrary
	case strings.EqualFold(string(text), ScopeLocal.String()):
		*s = ScopeLocal
	default:
		return ErrInvalidScope.With(slog.String("scope", string(text)))
	}

	return nil
}

// Macro is one named command template.
type Macro struct {
	Name    string          `json:"name"    yaml:"name"`
	Scope   Scope           `json:"scope"   yaml:"scope"`
	Command command.Command `json:"command" yaml:"command"`
}

// Invocation is a macro call ready to execute: the template with the
// caller's source text and the caller's arguments as parameters.
type Invocation struct {
	Macro   Macro           `json:"macro"   yaml:"macro"`
	Command command.Command `json:"command" yaml:"command"`
	Params  escape.Params   `json:"params"  yaml:"params"`
}

// Expand returns the template text with the call's parameters bound and
// the result passed through expand, which may be nil.
func (inv Invocation) Expand(expand func(string) string) string {
	text := escape.ExpandParams(inv.Macro.Command.Raw, &inv.Params)
	if expand != nil {
		text = expand(text)
	}

	return text
}

type table map[string]Macro

// Resolver holds the library and local macro tables of a project.
type Resolver struct {
	parser  command.Parser
	enabled *abool.AtomicBool

	library *script.Section

	mu    sync.RWMutex
	lib   table
	local table
}

// New builds the library table of p. A project without API and APIVAR
// variables, or whose library cannot be found, yields a disabled Resolver
// and an explanatory entry in d; only I/O failures are returned. A nil
// parser selects [command.LineParser].
func New(
	ctx context.Context,
	p *script.Project,
	store *vars.Store,
	parser command.Parser,
	d *diag.Buffer,
) (*Resolver, error) {
	if parser == nil {
		parser = command.LineParser{}
	}

	r := &Resolver{
		parser:  parser,
		enabled: abool.New(),
		lib:     make(table),
		local:   make(table),
	}

	main := p.Main()
	if !main.HasSection(script.NameVariables) {
		r.disable(ctx, d, "project has no Variables section")

		return r, nil
	}

	mainVars, err := main.Section(script.NameVariables)
	if err != nil {
		return nil, err
	}

	dict, err := mainVars.Dict()
	if err != nil {
		return nil, err
	}

	api, okAPI := lookupVar(dict, VarAPI)
	apiVar, okVar := lookupVar(dict, VarAPIVar)

	if !okAPI || !okVar {
		r.disable(ctx, d, "API or APIVAR not set")

		return r, nil
	}

	path := store.Expand(api)

	doc, ok := p.Find(path)
	if !ok {
		d.Error(0, api, "macro script %q not found", path)
		r.disable(ctx, d, "")

		return r, nil
	}

	if !doc.HasSection(apiVar) {
		d.Error(0, apiVar, "macro section [%s] not found in %s", apiVar, doc.RelPath())
		r.disable(ctx, d, "")

		return r, nil
	}

	if r.library, err = doc.Section(apiVar); err != nil {
		return nil, err
	}

	if err := store.SetValue(vars.TierGlobal, VarAPI, doc.Path()); err != nil {
		d.Err(0, api, err)
	}

	if doc.HasSection(script.NameVariables) {
		sec, err := doc.Section(script.NameVariables)
		if err != nil {
			return nil, err
		}

		if _, err := store.AddVariables(vars.TierGlobal, sec, d); err != nil {
			return nil, err
		}
	}

	if _, err := store.AddVariables(vars.TierGlobal, r.library, d); err != nil {
		return nil, err
	}

	if err := r.load(r.lib, ScopeLibrary, r.library, d); err != nil {
		return nil, err
	}

	// Macros saved to the main script's Variables section extend the library.
	if err := r.load(r.lib, ScopeLibrary, mainVars, d); err != nil {
		return nil, err
	}

	r.enabled.Set()

	log.InfoContext(ctx, "loaded macro library",
		slog.String("script", doc.RelPath()),
		slog.String("section", apiVar),
		slog.Int("macros", len(r.lib)))

	return r, nil
}

func (r *Resolver) disable(ctx context.Context, d *diag.Buffer, reason string) {
	r.enabled.UnSet()

	if reason != "" {
		d.Info(0, "", "macros disabled: %s", reason)
	}

	log.InfoContext(ctx, "macros disabled", slog.String("reason", reason))
}

// Enabled reports whether the project defines a macro library.
func (r *Resolver) Enabled() bool { return r.enabled.IsSet() }

// Library returns the section the library table was read from, or nil.
func (r *Resolver) Library() *script.Section { return r.library }

// SwitchDocument replaces the local table with the macros defined in the
// Variables section of doc. On error the previous table is kept.
func (r *Resolver) SwitchDocument(doc *script.Document, d *diag.Buffer) error {
	local := make(table)

	if doc.HasSection(script.NameVariables) {
		sec, err := doc.Section(script.NameVariables)
		if err != nil {
			return err
		}

		if err := r.load(local, ScopeLocal, sec, d); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.local = local
	r.mu.Unlock()

	log.Debug("switched macro document",
		slog.String("script", doc.RelPath()), slog.Int("local", len(local)))

	return nil
}

// load parses every entry of sec whose key is not a %variable% into t.
func (r *Resolver) load(t table, scope Scope, sec *script.Section, d *diag.Buffer) error {
	lines, err := sec.Lines()
	if err != nil {
		return err
	}

	addr := command.Address{Path: sec.Document().Path(), Section: sec.Name()}

	for i, line := range lines {
		if token.IsEmpty(line) {
			continue
		}

		key, value, ok := token.SplitKeyValue(line)
		if !ok || strings.HasPrefix(key, "%") && strings.HasSuffix(key, "%") {
			continue
		}

		lineNo := sec.Line() + 1 + i

		if !validName(key) {
			d.Err(lineNo, line, ErrInvalidName.With(slog.String("name", key)))

			continue
		}

		cmd, err := r.parser.ParseOneRawLine(value, addr)
		if err != nil {
			d.Err(lineNo, line, err)

			continue
		}

		cmd.Line = lineNo - sec.Line()
		t[strings.ToLower(key)] = Macro{Name: key, Scope: scope, Command: cmd}
	}

	return nil
}

// Lookup returns the macro name, searching the local table first.
func (r *Resolver) Lookup(name string) (Macro, bool) {
	key := strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.local[key]; ok {
		return m, true
	}

	m, ok := r.lib[key]

	return m, ok
}

// Invoke resolves the macro named by call. The returned command is a copy
// of the template carrying the caller's source text, and the parameters
// bind the caller's arguments as #1, #2 and so on.
func (r *Resolver) Invoke(call command.Command) (Invocation, error) {
	attrs := []slog.Attr{
		slog.String("name", call.Name),
		slog.String("raw", call.Raw),
		slog.Int("line", call.Line),
	}

	m, ok := r.Lookup(call.Name)
	if !ok {
		if !r.Enabled() && r.count() == 0 {
			return Invocation{}, ErrDisabled.With(attrs...)
		}

		if s := r.Suggest(call.Name); len(s) > 0 {
			attrs = append(attrs, slog.Any("suggestions", s))
		}

		return Invocation{}, ErrUnknownMacro.With(attrs...)
	}

	cmd := m.Command.Clone()
	cmd.Raw = call.Raw

	return Invocation{
		Macro:   m,
		Command: cmd,
		Params:  escape.Params{Args: slices.Clone(call.Args)},
	}, nil
}

// Suggest returns up to three known names that fuzzily match name, best
// first.
func (r *Resolver) Suggest(name string) []string {
	names := r.Names()
	if len(names) == 0 || name == "" {
		return nil
	}

	matches := fuzzy.Find(name, names)

	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		out = append(out, m.Str)
	}

	return out
}

// Names returns the distinct macro names of both tables, sorted.
func (r *Resolver) Names() []string {
	ms := r.Macros()

	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.Name)
	}

	return slices.CompactFunc(names, strings.EqualFold)
}

// Macros returns every macro of both tables sorted by name, a local macro
// before the library macro it shadows.
func (r *Resolver) Macros() []Macro {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ms := make([]Macro, 0, len(r.lib)+len(r.local))
	for _, t := range []table{r.local, r.lib} {
		for _, m := range t {
			ms = append(ms, m)
		}
	}

	slices.SortStableFunc(ms, func(a, b Macro) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(b.Scope, a.Scope),
		)
	})

	return ms
}

func (r *Resolver) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.lib) + len(r.local)
}

func lookupVar(d *script.Dict, name string) (string, bool) {
	for k, v := range d.All() {
		if strings.EqualFold(vars.TrimPercent(k), name) {
			return v, true
		}
	}

	return "", false
}

func validName(name string) bool {
	if name == "" {
		return false
	}

	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}

	return true
}
