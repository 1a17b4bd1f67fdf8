// Package command models the commands of a script code section.
//
// A [Command] is one classified, tokenized code line. Commands are produced
// by a [Parser]; [LineParser] is the default, which recognizes every
// built-in command name and groups Begin/End blocks, but does not interpret
// arguments. Lines naming an unknown command are classified as [KindMacro].
//
// [Optimize] merges runs of commands that touch the same file, or that
// toggle control visibility, into single batched commands.
package command

import (
	"slices"
	"strings"
)

// Address locates the section a command was parsed from.
type Address struct {
	// Path is the absolute path of the owning document.
	Path string `json:"path,omitempty" yaml:"path,omitempty" msgpack:"path"`
	// Section is the section name.
	Section string `json:"section,omitempty" yaml:"section,omitempty" msgpack:"section"`
}

func (a Address) String() string {
	if a.Path == "" {
		return "[" + a.Section + "]"
	}

	return a.Path + ":[" + a.Section + "]"
}

// Command is one parsed code line.
type Command struct {
	Kind Kind `json:"kind" yaml:"kind" msgpack:"kind"`
	// Name is the command name as written, or the macro name for KindMacro.
	Name string `json:"name" yaml:"name" msgpack:"name"`
	// Raw is the source text, joined across continuation lines.
	Raw  string   `json:"raw" yaml:"raw" msgpack:"raw"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args"`
	Addr Address  `json:"addr" yaml:"addr" msgpack:"addr"`
	// Line is the 1-based line of Raw within its section.
	Line int `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line"`
	// Batch holds the merged members of a synthesized command.
	Batch []Command `json:"batch,omitempty" yaml:"batch,omitempty" msgpack:"batch"`
	// Link holds the body of a Begin/End block opened by If or Else.
	Link []Command `json:"link,omitempty" yaml:"link,omitempty" msgpack:"link"`
}

func (c Command) String() string { return c.Raw }

// Clone returns a deep copy of c.
func (c Command) Clone() Command {
	c.Args = slices.Clone(c.Args)
	c.Batch = cloneAll(c.Batch)
	c.Link = cloneAll(c.Link)

	return c
}

// Arg returns the i-th argument, or "" if there is none.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}

	return c.Args[i]
}

// opensBlock reports whether c is an If or Else whose body follows on
// subsequent lines up to a matching End.
func (c Command) opensBlock() bool {
	return (c.Kind == KindIf || c.Kind == KindElse) &&
		len(c.Args) > 0 &&
		strings.EqualFold(c.Args[len(c.Args)-1], "Begin")
}

func cloneAll(cmds []Command) []Command {
	if cmds == nil {
		return nil
	}

	out := make([]Command, len(cmds))
	for i, c := range cmds {
		out[i] = c.Clone()
	}

	return out
}
