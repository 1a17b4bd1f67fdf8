package cmd

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/bakery/command"
)

// Commands lists the parsed commands of a code section.
type Commands struct {
	File     string `arg:"" help:"Script file, relative to the project or --path." name:"file"`
	Section  string `arg:"" help:"Code section name."                              name:"section"`
	Optimize bool   `       help:"Merge batchable command runs."                   short:"O"`
}

// Run executes the commands command.
func (c *Commands) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	doc, err := e.document(ctx, c.File)
	if err != nil {
		return err
	}

	defer e.report(ctx, doc)

	sec, err := doc.Section(c.Section)
	if err != nil {
		return err
	}

	cmds, err := sec.Code()
	if err != nil {
		return err
	}

	if c.Optimize {
		cmds = command.Optimize(cmds)
	}

	return render(ctx, outputFrom(ctx), e.opts.Format, cmds, func(w io.Writer) error {
		rows := commandRows(nil, cmds, 0)
		if len(rows) == 0 {
			return writeNote(w, "no commands in [%s]", sec.Name())
		}

		return writeTable(w, []string{"Line", "Kind", "Command"}, rows)
	})
}

// commandRows flattens cmds into table rows, indenting block bodies and
// batch members beneath the command that holds them.
func commandRows(rows [][]string, cmds []command.Command, depth int) [][]string {
	indent := strings.Repeat("  ", depth)

	for _, c := range cmds {
		line := ""
		if c.Line > 0 {
			line = strconv.Itoa(c.Line)
		}

		rows = append(rows, []string{line, indent + c.Kind.String(), indent + c.Raw})
		rows = commandRows(rows, c.Batch, depth+1)
		rows = commandRows(rows, c.Link, depth+1)
	}

	return rows
}
