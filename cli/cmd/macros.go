package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/macro"
)

// Macros lists the project macros, or expands a call of one.
type Macros struct {
	Name   string   `arg:"" help:"Macro to expand; lists every macro when omitted." optional:""`
	Args   []string `arg:"" help:"Arguments bound to #1, #2, and so on."           optional:""`
	Script string   `       help:"Include the local macros of this script."        short:"s"`
}

type macroCall struct {
	Call      macro.Invocation `json:"call"      yaml:"call"`
	Expansion string           `json:"expansion" yaml:"expansion"`
}

// Run executes the macros command.
func (c *Macros) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	if c.Script != "" {
		doc, err := e.document(ctx, c.Script)
		if err != nil {
			return err
		}

		if err := e.switchDocument(doc); err != nil {
			return err
		}

		defer e.report(ctx, doc)
	} else {
		defer e.report(ctx, nil)
	}

	w := outputFrom(ctx)

	if c.Name == "" {
		list := e.macros.Macros()

		return render(ctx, w, e.opts.Format, list, func(w io.Writer) error {
			if len(list) == 0 {
				return writeNote(w, "no macros defined")
			}

			rows := make([][]string, len(list))
			for i, m := range list {
				rows[i] = []string{m.Name, m.Scope.String(), m.Command.Raw}
			}

			return writeTable(w, []string{"Name", "Scope", "Template"}, rows)
		})
	}

	raw := strings.Join(append([]string{c.Name}, c.Args...), ",")

	inv, err := e.macros.Invoke(command.Command{
		Kind: command.KindMacro,
		Name: c.Name,
		Raw:  raw,
		Args: c.Args,
	})
	if err != nil {
		return err
	}

	call := macroCall{Call: inv, Expansion: inv.Expand(e.vars.Expand)}

	log.DebugContext(ctx, "macro expanded",
		slog.String("name", inv.Macro.Name),
		slog.String("scope", inv.Macro.Scope.String()))

	return render(ctx, w, e.opts.Format, call, func(w io.Writer) error {
		_, err := io.WriteString(w, call.Expansion+"\n")

		return err
	})
}
