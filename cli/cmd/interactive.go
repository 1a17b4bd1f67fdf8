package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/bakery/cli/cmd/repl"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/pkg"
)

// Repl starts an interactive prompt on the project.
type Repl struct {
	Script  string `help:"Select this script at start."     short:"s"`
	History bool   `help:"Keep line history between runs." default:"true" negatable:""`
}

// Run executes the repl command.
func (c *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	load := func(ctx context.Context, d *diag.Buffer) (repl.State, error) {
		if err := e.loadProject(ctx); err != nil {
			return repl.State{}, err
		}

		d.Add(e.diags.Drain()...)

		return repl.State{Project: e.project, Vars: e.vars, Macros: e.macros}, nil
	}

	session, err := repl.NewSession(ctx, load)
	if err != nil {
		return err
	}

	if c.Script != "" {
		path, err := e.locate(c.Script)
		if err != nil {
			return err
		}

		if err := session.Use(path); err != nil {
			return err
		}
	}

	var dir string

	if c.History {
		dir = pkg.CacheDir()
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.WarnContext(ctx, "history disabled", slog.Any("error", err))

			dir = ""
		}
	}

	return repl.Run(ctx, session, dir)
}
