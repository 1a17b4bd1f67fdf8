package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/bakery/ui"
)

// Controls lists the controls of an interface section.
type Controls struct {
	File    string   `arg:"" help:"Script file, relative to the project or --path." name:"file"`
	Section string   `       help:"Interface section (default: the script's primary interface)." short:"s"`
	Set     []string `       help:"Assign KEY=VALUE to a control before printing."                placeholder:"KEY=VALUE"`
	Forge   bool     `       help:"Print the serialized interface lines instead."                 short:"f"`
}

type controlRow struct {
	*ui.Control

	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Run executes the controls command.
func (c *Controls) Run(ctx context.Context) (err error) {
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

	name := c.Section
	if name == "" {
		name = doc.InterfaceName()
	}

	sec, err := doc.Section(name)
	if err != nil {
		return err
	}

	ctrls, err := sec.Controls()
	if err != nil {
		return err
	}

	if err := assign(ctrls, c.Set); err != nil {
		return err
	}

	w := outputFrom(ctx)

	if c.Forge {
		lines := make([]string, len(ctrls))
		for i, ctrl := range ctrls {
			lines[i] = ctrl.Forge(true)
		}

		return render(ctx, w, e.opts.Format, lines, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))

			return err
		})
	}

	rows := make([]controlRow, len(ctrls))
	for i, ctrl := range ctrls {
		rows[i].Control = ctrl
		rows[i].Value, _ = ctrl.Value()
	}

	return render(ctx, w, e.opts.Format, rows, func(w io.Writer) error {
		if len(rows) == 0 {
			return writeNote(w, "no controls in [%s]", sec.Name())
		}

		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = []string{
				strconv.Itoa(r.Line), r.Key, r.Type.String(), r.Text,
				strconv.FormatBool(r.Visible), r.Value,
			}
		}

		return writeTable(w, []string{"Line", "Key", "Type", "Text", "Visible", "Value"}, cells)
	})
}

// assign applies KEY=VALUE assignments to the controls with those keys.
func assign(ctrls []*ui.Control, sets []string) error {
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok {
			return ui.ErrInvalidValue.With(slog.String("set", set))
		}

		var found bool

		for _, ctrl := range ctrls {
			if strings.EqualFold(ctrl.Key, strings.TrimSpace(key)) {
				if err := ctrl.SetValue(value); err != nil {
					return err
				}

				found = true
			}
		}

		if !found {
			return ErrNotFound.With(slog.String("control", key))
		}
	}

	return nil
}
