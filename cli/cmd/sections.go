package cmd

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/bakery/script"
)

// Sections lists the sections of a script.
type Sections struct {
	File  string `arg:"" help:"Script file, relative to the project or --path." name:"file"`
	Where string `       help:"Boolean expression over name, type, shape, state and lines." short:"w"`
}

// sectionRow is one listed section and the environment of --where.
type sectionRow struct {
	Name  string `expr:"name"  json:"name"  yaml:"name"`
	Type  string `expr:"type"  json:"type"  yaml:"type"`
	Shape string `expr:"shape" json:"shape" yaml:"shape"`
	State string `expr:"state" json:"state" yaml:"state"`
	Line  int    `expr:"line"  json:"line"  yaml:"line"`
	Lines int    `expr:"lines" json:"lines" yaml:"lines"`
}

// Run executes the sections command.
func (s *Sections) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := compileWhere(s.Where)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	doc, err := e.document(ctx, s.File)
	if err != nil {
		return err
	}

	defer e.report(ctx, doc)

	rows := make([]sectionRow, 0)

	for _, sec := range doc.Sections() {
		row, err := describeSection(sec)
		if err != nil {
			return err
		}

		ok, err := filter(row)
		if err != nil {
			return err
		}

		if ok {
			rows = append(rows, row)
		}
	}

	return render(ctx, outputFrom(ctx), e.opts.Format, rows, func(w io.Writer) error {
		if len(rows) == 0 {
			return writeNote(w, "no sections")
		}

		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = []string{r.Name, r.Type, r.Shape, r.State, strconv.Itoa(r.Line), strconv.Itoa(r.Lines)}
		}

		return writeTable(w, []string{"Section", "Type", "Shape", "State", "Line", "Lines"}, cells)
	})
}

// describeSection reports a section without changing its state. Counting
// the lines of an unloaded section reads it and then drops it again.
func describeSection(sec *script.Section) (sectionRow, error) {
	row := sectionRow{
		Name:  sec.Name(),
		Type:  sec.Type().String(),
		Shape: sec.Shape().String(),
		State: sec.State().String(),
		Line:  sec.Line(),
	}

	unloaded := sec.State() == script.StateUnloaded

	lines, err := sec.Lines()
	if err != nil {
		return row, err
	}

	row.Lines = len(lines)

	if unloaded {
		sec.Unload()
	}

	return row, nil
}

// compileWhere returns a predicate for src. An empty src accepts every row.
func compileWhere(src string) (func(sectionRow) (bool, error), error) {
	if src == "" {
		return func(sectionRow) (bool, error) { return true, nil }, nil
	}

	program, err := expr.Compile(src, expr.Env(sectionRow{}), expr.AsBool())
	if err != nil {
		return nil, ErrWhere.Wrap(err).With(slog.String("where", src))
	}

	return func(row sectionRow) (bool, error) {
		out, err := vm.Run(program, row)
		if err != nil {
			return false, ErrWhere.Wrap(err).With(slog.String("where", src))
		}

		ok, _ := out.(bool)

		return ok, nil
	}, nil
}
