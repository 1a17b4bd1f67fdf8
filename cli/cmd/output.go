package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const outputIndent = 2

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// render writes v to w in format. Text output is produced by text, which
// may be nil for values that print well with fmt.
func render(ctx context.Context, w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "", formatText:
		if text != nil {
			return text(w)
		}

		_, err := fmt.Fprintln(w, v)

		return err

	case formatJSON:
		data, err := json.MarshalIndent(v, "", strings.Repeat(" ", outputIndent))
		if err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("format", format))
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case formatYAML:
		data, err := yaml.MarshalContext(ctx, v, yaml.Indent(outputIndent))
		if err != nil {
			return ErrMarshal.Wrap(err).With(slog.String("format", format))
		}

		_, err = w.Write(data)

		return err

	default:
		return ErrFormat.With(slog.String("format", format))
	}
}

// writeTable writes rows under headers as a bordered table.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

// writeNote writes a dimmed line, used for empty results.
func writeNote(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintln(w, noteStyle.Render(fmt.Sprintf(format, args...)))

	return err
}
