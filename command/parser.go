package command

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/token"
)

// Parser turns code lines into commands.
type Parser interface {
	// ParseOneRawLine parses a single line.
	ParseOneRawLine(raw string, addr Address) (Command, error)
	// ParseRawLines parses a section body. Lines that fail to parse are
	// reported to d and omitted.
	ParseRawLines(lines []string, addr Address, d *diag.Buffer) []Command
}

// LineParser classifies lines by their leading command name. The zero value
// is ready to use.
type LineParser struct {
	// KeepComments retains comment lines as [KindComment] commands.
	KeepComments bool
}

var _ Parser = LineParser{}

// ParseOneRawLine parses raw as one command. Continuation markers are not
// honored, and comment lines are rejected with [ErrEmptyCommand].
func (p LineParser) ParseOneRawLine(raw string, addr Address) (Command, error) {
	raw = strings.TrimSpace(raw)
	if token.IsEmpty(raw) {
		return Command{}, ErrEmptyCommand.With(slog.String("raw", raw))
	}

	args, err := token.Split(raw)
	if err != nil {
		return Command{}, err
	}

	return classify(raw, args, addr, 0)
}

// ParseRawLines parses every line of a section body, joining continuation
// lines and nesting Begin/End blocks under the If or Else that opens them.
func (p LineParser) ParseRawLines(
	lines []string,
	addr Address,
	d *diag.Buffer,
) []Command {
	flat := make([]Command, 0, len(lines))

	for i := 0; i < len(lines); {
		text := strings.TrimSpace(lines[i])

		if token.IsEmpty(text) {
			if text != "" && p.KeepComments {
				flat = append(flat, Command{
					Kind: KindComment,
					Raw:  text,
					Addr: addr,
					Line: i + 1,
				})
			}

			i++

			continue
		}

		line, err := token.Tokenize(lines, i, false)
		i += max(line.Count, 1)

		if err != nil {
			if !errors.Is(err, token.ErrEmptyLine) {
				d.Err(line.Index+1, text, err)
			}

			continue
		}

		cmd, err := classify(line.Raw, line.Args, addr, line.Index+1)
		if err != nil {
			d.Err(line.Index+1, line.Raw, err)

			continue
		}

		flat = append(flat, cmd)
	}

	pos := 0
	cmds, _ := nest(flat, &pos, false, d)

	log.Trace("parsed code section",
		slog.String("section", addr.Section),
		slog.Int("lines", len(lines)),
		slog.Int("commands", len(cmds)))

	return cmds
}

func classify(raw string, args []string, addr Address, line int) (Command, error) {
	if len(args) == 0 || args[0] == "" {
		return Command{}, ErrEmptyCommand.With(slog.String("raw", raw))
	}

	cmd := Command{
		Kind: KindMacro,
		Name: args[0],
		Raw:  raw,
		Args: args[1:],
		Addr: addr,
		Line: line,
	}

	if k, ok := LookupKind(args[0]); ok {
		cmd.Kind = k
	}

	return cmd, nil
}

// nest moves the commands between an If/Else opening a block and its End
// into the opener's Link. The End itself is consumed. It reports whether an
// End closed the block.
func nest(flat []Command, pos *int, inBlock bool, d *diag.Buffer) ([]Command, bool) {
	var out []Command

	for *pos < len(flat) {
		cmd := flat[*pos]
		*pos++

		switch {
		case cmd.Kind == KindEnd:
			if inBlock {
				return out, true
			}

			d.Err(cmd.Line, cmd.Raw, ErrUnmatchedEnd)

		case cmd.opensBlock():
			var closed bool

			cmd.Link, closed = nest(flat, pos, true, d)
			if !closed {
				d.Err(cmd.Line, cmd.Raw, ErrUnclosedBlock)
			}

			out = append(out, cmd)

		default:
			out = append(out, cmd)
		}
	}

	return out, false
}
