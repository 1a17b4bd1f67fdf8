package ui

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/escape"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/token"
)

// minFields is the count of Text, Visibility, Type, X, Y, Width, Height.
const minFields = 7

// Parse parses the lines of an interface section. firstLine is the 1-based
// document line number of lines[0].
//
// Lines that fail to parse, controls of an unknown type, and controls
// reusing a key are reported to d and omitted from the result.
func Parse(lines []string, section string, firstLine int, d *diag.Buffer) []*Control {
	var (
		ctrls []*Control
		seen  = make(map[string]bool)
	)

	for i := 0; i < len(lines); {
		c, n, err := ParseLine(lines, i, section, firstLine)
		lineNo := firstLine + i
		i += n

		switch {
		case errors.Is(err, token.ErrEmptyLine):
			continue

		case err != nil:
			d.Err(lineNo, strings.TrimSpace(lines[i-n]), err)

			continue

		case c.Type == TypeNone:
			d.Info(lineNo, c.Raw, "%s: control [%s] dropped", ErrInvalidType, c.Key)

			continue
		}

		key := strings.ToLower(c.Key)
		if seen[key] {
			d.Error(lineNo, c.Raw, "%s [%s]", ErrDuplicateKey, c.Key)

			continue
		}

		seen[key] = true
		ctrls = append(ctrls, c)
	}

	log.Trace("parsed interface section",
		slog.String("section", section),
		slog.Int("lines", len(lines)),
		slog.Int("controls", len(ctrls)))

	return ctrls
}

// ParseLine parses the control starting at lines[idx] and returns it with
// the number of physical lines consumed, which is at least one.
//
// A control whose type tag is not a known type is returned with
// [TypeNone] and a nil Info.
func ParseLine(lines []string, idx int, section string, firstLine int) (*Control, int, error) {
	line, err := token.Tokenize(lines, idx, true)
	n := max(line.Count, 1)

	if err != nil {
		return nil, n, err
	}

	args := line.Args
	if len(args) < minFields {
		return nil, n, ErrTooFewFields.With(
			slog.String("key", line.Key), slog.Int("fields", len(args)))
	}

	c := &Control{
		Key:     line.Key,
		Text:    escape.Unescape(args[0]),
		Visible: args[1] == "1",
		Type:    ParseType(args[2]),
		Raw:     line.Raw,
		Section: section,
		Line:    firstLine + idx,
	}

	if c.Type == TypeNone {
		return c, n, nil
	}

	var rect [4]int

	for i, s := range args[3:minFields] {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, n, ErrInvalidRect.Wrap(err).With(slog.String("key", c.Key))
		}

		rect[i] = v
	}

	c.Rect = Rect{X: rect[0], Y: rect[1], Width: rect[2], Height: rect[3]}

	c.Info, err = parseInfo(c.Type, c.Text, args[minFields:])
	if err != nil {
		return nil, n, ErrInvalidInfo.Wrap(err).
			With(slog.String("key", c.Key), typeAttr(c.Type))
	}

	return c, n, nil
}
