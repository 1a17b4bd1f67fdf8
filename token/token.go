// Package token splits script lines into comma-separated arguments.
//
// Arguments are separated by commas. An argument starting with a double
// quote extends to the matching closing quote, so it may contain commas;
// a doubled quote ("") inside a quoted argument does not close it. Quotes
// surrounding an argument are removed, and no escape sequences are
// interpreted.
//
// A line whose last argument is a lone backslash continues on the next
// physical line.
package token

import (
	"log/slog"
	"strings"
)

// Continuation is the argument that joins a line with the next one.
const Continuation = `\`

// Line is one logical line after continuation joining.
type Line struct {
	// Key is the text before the first '=' of a keyed line.
	Key string
	// Args are the comma-separated arguments, unquoted.
	Args []string
	// Raw is the joined source text, including the key.
	Raw string
	// Index is the position of the first physical line in the input.
	Index int
	// Count is the number of physical lines consumed.
	Count int
}

// IsEmpty reports whether line is blank or a comment.
func IsEmpty(line string) bool {
	line = strings.TrimSpace(line)

	return line == "" ||
		strings.HasPrefix(line, "//") ||
		strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, ";")
}

// Next splits the first argument off s. It returns the argument, the
// remaining text after the separating comma, and whether a separator was
// found.
func Next(s string) (next, rest string, more bool, err error) {
	s = strings.TrimLeft(s, " \t")

	if !strings.HasPrefix(s, `"`) {
		if i := strings.IndexByte(s, ','); i >= 0 {
			return strings.TrimSpace(s[:i]), s[i+1:], true, nil
		}

		return strings.TrimSpace(s), "", false, nil
	}

	// Find the closing quote, stepping over doubled quotes.
	end := -1

	for i := 1; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}

		if i+1 < len(s) && s[i+1] == '"' {
			i++

			continue
		}

		end = i

		break
	}

	if end < 0 {
		return "", "", false, ErrMismatchedQuotes.With(slog.String("text", s))
	}

	next = s[1:end]
	tail := strings.TrimLeft(s[end+1:], " \t")

	switch {
	case tail == "":
		return next, "", false, nil

	case tail[0] == ',':
		return next, tail[1:], true, nil

	default:
		return "", "", false, ErrSyntax.With(slog.String("text", s))
	}
}

// Split returns every argument of line.
func Split(line string) ([]string, error) {
	if strings.Count(line, `"`)%2 != 0 {
		return nil, ErrMismatchedQuotes.With(slog.String("line", line))
	}

	var args []string

	for rest, more := line, true; more; {
		var (
			next string
			err  error
		)

		next, rest, more, err = Next(rest)
		if err != nil {
			return nil, err
		}

		args = append(args, next)
	}

	return args, nil
}

// SplitKey splits a keyed line on its first '='. The key is trimmed and
// must not be empty.
func SplitKey(line string) (key, value string, err error) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", ErrNoKey.With(slog.String("line", line))
	}

	key = strings.TrimSpace(line[:i])
	if key == "" {
		return "", "", ErrNoKey.With(slog.String("line", line))
	}

	return key, line[i+1:], nil
}

// SplitKeyValue parses an ini-style "Key=Value" line. Both parts are
// trimmed. It returns false for lines without a key.
func SplitKeyValue(line string) (key, value string, ok bool) {
	k, v, err := SplitKey(line)
	if err != nil {
		return "", "", false
	}

	return k, strings.TrimSpace(v), true
}

// Tokenize reads the logical line beginning at lines[idx]. With keyed set
// the text before the first '=' becomes [Line.Key].
//
// Blank and comment lines yield [ErrEmptyLine] with Count set to 1 so the
// caller can step past them.
//
// Quote parity is checked on each physical line, so the joined line is
// balanced too. A quoted argument cannot span a continuation.
func Tokenize(lines []string, idx int, keyed bool) (Line, error) {
	out := Line{Index: idx, Count: 1}

	if idx < 0 || idx >= len(lines) {
		return out, ErrEmptyLine
	}

	first := strings.TrimSpace(lines[idx])
	if IsEmpty(first) {
		return out, ErrEmptyLine
	}

	body := first
	if keyed {
		key, value, err := SplitKey(first)
		if err != nil {
			return out, err
		}

		out.Key, body = key, value
	}

	raw := []string{first}

	args, err := Split(body)
	if err != nil {
		return out, err
	}

	for len(args) > 0 && args[len(args)-1] == Continuation {
		args = args[:len(args)-1]

		next := idx + out.Count
		if next >= len(lines) {
			return out, ErrDanglingContinuation.With(slog.String("line", first))
		}

		text := strings.TrimSpace(lines[next])
		out.Count++

		more, err := Split(text)
		if err != nil {
			return out, err
		}

		raw = append(raw, text)
		args = append(args, more...)
	}

	out.Args = args
	out.Raw = strings.Join(raw, " ")

	return out, nil
}
