package escape

import (
	"strconv"
	"strings"
)

// Params binds the placeholders recognized by [ExpandParams].
type Params struct {
	// Args are the positional parameters; "#1" is Args[0].
	Args []string
	// Loop reports whether a loop is executing. "#c" expands only when set.
	Loop bool
	// Counter is the current loop counter, substituted for "#c".
	Counter string
	// Return is the value of the last returning command, substituted for "#r".
	Return string
	// Strict leaves unbound "#N" placeholders in place instead of expanding
	// them to the empty string.
	Strict bool
}

// ExpandParams substitutes the placeholders in text:
//
//	#N  positional parameter N (1-based)
//	#c  loop counter, only while p.Loop is set
//	#a  number of positional parameters
//	#r  return value
//
// "##" is an escaped '#' and is copied through unchanged, as are "#$"
// escape sequences. A nil p binds nothing.
func ExpandParams(text string, p *Params) string {
	if !strings.Contains(text, "#") {
		return text
	}

	if p == nil {
		p = &Params{}
	}

	var b strings.Builder

	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if text[i] != '#' || i+1 >= len(text) {
			b.WriteByte(text[i])

			continue
		}

		next := text[i+1]

		switch {
		case next == '#':
			b.WriteString("##")
			i++

		case isDigit(next):
			j := i + 1
			for j < len(text) && isDigit(text[j]) {
				j++
			}

			n, err := strconv.Atoi(text[i+1 : j])
			switch {
			case err == nil && n >= 1 && n <= len(p.Args):
				b.WriteString(p.Args[n-1])
			case p.Strict:
				b.WriteString(text[i:j])
			}

			i = j - 1

		case lower(next) == 'c':
			if p.Loop {
				b.WriteString(p.Counter)
			} else {
				b.WriteString(text[i : i+2])
			}

			i++

		case lower(next) == 'a':
			b.WriteString(strconv.Itoa(len(p.Args)))
			i++

		case lower(next) == 'r':
			b.WriteString(p.Return)
			i++

		default:
			b.WriteByte('#')
		}
	}

	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
