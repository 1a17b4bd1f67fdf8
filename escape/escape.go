package escape

import "strings"

// rule maps a literal to its escape sequence.
type rule struct {
	lit, seq string
}

var (
	narrow = []rule{
		{`"`, "#$q"},
		{"\t", "#$t"},
		{"\r\n", "#$x"},
	}
	full = append([]rule{
		{",", "#$c"},
		{" ", "#$s"},
	}, narrow...)
)

// seqLiteral maps the lower-case selector following "#$" to its literal.
// "#$p" is deliberately absent; see [UnescapePercent].
var seqLiteral = map[byte]string{
	'c': ",",
	'q': `"`,
	's': " ",
	't': "\t",
	'x': "\r\n",
}

// Escape returns text with escape sequences substituted for reserved
// characters. Every '#' is doubled first so the result unescapes exactly.
//
// With full set, commas and spaces are escaped in addition to quotes, tabs
// and CRLF. With escapePercent set, '%' is written "#$p".
func Escape(text string, fullTable, escapePercent bool) string {
	text = strings.ReplaceAll(text, "#", "##")

	table := narrow
	if fullTable {
		table = full
	}

	for _, r := range table {
		text = strings.ReplaceAll(text, r.lit, r.seq)
	}

	if escapePercent {
		text = EscapePercent(text)
	}

	return text
}

// Unescape replaces escape sequences in text with their literals.
//
// "##" becomes '#', and "#$c", "#$q", "#$s", "#$t" and "#$x" (in either
// case) become their literals. "#$p" and unknown sequences are kept as
// written.
func Unescape(text string) string {
	if !strings.Contains(text, "#") {
		return text
	}

	var b strings.Builder

	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '#' || i+1 >= len(text) {
			b.WriteByte(c)

			continue
		}

		switch text[i+1] {
		case '#':
			b.WriteByte('#')
			i++

		case '$':
			if i+2 < len(text) {
				if lit, ok := seqLiteral[lower(text[i+2])]; ok {
					b.WriteString(lit)
					i += 2

					continue
				}
			}

			b.WriteByte(c)

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// EscapePercent writes every '%' as "#$p".
func EscapePercent(text string) string {
	return strings.ReplaceAll(text, "%", "#$p")
}

// UnescapePercent turns every "#$p" (in either case) back into '%'.
func UnescapePercent(text string) string {
	if !strings.Contains(text, "#$") {
		return text
	}

	var b strings.Builder

	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if text[i] == '#' && i+2 < len(text) && text[i+1] == '$' && lower(text[i+2]) == 'p' {
			b.WriteByte('%')
			i += 2

			continue
		}

		b.WriteByte(text[i])
	}

	return b.String()
}

// Doublequote wraps text in double quotes if it contains a space.
func Doublequote(text string) string {
	if strings.Contains(text, " ") {
		return `"` + text + `"`
	}

	return text
}

// QuoteEscape prepares text for use as a single script argument. Quotes,
// tabs and line breaks are escaped, and the result is quoted if text
// contains a space or a comma.
func QuoteEscape(text string) string {
	quote := strings.ContainsAny(text, " ,")

	text = Escape(text, false, false)
	if quote {
		return `"` + text + `"`
	}

	return text
}

// QuoteUnescape reverses [QuoteEscape]: one pair of surrounding quotes is
// removed and the remainder is unescaped.
func QuoteUnescape(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}

	return Unescape(text)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}
