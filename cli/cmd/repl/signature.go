package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// macroCall is a macro call detected in the input.
type macroCall struct {
	name     string // first argument of the line
	argIndex int    // 1-based parameter under the cursor, 0 on the name
	inCall   bool   // cursor is past the macro name
}

// detectMacroCall reports the parameter under cursor when the line's first
// argument is followed by a comma. Commas inside double quotes do not
// separate arguments.
func detectMacroCall(input string, cursor int) macroCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	comma := strings.IndexByte(input, ',')
	if comma < 0 || cursor <= comma {
		return macroCall{}
	}

	name := strings.TrimSpace(input[:comma])
	if name == "" {
		return macroCall{}
	}

	index := 1
	quoted := false

	for i := comma + 1; i < cursor; i++ {
		switch input[i] {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				index++
			}
		}
	}

	return macroCall{name: name, argIndex: index, inCall: true}
}

// paramToken is one "#N" reference within a template.
type paramToken struct {
	start, end int
	n          int
}

// paramTokens returns the positional parameter references of template in
// order. "##" is an escaped '#'.
func paramTokens(template string) []paramToken {
	var toks []paramToken

	for i := 0; i < len(template); i++ {
		if template[i] != '#' || i+1 >= len(template) {
			continue
		}

		if template[i+1] == '#' {
			i++

			continue
		}

		j := i + 1
		for j < len(template) && template[j] >= '0' && template[j] <= '9' {
			j++
		}

		if j == i+1 || template[i+1] == '0' {
			continue
		}

		n, err := strconv.Atoi(template[i+1 : j])
		if err != nil {
			continue
		}

		toks = append(toks, paramToken{start: i, end: j, n: n})
		i = j - 1
	}

	return toks
}

// renderSignatureHint renders "name: template" with every reference to
// parameter current highlighted.
func renderSignatureHint(name, template string, current int) string {
	if template == "" {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render(": "))

	pos := 0

	for _, tok := range paramTokens(template) {
		b.WriteString(signatureStyle.Render(template[pos:tok.start]))

		if tok.n == current {
			b.WriteString(currentParamStyle.Render(template[tok.start:tok.end]))
		} else {
			b.WriteString(signatureStyle.Render(template[tok.start:tok.end]))
		}

		pos = tok.end
	}

	b.WriteString(signatureStyle.Render(template[pos:]))

	return b.String()
}
