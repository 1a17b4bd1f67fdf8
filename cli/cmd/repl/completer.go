package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/bakery/command"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "vars", "set", "script", "macros", "edit", "clear", "quit",
}

// isWordBoundary reports whether r separates words for completion. Script
// arguments are comma separated; '%' delimits variable references.
func isWordBoundary(r rune) bool {
	switch r {
	case ',', ' ', '\t', '"', '%', '\\', '=':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// wordContext tells what the word at a position refers to.
type wordContext int

const (
	contextNone     wordContext = iota
	contextCommand              // first argument: a command or macro name
	contextVariable             // inside an open %...% reference
)

// contextAt classifies the word starting at wordStart. A word follows an
// unclosed '%' when an odd number of '%' precede it.
func contextAt(input string, wordStart int) wordContext {
	prefix := input[:wordStart]

	if strings.Count(prefix, "%")%2 == 1 && strings.HasSuffix(prefix, "%") {
		return contextVariable
	}

	if strings.TrimSpace(prefix) == "" {
		return contextCommand
	}

	return contextNone
}

// candidatesFor returns the names that complete a word in context c.
func candidatesFor(s *Session, c wordContext) []string {
	switch c {
	case contextVariable:
		return s.VarNames()

	case contextCommand:
		return append(s.MacroNames(), command.Names()...)

	default:
		return nil
	}
}

// ctrlCandidates completes control commands, and the script argument of
// the "script" command.
func ctrlCandidates(s *Session, input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])

	switch {
	case len(fields) == 0:
		return ctrlCommands

	case len(fields) == 1 && fields[0] == "script":
		return s.Scripts()

	case len(fields) == 1 && fields[0] == "set":
		return s.VarNames()

	default:
		return nil
	}
}

// computeMatches ranks the candidates for the word at the cursor, best
// first. An empty word yields no matches, except right after an opening
// '%' where every variable is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())
	wordStart, wordEnd = ws, we

	var wc wordContext

	if m.mode == modeCtrl {
		candidates = ctrlCandidates(m.session, input, wordStart)
	} else {
		wc = contextAt(input, wordStart)
		candidates = candidatesFor(m.session, wc)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if wc != contextVariable {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, truncated with
// an ellipsis to fit width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
