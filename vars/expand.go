package vars

import "strings"

// Expand replaces every %Name% reference in text with its value, expanding
// values recursively. Names that are undefined, or that would recur within
// their own substitution chain, are written as #$pName#$p so that a later
// pass leaves them alone.
func (s *Store) Expand(text string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.expand(text)
}

// ExpandAll expands each element of texts.
func (s *Store) ExpandAll(texts []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = s.expand(t)
	}

	return out
}

func (s *Store) expand(text string) string {
	chain := make(map[string]bool)

	for range MaxExpandDepth {
		next, n := s.expandRefs(text, chain, 0)
		if n == 0 {
			return text
		}

		text = next
	}

	out, _ := substitute(text, placeholder)

	return out
}

// expandRefs substitutes one level of references in text, following each
// value down its own chain. It returns the number of references replaced.
func (s *Store) expandRefs(text string, chain map[string]bool, depth int) (string, int) {
	return substitute(text, func(name string) string {
		return s.resolve(name, chain, depth)
	})
}

func (s *Store) resolve(name string, chain map[string]bool, depth int) string {
	key := fold(name)
	if chain[key] || depth >= MaxExpandDepth {
		return placeholder(name)
	}

	value, _, ok := s.lookup(key)
	if !ok {
		return placeholder(name)
	}

	if strings.Count(value, "%") < 2 {
		return value
	}

	chain[key] = true
	out, _ := s.expandRefs(value, chain, depth+1)
	delete(chain, key)

	return out
}

func placeholder(name string) string { return "#$p" + name + "#$p" }

// substitute calls fn for every %Name% span in text, where Name is a
// non-empty run without spaces or '%', and replaces the span with its
// result. A '%' that cannot open a span is kept as a literal.
func substitute(text string, fn func(name string) string) (string, int) {
	if strings.Count(text, "%") < 2 {
		return text, 0
	}

	var b strings.Builder

	b.Grow(len(text))

	n, lit, pos := 0, 0, 0
	for {
		open := strings.IndexByte(text[pos:], '%')
		if open < 0 {
			break
		}

		open += pos

		end := strings.IndexByte(text[open+1:], '%')
		if end < 0 {
			break
		}

		end += open + 1

		name := text[open+1 : end]
		if name == "" || strings.ContainsRune(name, ' ') {
			pos = end

			continue
		}

		b.WriteString(text[lit:open])
		b.WriteString(fn(name))

		n++
		lit, pos = end+1, end+1
	}

	if n == 0 {
		return text, 0
	}

	b.WriteString(text[lit:])

	return b.String(), n
}
