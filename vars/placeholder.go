package vars

import "strings"

// Placeholder classifies a whole token.
type Placeholder int

const (
	PlaceholderNone Placeholder = iota
	// PlaceholderVariable is a %Name% reference.
	PlaceholderVariable
	// PlaceholderParam is a positional parameter such as #1.
	PlaceholderParam
	// PlaceholderLoopCounter is #c.
	PlaceholderLoopCounter
	// PlaceholderReturnValue is #r.
	PlaceholderReturnValue
)

func (p Placeholder) String() string {
	switch p {
	case PlaceholderVariable:
		return "Variable"
	case PlaceholderParam:
		return "Param"
	case PlaceholderLoopCounter:
		return "LoopCounter"
	case PlaceholderReturnValue:
		return "ReturnValue"
	default:
		return "None"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (p Placeholder) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Placeholder) UnmarshalText(text []byte) error {
	for v := PlaceholderNone; v <= PlaceholderReturnValue; v++ {
		if strings.EqualFold(v.String(), string(text)) {
			*p = v

			return nil
		}
	}

	return ErrInvalidEnum.With(slogString("placeholder", string(text)))
}

// DetectPlaceholder reports which kind of placeholder text is, if text
// consists of exactly one.
func DetectPlaceholder(text string) Placeholder {
	text = strings.TrimSpace(text)

	switch {
	case isVariable(text):
		return PlaceholderVariable
	case isParam(text):
		return PlaceholderParam
	case strings.EqualFold(text, "#c"):
		return PlaceholderLoopCounter
	case strings.EqualFold(text, "#r"):
		return PlaceholderReturnValue
	default:
		return PlaceholderNone
	}
}

func isVariable(s string) bool {
	if len(s) < 3 || s[0] != '%' || s[len(s)-1] != '%' {
		return false
	}

	for _, c := range s[1 : len(s)-1] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("_-#().", c):
		default:
			return false
		}
	}

	return true
}

func isParam(s string) bool {
	if len(s) < 2 || s[0] != '#' || s[1] == '0' {
		return false
	}

	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
