package escape

import (
	"strings"
	"testing"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		full    bool
		percent bool
		want    string
	}{
		{"plain", "abc", true, false, "abc"},
		{"hash doubled", "a#b", false, false, "a##b"},
		{"narrow keeps comma and space", `a, "b"`, false, false, `a, #$qb#$q`},
		{"full", `a, "b"`, true, false, `a#$c#$s#$qb#$q`},
		{"tab and crlf", "a\tb\r\nc", false, false, "a#$tb#$xc"},
		{"percent", "%Var%", false, true, "#$pVar#$p"},
		{"escape sequence literal", "#$c", true, false, "##$c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.text, tt.full, tt.percent); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"none", "abc", "abc"},
		{"hash", "a##b", "a#b"},
		{"all sequences", "#$c#$q#$s#$t#$x", ",\" \t\r\n"},
		{"upper case", "#$C#$Q", `,"`},
		{"percent kept", "#$pX#$p", "#$pX#$p"},
		{"unknown kept", "#$z #1 #", "#$z #1 #"},
		{"trailing", "a#$", "a#$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unescape(tt.text); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		`say "hi", then	tab`,
		"line1\r\nline2",
		"#$c literal ## hashes #",
		"#$p%",
	}

	for _, in := range inputs {
		for _, fullTable := range []bool{false, true} {
			if got := Unescape(Escape(in, fullTable, false)); got != in {
				t.Errorf("full=%v: expected %q, got %q", fullTable, in, got)
			}
		}

		if got := UnescapePercent(Unescape(Escape(in, false, true))); !strings.Contains(in, "#$p") && got != in {
			t.Errorf("percent: expected %q, got %q", in, got)
		}
	}
}

func TestUnescapeIdempotentWithoutTokens(t *testing.T) {
	for _, in := range []string{"abc", "a b, c", `"q"`} {
		once := Unescape(in)
		if twice := Unescape(once); once != twice || once != in {
			t.Errorf("expected %q unchanged, got %q then %q", in, once, twice)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := EscapePercent("%A%"); got != "#$pA#$p" {
		t.Errorf("expected #$pA#$p, got %q", got)
	}

	if got := UnescapePercent("#$pA#$P"); got != "%A%" {
		t.Errorf("expected %%A%%, got %q", got)
	}
}

func TestQuoting(t *testing.T) {
	tests := []struct {
		text        string
		doublequote string
		quoteEscape string
	}{
		{"abc", "abc", "abc"},
		{"a b", `"a b"`, `"a b"`},
		{"a,b", "a,b", `"a,b"`},
		{`say "x"`, `"say "x""`, `"say #$qx#$q"`},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Doublequote(tt.text); got != tt.doublequote {
				t.Errorf("Doublequote: expected %q, got %q", tt.doublequote, got)
			}

			got := QuoteEscape(tt.text)
			if got != tt.quoteEscape {
				t.Errorf("QuoteEscape: expected %q, got %q", tt.quoteEscape, got)
			}

			if back := QuoteUnescape(got); back != tt.text {
				t.Errorf("QuoteUnescape: expected %q, got %q", tt.text, back)
			}
		})
	}
}
