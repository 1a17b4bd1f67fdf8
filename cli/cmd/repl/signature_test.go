package repl

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"
)

func TestDetectMacroCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   macroCall
	}{
		{"name_only", "Say", 3, macroCall{}},
		{"cursor_on_name", "Say,Hi", 2, macroCall{}},
		{"first_param", "Say,", 4, macroCall{name: "Say", argIndex: 1, inCall: true}},
		{"second_param", "Copy,a,b", 8, macroCall{name: "Copy", argIndex: 2, inCall: true}},
		{"quoted_comma", `Say,"a,b"`, 9, macroCall{name: "Say", argIndex: 1, inCall: true}},
		{"after_quote", `Say,"a,b",c`, 11, macroCall{name: "Say", argIndex: 2, inCall: true}},
		{"empty_name", ",x", 2, macroCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectMacroCall(tt.input, tt.cursor)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(macroCall{})); diff != "" {
				t.Errorf("detectMacroCall(%q, %d) mismatch (-want +got):\n%s",
					tt.input, tt.cursor, diff)
			}
		})
	}
}

func TestParamTokens(t *testing.T) {
	got := paramTokens("FileCopy,#1,#2\\x,##3,#0,#12")

	want := []paramToken{
		{start: 9, end: 11, n: 1},
		{start: 12, end: 14, n: 2},
		{start: 24, end: 27, n: 12},
	}

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(paramToken{})); diff != "" {
		t.Errorf("paramTokens mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderSignatureHint(t *testing.T) {
	if got := renderSignatureHint("Say", "", 1); got != "" {
		t.Errorf("expected empty hint for empty template, got %q", got)
	}

	got := ansi.Strip(renderSignatureHint("Copy", "FileCopy,#1,#2", 2))
	if got != "Copy: FileCopy,#1,#2" {
		t.Errorf("unexpected hint text %q", got)
	}

	if !strings.Contains(renderSignatureHint("Copy", "FileCopy,#1,#2", 2), currentParamStyle.Render("#2")) {
		t.Error("expected the current parameter to be highlighted")
	}
}
