package command

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/bakery/diag"
)

func TestLookupKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
		ok   bool
	}{
		{"Echo", KindEcho, true},
		{"txtaddline", KindTXTAddLine, true},
		{" IniWrite ", KindIniWrite, true},
		{"VisibleOp", KindNone, false},
		{"Comment", KindNone, false},
		{"MyMacro", KindNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupKind(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindVisibleOp.String() != "VisibleOp" || !KindVisibleOp.Synthetic() {
		t.Errorf("expected synthetic VisibleOp, got %v", KindVisibleOp)
	}

	if KindEcho.Synthetic() {
		t.Error("expected Echo not synthetic")
	}

	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("expected Kind(42), got %q", got)
	}
}

func TestNames(t *testing.T) {
	names := Names()

	if !slices.IsSorted(names) {
		t.Error("expected sorted names")
	}

	for _, name := range names {
		if _, ok := LookupKind(name); !ok {
			t.Errorf("expected %q to be a parseable command", name)
		}
	}

	if slices.Contains(names, "Macro") || slices.Contains(names, "VisibleOp") {
		t.Errorf("expected only parseable commands, got %v", names)
	}
}

func TestParseOneRawLine(t *testing.T) {
	addr := Address{Path: "/p/a.script", Section: "Process"}

	cmd, err := LineParser{}.ParseOneRawLine(`Echo,"Hello, World",WARN`, addr)
	if err != nil {
		t.Fatal(err)
	}

	want := Command{
		Kind: KindEcho,
		Name: "Echo",
		Raw:  `Echo,"Hello, World",WARN`,
		Args: []string{"Hello, World", "WARN"},
		Addr: addr,
	}

	if diff := cmp.Diff(want, cmd); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}

	cmd, err = LineParser{}.ParseOneRawLine("ShowProgress,1", addr)
	if err != nil || cmd.Kind != KindMacro || cmd.Name != "ShowProgress" {
		t.Errorf("expected macro ShowProgress, got %+v, %v", cmd, err)
	}

	for _, raw := range []string{"", "// note", ",x"} {
		if _, err := (LineParser{}).ParseOneRawLine(raw, addr); !errors.Is(err, ErrEmptyCommand) {
			t.Errorf("%q: expected ErrEmptyCommand, got %v", raw, err)
		}
	}
}

func TestParseRawLines(t *testing.T) {
	lines := []string{
		"// header",
		"Echo,one",
		`If,%A%,Equal,1,Begin`,
		"  Visible,%pCheck%,False",
		"  If,ExistFile,x,Begin",
		"    Echo,nested",
		"  End",
		"End",
		"Echo,a,\\",
		"b",
		`Echo,"broken`,
		"End",
	}

	var d diag.Buffer

	cmds := LineParser{KeepComments: true}.ParseRawLines(lines, Address{Section: "Process"}, &d)

	kinds := func(cmds []Command) []Kind {
		out := make([]Kind, len(cmds))
		for i, c := range cmds {
			out[i] = c.Kind
		}

		return out
	}

	if diff := cmp.Diff([]Kind{KindComment, KindEcho, KindIf, KindEcho}, kinds(cmds)); diff != "" {
		t.Fatalf("top-level kinds mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Kind{KindVisible, KindIf}, kinds(cmds[2].Link)); diff != "" {
		t.Errorf("block kinds mismatch (-want +got):\n%s", diff)
	}

	if got := cmds[2].Link[1].Link; len(got) != 1 || got[0].Arg(0) != "nested" {
		t.Errorf("expected nested block with one Echo, got %+v", got)
	}

	if got := cmds[3]; got.Line != 9 || cmp.Diff([]string{"a", "b"}, got.Args) != "" {
		t.Errorf("expected joined continuation at line 9, got %+v", got)
	}

	entries := d.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", entries)
	}

	if entries[0].Line != 11 || entries[1].Line != 12 {
		t.Errorf("expected diagnostics at lines 11 and 12, got %v", entries)
	}
}

func TestParseRawLinesUnclosedBlock(t *testing.T) {
	var d diag.Buffer

	cmds := LineParser{}.ParseRawLines([]string{
		"If,A,Begin",
		"If,B,Begin",
		"Echo,x",
		"End",
	}, Address{}, &d)

	if len(cmds) != 1 || len(cmds[0].Link) != 1 {
		t.Fatalf("expected one outer block, got %+v", cmds)
	}

	if entries := d.Entries(); len(entries) != 1 || entries[0].Line != 1 {
		t.Errorf("expected unclosed block reported at line 1, got %v", entries)
	}
}

func TestClone(t *testing.T) {
	orig := Command{
		Kind: KindIf,
		Args: []string{"a"},
		Link: []Command{{Kind: KindEcho, Args: []string{"x"}}},
	}

	c := orig.Clone()
	c.Args[0] = "changed"
	c.Link[0].Args[0] = "changed"

	if orig.Args[0] != "a" || orig.Link[0].Args[0] != "x" {
		t.Errorf("expected original untouched, got %+v", orig)
	}
}

func TestKindText(t *testing.T) {
	tests := []struct {
		text string
		want Kind
	}{
		{"Echo", KindEcho},
		{"iniwrite", KindIniWrite},
		{"Comment", KindComment},
		{"VisibleOp", KindVisibleOp},
		{"Macro", KindMacro},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var got Kind
			if err := got.UnmarshalText([]byte(tt.text)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	k := KindSet
	if err := k.UnmarshalText([]byte("NoSuchCommand")); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}

	if k != KindSet {
		t.Errorf("expected kind unchanged on error, got %v", k)
	}
}

func TestCommandJSON(t *testing.T) {
	var (
		p    LineParser
		d    diag.Buffer
		addr = Address{Path: "a.script", Section: "Process"}
	)

	cmds := Optimize(p.ParseRawLines([]string{
		"Visible,%pA%,True",
		"Visible,%pB%,False",
		"If,%X%,Equal,1,Begin",
		"Echo,yes",
		"End",
	}, addr, &d))

	data, err := json.Marshal(cmds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []Command
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff(cmds, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded commands mismatch (-want +got):\n%s", diff)
	}
}
