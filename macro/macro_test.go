package macro

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/pkg"
	"github.com/ardnew/bakery/script"
	"github.com/ardnew/bakery/vars"
)

const (
	mainScript = `[Main]
Title=Demo
Description=Demo project

[Variables]
%API%=%ProjectDir%\Macro.script
%APIVAR%=ApiVar
Perm=Echo,Permanent
`
	macroScript = `[Main]
Title=Macros
Description=Macro library

[Variables]
%LibDir%=%ProjectDir%\Lib

[ApiVar]
%Mode%=1
Say=Echo,#1
Bad-Name=Echo,x
Copy=FileCopy,#1,#2
`
	appScript = `[Main]
Title=App
Description=An app

[Variables]
%Local%=1
Say=Echo,"local #1"
Only=Echo,only
`
)

type fixture struct {
	project *script.Project
	store   *vars.Store
	diags   diag.Buffer
}

func setup(t *testing.T, files map[string]string) *fixture {
	t.Helper()

	script.ClearMemo()

	root := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o644))
	}

	p, err := script.LoadProject(context.Background(), root)
	require.NoError(t, err)

	f := &fixture{project: p, store: vars.New()}
	require.NoError(t, f.store.LoadProject(p, "", &f.diags))

	return f
}

func TestNew(t *testing.T) {
	f := setup(t, map[string]string{
		"script.project": mainScript,
		"Macro.script":   macroScript,
	})

	r, err := New(context.Background(), f.project, f.store, nil, &f.diags)
	require.NoError(t, err)
	require.True(t, r.Enabled())

	if diff := cmp.Diff([]string{"Copy", "Perm", "Say"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	say, ok := r.Lookup("SAY")
	require.True(t, ok)
	assert.Equal(t, command.KindEcho, say.Command.Kind)
	assert.Equal(t, ScopeLibrary, say.Scope)
	assert.Equal(t, 2, say.Command.Line)

	assert.Equal(t, "1", f.store.Expand("%Mode%"))
	assert.Equal(t, f.project.Root()+`\Lib`, f.store.Expand("%LibDir%"))

	var invalid bool
	for _, e := range f.diags.Entries() {
		invalid = invalid || e.Severity == diag.SeverityError && e.Line == 11
	}

	assert.True(t, invalid, "Bad-Name must be rejected at its line")
}

func TestInvoke(t *testing.T) {
	f := setup(t, map[string]string{
		"script.project": mainScript,
		"Macro.script":   macroScript,
		"App.script":     appScript,
	})

	r, err := New(context.Background(), f.project, f.store, command.LineParser{}, &f.diags)
	require.NoError(t, err)

	app, ok := f.project.Find("App.script")
	require.True(t, ok)
	require.NoError(t, r.SwitchDocument(app, &f.diags))

	call, err := command.LineParser{}.ParseOneRawLine("Say,Hello", command.Address{Section: "Process"})
	require.NoError(t, err)
	require.Equal(t, command.KindMacro, call.Kind)

	inv, err := r.Invoke(call)
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, inv.Macro.Scope)
	assert.Equal(t, "Say,Hello", inv.Command.Raw)
	assert.Equal(t, []string{"Hello"}, inv.Params.Args)
	assert.Equal(t, `Echo,"local #1"`, inv.Macro.Command.Raw, "template is not modified")
	assert.Equal(t, `Echo,"local Hello"`, inv.Expand(nil))

	main := f.project.Main()
	require.NoError(t, r.SwitchDocument(main, nil))

	inv, err = r.Invoke(call)
	require.NoError(t, err)
	assert.Equal(t, ScopeLibrary, inv.Macro.Scope)
	assert.Equal(t, "ECHO,HELLO", inv.Expand(strings.ToUpper))

	_, ok = r.Lookup("Only")
	assert.False(t, ok)
}

func TestInvokeUnknown(t *testing.T) {
	f := setup(t, map[string]string{
		"script.project": mainScript,
		"Macro.script":   macroScript,
		"App.script":     appScript,
	})

	r, err := New(context.Background(), f.project, f.store, nil, &f.diags)
	require.NoError(t, err)

	app, _ := f.project.Find("App.script")
	require.NoError(t, r.SwitchDocument(app, nil))

	before := r.Macros()

	call := command.Command{Kind: command.KindMacro, Name: "sy", Raw: "sy,x", Args: []string{"x"}, Line: 4}

	_, err = r.Invoke(call)
	require.ErrorIs(t, err, ErrUnknownMacro)

	var perr *pkg.Error
	require.ErrorAs(t, err, &perr)

	attrs := map[string]string{}
	for _, a := range perr.Attrs() {
		attrs[a.Key] = a.Value.String()
	}

	assert.Equal(t, "sy,x", attrs["raw"])
	assert.Equal(t, "4", attrs["line"])
	assert.Contains(t, r.Suggest("sy"), "Say")

	if diff := cmp.Diff(before, r.Macros()); diff != "" {
		t.Errorf("tables changed (-before +after):\n%s", diff)
	}
}

func TestDisabled(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		sev   diag.Severity
	}{
		{
			name: "no api",
			files: map[string]string{
				"script.project": "[Main]\nTitle=Demo\nDescription=Demo\n\n[Variables]\n%X%=1\n",
			},
			sev: diag.SeverityInfo,
		},
		{
			name: "missing script",
			files: map[string]string{
				"script.project": mainScript,
			},
			sev: diag.SeverityError,
		},
		{
			name: "missing section",
			files: map[string]string{
				"script.project": mainScript,
				"Macro.script":   "[Main]\nTitle=M\nDescription=M\n",
			},
			sev: diag.SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.files)

			var d diag.Buffer

			r, err := New(context.Background(), f.project, f.store, nil, &d)
			require.NoError(t, err)
			assert.False(t, r.Enabled())

			entries := d.Entries()
			require.NotEmpty(t, entries)
			assert.Equal(t, tt.sev, entries[0].Severity)

			_, err = r.Invoke(command.Command{Name: "Say", Raw: "Say,x"})
			assert.ErrorIs(t, err, ErrDisabled)
		})
	}
}

func TestScopeText(t *testing.T) {
	var s Scope
	require.NoError(t, s.UnmarshalText([]byte("local")))
	assert.Equal(t, ScopeLocal, s)

	require.NoError(t, s.UnmarshalText([]byte("Library")))
	assert.Equal(t, ScopeLibrary, s)

	require.ErrorIs(t, s.UnmarshalText([]byte("Global")), ErrInvalidScope)
}
