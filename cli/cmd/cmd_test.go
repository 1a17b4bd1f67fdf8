package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/bakery/command"
	"github.com/ardnew/bakery/script"
)

const (
	demoScript = `[Main]
Title=Demo
Description=Demo project

[Variables]
%Who%=World
%API%=%ProjectDir%\Macro.script
%APIVAR%=ApiVar

[Interface]
pText=Name,1,0,10,10,200,21,old
pNum=N,1,2,10,10,40,22,3,0,100,1

[Process]
Echo,Hello %Who%
Set,%Who%,You
`
	macroScript = `[Main]
Title=Macros
Description=Macro library

[ApiVar]
Say=Echo,"#1 to %Who%"
`
)

type runner interface {
	Run(ctx context.Context) error
}

// newProject writes a project with the demo main script and macro library
// and returns options selecting it.
func newProject(t *testing.T) Options {
	t.Helper()

	script.ClearMemo()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, script.MainScriptFile), []byte(demoScript), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Macro.script"), []byte(macroScript), 0o644))

	return Options{
		Project:    root,
		Format:     formatJSON,
		Precedence: "LocalFirst",
	}
}

func run(t *testing.T, opts Options, r runner) []byte {
	t.Helper()

	var buf bytes.Buffer

	ctx := WithOutput(WithOptions(context.Background(), opts), &buf)
	require.NoError(t, r.Run(ctx))

	return buf.Bytes()
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))

	return v
}

func TestSections(t *testing.T) {
	opts := newProject(t)

	rows := decode[[]sectionRow](t, run(t, opts, &Sections{File: script.MainScriptFile}))

	var names, types []string
	for _, r := range rows {
		names = append(names, r.Name)
		types = append(types, r.Type)
	}

	if diff := cmp.Diff([]string{"Main", "Variables", "Interface", "Process"}, names); diff != "" {
		t.Errorf("section names mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"Main", "Variables", "Interface", "Code"}, types); diff != "" {
		t.Errorf("section types mismatch (-want +got):\n%s", diff)
	}

	rows = decode[[]sectionRow](t, run(t, opts, &Sections{
		File:  script.MainScriptFile,
		Where: `type == "Code" && lines > 1`,
	}))
	require.Len(t, rows, 1)
	assert.Equal(t, "Process", rows[0].Name)
	assert.Equal(t, 2, rows[0].Lines)
}

func TestCompileWhere(t *testing.T) {
	_, err := compileWhere("lines +")
	require.ErrorIs(t, err, ErrWhere)

	_, err = compileWhere(`name + 1`)
	require.ErrorIs(t, err, ErrWhere, "non-boolean expressions are rejected")

	all, err := compileWhere("")
	require.NoError(t, err)

	ok, err := all(sectionRow{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestControls(t *testing.T) {
	opts := newProject(t)

	rows := decode[[]map[string]any](t, run(t, opts, &Controls{
		File: script.MainScriptFile,
		Set:  []string{"ptext=new"},
	}))
	require.Len(t, rows, 2)
	assert.Equal(t, "pText", rows[0]["key"])
	assert.Equal(t, "new", rows[0]["value"])
	assert.Equal(t, "3", rows[1]["value"])

	lines := decode[[]string](t, run(t, opts, &Controls{File: script.MainScriptFile, Forge: true}))
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "pNum=N,1,2,"), lines[1])

	var buf bytes.Buffer

	ctx := WithOutput(WithOptions(context.Background(), opts), &buf)
	err := (&Controls{File: script.MainScriptFile, Set: []string{"pMissing=1"}}).Run(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommands(t *testing.T) {
	opts := newProject(t)

	cmds := decode[[]command.Command](t, run(t, opts, &Commands{
		File:    script.MainScriptFile,
		Section: "Process",
	}))
	require.Len(t, cmds, 2)
	assert.Equal(t, command.KindEcho, cmds[0].Kind)
	assert.Equal(t, "Echo,Hello %Who%", cmds[0].Raw)
	assert.Equal(t, 1, cmds[0].Line)
}

func TestCommandRows(t *testing.T) {
	cmds := []command.Command{
		{Kind: command.KindEcho, Raw: "Echo,a", Line: 1},
		{Kind: command.KindIf, Raw: "If,x,Begin", Line: 2, Link: []command.Command{
			{Kind: command.KindSet, Raw: "Set,%A%,1", Line: 3},
		}},
	}

	want := [][]string{
		{"1", "Echo", "Echo,a"},
		{"2", "If", "If,x,Begin"},
		{"3", "  Set", "  Set,%A%,1"},
	}

	if diff := cmp.Diff(want, commandRows(nil, cmds, 0)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand(t *testing.T) {
	opts := newProject(t)

	got := decode[[]expansion](t, run(t, opts, &Expand{Text: []string{"Hi %Who%", "%Nope%"}}))

	want := []expansion{
		{Text: "Hi %Who%", Value: "Hi World"},
		{Text: "%Nope%", Value: "%Nope%"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("expansions mismatch (-want +got):\n%s", diff)
	}

	ctx := WithOptions(context.Background(), opts)
	require.ErrorIs(t, (&Expand{}).Run(ctx), ErrNoInput)
}

func TestMacros(t *testing.T) {
	opts := newProject(t)

	list := decode[[]map[string]any](t, run(t, opts, &Macros{}))
	require.Len(t, list, 1)
	assert.Equal(t, "Say", list[0]["name"])

	call := decode[map[string]any](t, run(t, opts, &Macros{Name: "say", Args: []string{"Hi"}}))
	assert.Equal(t, `Echo,"Hi to World"`, call["expansion"])
}

func TestCache(t *testing.T) {
	opts := newProject(t)
	opts.Cache = true
	opts.CacheFile = filepath.Join(t.TempDir(), "cache", "documents.db")

	run(t, opts, &Sections{File: script.MainScriptFile})

	stats := decode[map[string]any](t, run(t, opts, &CacheStats{}))
	assert.Equal(t, opts.CacheFile, stats["path"])
	assert.EqualValues(t, 1, stats["entries"])

	cleared := decode[map[string]any](t, run(t, opts, &CacheClear{}))
	assert.EqualValues(t, 1, cleared["removed"])

	stats = decode[map[string]any](t, run(t, opts, &CacheStats{}))
	assert.EqualValues(t, 0, stats["entries"])
}

func TestLocate(t *testing.T) {
	project := t.TempDir()
	flagDir := t.TempDir()
	envDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(envDir, "Tool.script"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "Own.script"), nil, 0o644))

	t.Setenv(PathEnv, envDir+string(os.PathListSeparator)+filepath.Join(envDir, "missing"))

	e := &env{opts: Options{Project: project, Path: []string{flagDir}}}

	if diff := cmp.Diff([]string{flagDir, envDir}, e.searchPath()); diff != "" {
		t.Errorf("search path mismatch (-want +got):\n%s", diff)
	}

	got, err := e.locate("Tool.script")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(envDir, "Tool.script"), got)

	got, err = e.locate("Own.script")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "Own.script"), got)

	_, err = e.locate("None.script")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRenderFormat(t *testing.T) {
	var buf bytes.Buffer

	err := render(context.Background(), &buf, "xml", 1, nil)
	require.ErrorIs(t, err, ErrFormat)

	require.NoError(t, render(context.Background(), &buf, formatYAML, map[string]int{"a": 1}, nil))
	assert.Equal(t, "a: 1\n", buf.String())

	buf.Reset()
	require.NoError(t, render(context.Background(), &buf, formatText, "plain", nil))
	assert.Equal(t, "plain\n", buf.String())
}
