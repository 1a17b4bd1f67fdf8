package script

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/bakery/cache"
)

func writeProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeFile(t, root, MainScriptFile, "[Main]\nTitle=Win10PE\nDescription=Main project\n")
	writeFile(t, root, "Build/10-Core.script", "[Main]\nTitle=Core\nDescription=Core files\nLevel=2\n")
	writeFile(t, root, "Apps/Tool.script", "[Main]\nTitle=Tool\nDescription=A tool\n")
	writeFile(t, root, "Apps/Tool.link", "[Main]\nLink=..\\Shared\\Real.script\nSelected=True\n")
	writeFile(t, root, "Apps/Chain.link", "[Main]\nLink=Tool.link\n")
	writeFile(t, root, "Apps/Broken.link", "[Main]\nLink=%Missing%\\Nowhere.script\n")
	writeFile(t, root, "Apps/Bad.script", "[Main]\nTitle=No description\n")
	writeFile(t, root, "Apps/notes.txt", "ignored")
	writeFile(t, root, "Shared/Real.script", "[Main]\nTitle=Real\nDescription=Link target\n")

	return root
}

func TestLoadProject(t *testing.T) {
	ClearMemo()

	root := writeProject(t)

	p, err := LoadProject(context.Background(), root, WithConcurrency(2))
	require.NoError(t, err)

	require.NotNil(t, p.Main())
	assert.Equal(t, "Win10PE", p.Title())

	var rels []string
	for _, d := range p.Documents() {
		rels = append(rels, d.RelPath())
	}

	assert.Equal(t, []string{
		"Apps",
		"Apps/Broken.link",
		"Apps/Chain.link",
		"Apps/Tool.link",
		"Apps/Tool.script",
		"Build",
		"Build/10-Core.script",
		MainScriptFile,
		"Shared",
		"Shared/Real.script",
	}, rels)

	diags := p.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "Apps/Bad.script", diags[0].Raw)

	core, ok := p.Find(`Build\10-core.script`)
	require.True(t, ok)
	assert.Equal(t, 2, core.Info().Level)

	dir, ok := p.Find(filepath.Join(root, "Apps"))
	require.True(t, ok)
	assert.Equal(t, KindDirectory, dir.Kind())
}

func TestResolveLinks(t *testing.T) {
	ClearMemo()

	root := writeProject(t)

	p, err := LoadProject(context.Background(), root)
	require.NoError(t, err)

	expand := func(s string) string { return strings.ReplaceAll(s, "%Missing%", "Gone") }
	require.NoError(t, p.ResolveLinks(context.Background(), expand))

	link, ok := p.Find("Apps/Tool.link")
	require.True(t, ok)
	assert.Equal(t, "Real", link.Title())
	assert.Equal(t, SelectedTrue, link.Info().Selected)
	assert.Equal(t, KindLink, link.Kind())

	chain, ok := p.Find("Apps/Chain.link")
	require.True(t, ok)
	assert.Same(t, link.Resolve(), chain.Resolve())

	_, ok = p.Find("Apps/Broken.link")
	assert.False(t, ok, "unresolvable link must be removed")

	var found bool
	for _, e := range p.Diagnostics() {
		found = found || strings.Contains(e.Raw, "Broken.link")
	}

	assert.True(t, found)
}

func TestLoadProjectNoMain(t *testing.T) {
	_, err := LoadProject(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoMainScript)
}

func TestLoadProjectCache(t *testing.T) {
	ctx := context.Background()
	root := writeProject(t)

	store, err := cache.Open(ctx, cache.MemoryPath, cache.WithSchema(SnapshotSchema))
	require.NoError(t, err)

	defer store.Close()

	ClearMemo()

	_, err = LoadProject(ctx, root, WithCache(store))
	require.NoError(t, err)

	st, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), st.Entries, "every script and link file is cached")

	// Same size and modification time: only a cache hit still sees the
	// old title.
	path := filepath.Join(root, MainScriptFile)
	info, err := os.Stat(path)
	require.NoError(t, err)
	writeFile(t, root, MainScriptFile, "[Main]\nTitle=Win11PE\nDescription=Main project\n")
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	ClearMemo()

	p, err := LoadProject(ctx, root, WithCache(store))
	require.NoError(t, err)
	assert.Equal(t, "Win10PE", p.Title(), "served from the cache")

	ClearMemo()

	p, err = LoadProject(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, "Win11PE", p.Title())
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := &Snapshot{
		Schema:   SnapshotSchema,
		Encoding: EncodingUTF16LE,
		Sections: []SectionSnapshot{
			{Name: "Main", Line: 1, Buffered: true, Lines: []string{"Title=x"}},
			{Name: "EncodedFile-a-b", Line: 3},
		},
	}

	data, err := snap.MarshalBinary()
	require.NoError(t, err)

	var got Snapshot
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, *snap, got)

	require.ErrorIs(t, got.UnmarshalBinary([]byte("garbage")), ErrSnapshot)

	stale := *snap
	stale.Schema = SnapshotSchema + 1

	data, err = stale.MarshalBinary()
	require.NoError(t, err)
	assert.ErrorIs(t, got.UnmarshalBinary(data), ErrSnapshot)
}
