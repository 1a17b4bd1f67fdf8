package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()

	if r == nil {
		return ""
	}

	b, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(b)
}

func TestOpenInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	link := filepath.Join(dir, "link.txt")

	require.NoError(t, os.WriteFile(a, []byte("A\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("B\n"), 0o644))
	require.NoError(t, os.Symlink(a, link))

	rel, err := filepath.Rel(mustGetwd(t), a)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sources []string
		want    string
	}{
		{"none", nil, ""},
		{"single", []string{a}, "A\n"},
		{"ordered", []string{b, a}, "B\nA\n"},
		{"duplicate path", []string{a, a}, "A\n"},
		{"relative and absolute", []string{a, rel}, "A\n"},
		{"symlink", []string{link, a}, "A\n"},
		{"stdin last", []string{"-", a}, "A\nIN\n"},
		{"stdin collapsed", []string{"-", b, "-"}, "B\nIN\n"},
		{"missing skipped", []string{filepath.Join(dir, "nope"), b}, "B\n"},
		{"all missing", []string{filepath.Join(dir, "nope")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, openInputs(tt.sources, strings.NewReader("IN\n")))
			assert.Equal(t, tt.want, got)
		})
	}
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	return wd
}
