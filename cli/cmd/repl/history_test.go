package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	require.NoError(t, h.Load())

	require.NoError(t, h.Add("Echo,%A%", modeEval))
	require.NoError(t, h.Add("vars", modeCtrl))
	require.NoError(t, h.Add("vars", modeCtrl))
	require.NoError(t, h.Add("  ", modeEval))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "E:Echo,%A%\nC:vars\n", string(data))

	// Re-entering an old line moves it to the end.
	require.NoError(t, h.Add("Echo,%A%", modeEval))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())

	want := []HistoryEntry{
		{Line: "vars", Mode: modeCtrl},
		{Line: "Echo,%A%", Mode: modeEval},
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistoryBounds(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 5 {
		require.NoError(t, h.Add(fmt.Sprintf("Echo,%d", i), modeEval))
	}

	assert.Equal(t, maxHistory, h.Len())

	oldest, err := h.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, "Echo,5", oldest.Line)

	_, err = h.Entry(-1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = h.Entry(h.Len())
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHistoryMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none", baseHistory))

	require.NoError(t, h.Load())
	assert.Zero(t, h.Len())
}
