package diag

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBufferAccumulates(t *testing.T) {
	var b Buffer

	b.Info(0, "", "macros disabled")
	b.Warn(3, "X=1", "fallback for %s", "X")
	b.Err(4, "Y=", errors.New("bad value"))
	b.Err(5, "", nil)

	want := []Entry{
		{SeverityInfo, "macros disabled", 0, ""},
		{SeverityWarning, "fallback for X", 3, "X=1"},
		{SeverityError, "bad value", 4, "Y="},
	}

	if diff := cmp.Diff(want, b.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if !b.HasError() {
		t.Error("expected HasError")
	}

	if b.Len() != 3 {
		t.Errorf("expected entries kept after read, got %d", b.Len())
	}
}

func TestNilBuffer(t *testing.T) {
	var b *Buffer

	b.Error(1, "", "ignored")

	if b.Len() != 0 || b.HasError() || b.Entries() != nil {
		t.Error("expected nil buffer to discard entries")
	}
}

func TestMerge(t *testing.T) {
	var a, b Buffer

	a.Info(1, "", "a")
	b.Info(2, "", "b")
	a.Merge(&b)
	a.Merge(&a)

	if a.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", a.Len())
	}
}

func TestDrain(t *testing.T) {
	var b Buffer

	b.Warn(1, "", "first")

	if got := b.Drain(); len(got) != 1 || got[0].Message != "first" {
		t.Errorf("expected the warning, got %v", got)
	}

	if b.Len() != 0 {
		t.Errorf("expected drained buffer, got %d entries", b.Len())
	}
}

func TestConcurrentAdd(t *testing.T) {
	var (
		b  Buffer
		wg sync.WaitGroup
	)

	for i := range 50 {
		wg.Go(func() { b.Info(i, "", "entry") })
	}

	wg.Wait()

	if b.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", b.Len())
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{SeverityError, "too few fields", 7, "a=b"}
	if got, want := e.String(), "error (line 7): too few fields [a=b]"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSeverityText(t *testing.T) {
	for _, want := range []Severity{SeverityInfo, SeverityWarning, SeverityError} {
		text, err := want.MarshalText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got Severity
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != want {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	var s Severity
	if err := s.UnmarshalText([]byte("fatal")); !errors.Is(err, ErrInvalidSeverity) {
		t.Errorf("expected ErrInvalidSeverity, got %v", err)
	}
}
