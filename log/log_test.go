package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func plain(w io.Writer, opts ...Option) Logger {
	return Make(w, append([]Option{WithPretty(false), WithTimeLayout("none")}, opts...)...)
}

func TestMakeDefaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected level %v, got %v", DefaultLevel, logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected format %v, got %v", DefaultFormat, logger.Format())
	}
}

func TestZeroLogger(t *testing.T) {
	var logger Logger

	logger.Info("dropped")

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", logger.Level())
	}

	if logger.With(slog.Int("n", 1)).Logger != nil {
		t.Error("expected With on zero logger to stay zero")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithLevel(LevelWarn))
	logger.Debug("hidden")
	logger.Info("hidden")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	logger.Warn("shown")

	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected warn record, got %q", buf.String())
	}
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithLevel(LevelTrace)).Trace("cache lookup")

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE level, got %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	plain(&buf, WithFormat(FormatJSON)).
		Info("loaded", slog.String("path", "a.script"), slog.Int("lines", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}

	if rec["msg"] != "loaded" || rec["path"] != "a.script" || rec["lines"] != 3.0 {
		t.Errorf("unexpected record %v", rec)
	}

	if _, ok := rec["time"]; ok {
		t.Error("expected time to be omitted")
	}
}

func TestCallerPointsAtCallSite(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf, WithCaller(true))

	logger.Info("direct")
	logger.InfoContext(context.Background(), "with context")

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		if !strings.Contains(line, "log_test.go") {
			t.Errorf("expected source in log_test.go, got %q", line)
		}
	}
}

func TestWithAddsAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := plain(&buf).With(slog.String("doc", "main.project"))
	logger.Info("parsed")

	if !strings.Contains(buf.String(), "doc=main.project") {
		t.Errorf("expected persistent attr, got %q", buf.String())
	}
}

func TestWrapOverridesConfig(t *testing.T) {
	var a, b bytes.Buffer

	base := plain(&a)
	wrapped := base.Wrap(WithOutput(&b), WithLevel(LevelDebug))

	wrapped.Debug("to b")
	base.Debug("hidden")

	if a.Len() != 0 {
		t.Errorf("expected base logger unaffected, got %q", a.String())
	}

	if !strings.Contains(b.String(), "to b") {
		t.Errorf("expected wrapped output, got %q", b.String())
	}
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout("none")).
		With(slog.String("component", "cache"))

	logger.Warn("miss",
		slog.Bool("hit", false),
		slog.Group("key", slog.Int64("size", 12)),
		slog.Any("err", errors.New("boom")))

	got := strings.TrimSpace(buf.String())
	want := "level=WARN msg=miss component=cache hit=false key.size=12 err=boom"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPrettyJSON(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithPretty(true), WithFormat(FormatJSON), WithTimeLayout("none")).
		Error("failed", slog.String("path", "x"))

	want := "{\n  level: ERROR,\n  msg: failed,\n  path: x\n}\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestConcurrentUse(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	logger := plain(&lockedWriter{w: &buf, mu: &mu})

	for i := range 16 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("tick")
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "msg=tick"); n != 16 {
		t.Errorf("expected 16 records, got %d", n)
	}
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.w.Write(p)
}
