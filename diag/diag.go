// Package diag collects diagnostics produced while parsing script
// documents.
//
// Parsers append entries to a caller-supplied [Buffer] instead of printing
// them. The caller decides how to render the entries, typically by calling
// [Buffer.Log].
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/pkg"
)

// ErrInvalidSeverity is returned when decoding an unknown severity name.
var ErrInvalidSeverity = pkg.NewError("invalid diagnostic severity")

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityInfo reports a recoverable absence, such as an optional
	// feature that is not configured.
	SeverityInfo Severity = iota
	// SeverityWarning reports input that was accepted with a fallback.
	SeverityWarning
	// SeverityError reports an item that was dropped or left unchanged.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	for v := SeverityInfo; v <= SeverityError; v++ {
		if strings.EqualFold(v.String(), string(text)) {
			*s = v

			return nil
		}
	}

	return ErrInvalidSeverity.With(slog.String("severity", string(text)))
}

func (s Severity) level() log.Level {
	switch s {
	case SeverityInfo:
		return log.LevelInfo
	case SeverityWarning:
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

// Entry is a single diagnostic.
type Entry struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message"  yaml:"message"`
	// Line is the 1-based source line, or 0 if unknown.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
	// Raw is the offending source text, if any.
	Raw string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

func (e Entry) String() string {
	var b strings.Builder

	b.WriteString(e.Severity.String())

	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}

	b.WriteString(": ")
	b.WriteString(e.Message)

	if e.Raw != "" {
		fmt.Fprintf(&b, " [%s]", e.Raw)
	}

	return b.String()
}

// LogValue implements [slog.LogValuer].
func (e Entry) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("message", e.Message)}

	if e.Line > 0 {
		attrs = append(attrs, slog.Int("line", e.Line))
	}

	if e.Raw != "" {
		attrs = append(attrs, slog.String("raw", e.Raw))
	}

	return slog.GroupValue(attrs...)
}

// Buffer is a concurrency-safe, append-only list of entries. The zero value
// is ready to use. A nil *Buffer discards everything added to it.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
}

// Add appends entries to b.
func (b *Buffer) Add(entries ...Entry) {
	if b == nil || len(entries) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entries...)
}

// Info appends an entry at [SeverityInfo].
func (b *Buffer) Info(line int, raw, format string, args ...any) {
	b.Add(Entry{SeverityInfo, fmt.Sprintf(format, args...), line, raw})
}

// Warn appends an entry at [SeverityWarning].
func (b *Buffer) Warn(line int, raw, format string, args ...any) {
	b.Add(Entry{SeverityWarning, fmt.Sprintf(format, args...), line, raw})
}

// Error appends an entry at [SeverityError].
func (b *Buffer) Error(line int, raw, format string, args ...any) {
	b.Add(Entry{SeverityError, fmt.Sprintf(format, args...), line, raw})
}

// Err appends err at [SeverityError].
func (b *Buffer) Err(line int, raw string, err error) {
	if err != nil {
		b.Add(Entry{SeverityError, err.Error(), line, raw})
	}
}

// Merge appends every entry of other to b.
func (b *Buffer) Merge(other *Buffer) {
	if other == nil || other == b {
		return
	}

	b.Add(other.Entries()...)
}

// Entries returns a copy of the entries in insertion order. Reading never
// clears the buffer.
func (b *Buffer) Entries() []Entry {
	if b == nil {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.Clone(b.entries)
}

// Drain returns the entries and empties b.
func (b *Buffer) Drain() []Entry {
	if b == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.entries
	b.entries = nil

	return e
}

// Len returns the number of entries.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries)
}

// HasError reports whether any entry is at [SeverityError].
func (b *Buffer) HasError() bool {
	if b == nil {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.ContainsFunc(b.entries, func(e Entry) bool {
		return e.Severity >= SeverityError
	})
}

// Log writes every entry to the package-level logger at the level matching
// its severity.
func (b *Buffer) Log(ctx context.Context, attrs ...slog.Attr) {
	logger := log.Default().With(attrs...)

	for _, e := range b.Entries() {
		logger.LogContext(ctx, e.Severity.level(), e.Message, slog.Any("diag", e))
	}
}
