package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{" warn ", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if got := LevelTrace.String(); got != "trace" {
		t.Errorf("expected trace, got %q", got)
	}

	if got := Level(2).String(); got != "INFO+2" {
		t.Errorf("expected INFO+2, got %q", got)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if got := slices.Collect(Levels()); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("unexpected formats %v", got)
	}
}

func TestOptionsMutateCopy(t *testing.T) {
	base := makeConfig(nil)
	next := apply(base.clone(), WithLevel(LevelError), WithCaller(true))

	if base.level != DefaultLevel || base.caller != DefaultCaller {
		t.Errorf("expected base config unchanged, got level=%v caller=%v",
			base.level, base.caller)
	}

	if next.level != LevelError || !next.caller {
		t.Errorf("expected level=error caller=true, got level=%v caller=%v",
			next.level, next.caller)
	}
}

func TestOptionsOnZeroConfig(t *testing.T) {
	c := WithFormat(FormatJSON)(config{})
	if c.mutex == nil {
		t.Fatal("expected mutex to be allocated")
	}

	if c.format != FormatJSON {
		t.Errorf("expected json, got %v", c.format)
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T15:04:05Z"},
		{"rfc-3339", "2024-03-09T15:04:05Z"},
		{"Kitchen", "3:04PM"},
		{"DateTime", "2024-03-09 15:04:05"},
		{"2006", "2024"},
		{"none", ""},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
