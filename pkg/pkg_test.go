package pkg

import (
	"regexp"
	"testing"
)

func TestName(t *testing.T) {
	expected := "bakery"
	if Name != expected {
		t.Errorf("expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

	v := Version()
	if !semver.MatchString(v) {
		t.Errorf("expected semantic version, got %q", v)
	}
}

func TestPrefix(t *testing.T) {
	if Prefix() == "" {
		t.Error("expected non-empty prefix")
	}
}

func TestDirsUsePrefix(t *testing.T) {
	tests := []struct {
		name string
		dir  func() string
	}{
		{"config", ConfigDir},
		{"cache", CacheDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dir()
			if got == "" {
				t.Fatalf("expected %s dir, got empty string", tt.name)
			}

			if !regexp.MustCompile(regexp.QuoteMeta(Prefix()) + `$`).MatchString(got) {
				t.Errorf("expected %s dir to end with %q, got %q", tt.name, Prefix(), got)
			}
		})
	}
}
