//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the semantic version of the bakery module with surrounding
// whitespace removed. It is printed by the CLI.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project, in help text, default config paths and environment prefixes.
	Name = "bakery"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "WinBuilder-compatible script core"
	// EnvPrefix prefixes every environment variable read by the CLI.
	EnvPrefix = "BAKERY_"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
