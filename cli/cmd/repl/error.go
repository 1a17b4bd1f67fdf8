package repl

import "github.com/ardnew/bakery/pkg"

var (
	// ErrOutOfBounds is returned for a history index outside the history.
	ErrOutOfBounds = pkg.NewError("history index out of range")
	// ErrNoScript is returned by commands that need an active script.
	ErrNoScript = pkg.NewError("no script selected")
	// ErrUsage is returned for a control command with missing arguments.
	ErrUsage = pkg.NewError("invalid command usage")
)
