package token

import "github.com/ardnew/bakery/pkg"

var (
	// ErrEmptyLine marks a blank or comment line. Callers skip such lines
	// without reporting them.
	ErrEmptyLine = pkg.NewError("empty line")
	// ErrMismatchedQuotes is returned for a physical line with an odd number
	// of double quotes.
	ErrMismatchedQuotes = pkg.NewError("mismatched quotes")
	// ErrDanglingContinuation is returned when the last line of a section
	// ends with a continuation marker.
	ErrDanglingContinuation = pkg.NewError("line continuation at end of section")
	// ErrSyntax is returned for text following a closing quote.
	ErrSyntax = pkg.NewError("syntax error")
	// ErrNoKey is returned for a keyed line with an empty or missing key.
	ErrNoKey = pkg.NewError("missing key")
)
