package vars

import "github.com/ardnew/bakery/pkg"

var (
	// ErrReadOnlyTier is returned for ordinary writes to the fixed tier.
	ErrReadOnlyTier = pkg.NewError("variable tier is read-only")
	// ErrCircular is returned for a value that expands to contain its own
	// name.
	ErrCircular = pkg.NewError("circular variable reference")
	// ErrInvalidKey is returned for an empty name or one containing '%' or
	// a space.
	ErrInvalidKey = pkg.NewError("invalid variable name")
	// ErrInvalidEnum is returned for an unknown tier or precedence.
	ErrInvalidEnum = pkg.NewError("invalid enumerated value")
)
