package macro

import "github.com/ardnew/bakery/pkg"

var (
	// ErrUnknownMacro is returned by [Resolver.Invoke] for a name found in
	// neither table.
	ErrUnknownMacro = pkg.NewError("unknown macro")
	// ErrDisabled is returned by [Resolver.Invoke] when the project does
	// not define a macro library.
	ErrDisabled = pkg.NewError("macros not defined")
	// ErrInvalidName is recorded for entries whose key is not a valid macro
	// name.
	ErrInvalidName = pkg.NewError("invalid macro name")
	// ErrInvalidScope is returned when decoding an unknown scope name.
	ErrInvalidScope = pkg.NewError("invalid macro scope")
)
