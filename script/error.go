package script

import "github.com/ardnew/bakery/pkg"

var (
	// ErrOpen is returned when a document file cannot be opened or read.
	ErrOpen = pkg.NewError("open script")
	// ErrMainSection is returned when the Main section is missing or lacks
	// a mandatory key.
	ErrMainSection = pkg.NewError("invalid main section")
	// ErrLinkTarget is reported for a link whose target cannot be loaded.
	ErrLinkTarget = pkg.NewError("invalid link target")
	// ErrNoSection is returned for a section name a document does not have.
	ErrNoSection = pkg.NewError("no such section")
	// ErrShape is returned when a section is accessed in a shape its type
	// does not have.
	ErrShape = pkg.NewError("section shape mismatch")
	// ErrInvalidEnum is returned for an enumerated value out of range.
	ErrInvalidEnum = pkg.NewError("invalid enumerated value")
	// ErrSnapshot is returned for a cached snapshot that cannot be decoded.
	ErrSnapshot = pkg.NewError("invalid snapshot")
	// ErrNoMainScript is returned for a project root without a main script.
	ErrNoMainScript = pkg.NewError("project has no main script")
)
