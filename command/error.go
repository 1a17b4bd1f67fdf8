package command

import "github.com/ardnew/bakery/pkg"

var (
	// ErrEmptyCommand is returned for a blank line or a line without a
	// command name.
	ErrEmptyCommand = pkg.NewError("empty command")
	// ErrUnmatchedEnd is reported for an End without an open block.
	ErrUnmatchedEnd = pkg.NewError("End without matching Begin")
	// ErrUnclosedBlock is reported for a Begin block reaching the end of
	// the section.
	ErrUnclosedBlock = pkg.NewError("Begin without matching End")
	// ErrInvalidEnum is returned when decoding an unknown kind name.
	ErrInvalidEnum = pkg.NewError("invalid enumerated value")
)
