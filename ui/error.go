package ui

import "github.com/ardnew/bakery/pkg"

var (
	// ErrTooFewFields is returned for a control line with fewer than the
	// seven mandatory fields.
	ErrTooFewFields = pkg.NewError("interface control requires at least 7 fields")
	// ErrInvalidType is reported for a type tag that is not a known control
	// type.
	ErrInvalidType = pkg.NewError("invalid interface control type")
	// ErrInvalidRect is returned for a non-integer position or size.
	ErrInvalidRect = pkg.NewError("invalid interface control geometry")
	// ErrInvalidInfo is returned for malformed type-specific fields.
	ErrInvalidInfo = pkg.NewError("invalid interface control arguments")
	// ErrDuplicateKey is reported for a key already used in the section.
	ErrDuplicateKey = pkg.NewError("duplicate interface control key")
	// ErrInvalidValue is returned by [Control.SetValue] for a value the
	// control cannot hold. The control is left unchanged.
	ErrInvalidValue = pkg.NewError("invalid interface control value")
	// ErrNoValue is returned by [Control.SetValue] for control types
	// without a value.
	ErrNoValue = pkg.NewError("interface control has no value")
)
