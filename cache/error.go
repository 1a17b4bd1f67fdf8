package cache

import "github.com/ardnew/bakery/pkg"

var (
	// ErrOpen is returned when the database cannot be opened or migrated.
	ErrOpen = pkg.NewError("open cache")
	// ErrClosed is returned by every operation on a closed [Store].
	ErrClosed = pkg.NewError("cache closed")
	// ErrQuery wraps sqlite failures during a read or write.
	ErrQuery = pkg.NewError("cache query")
)
