package cmd

import "github.com/ardnew/bakery/pkg"

var (
	ErrFormat     = pkg.NewError("unsupported output format")
	ErrMarshal    = pkg.NewError("marshal output")
	ErrNotFound   = pkg.NewError("script not found")
	ErrWhere      = pkg.NewError("invalid filter expression")
	ErrNoInput    = pkg.NewError("no text to expand")
	ErrOutOfRange = pkg.NewError("argument out of range")
)
