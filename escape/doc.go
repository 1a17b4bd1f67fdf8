// Package escape implements the WinBuilder escape sequences and positional
// parameter placeholders used throughout script documents.
//
// Script arguments are comma-separated and may be quoted, so literal commas,
// quotes, spaces, tabs and line breaks are written as two-character
// sequences introduced by "#$":
//
//	#$c  ,      #$q  "      #$s  space
//	#$t  tab    #$x  CRLF   #$p  %
//
// A literal '#' is written "##". Percent signs are escaped separately from
// the other sequences because they delimit variable references.
package escape
