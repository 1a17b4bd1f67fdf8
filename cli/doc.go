// Package cli contains the command line interface for bakery.
//
// # Usage
//
// Every command works on one project, the directory holding script.project,
// selected with --project (default: the working directory):
//
//	bakery -P ~/Win10PESE/Projects/Win10PESE sections Build/shell.script
//	bakery commands Build/shell.script Process --optimize
//	bakery expand '%TargetDir%\Windows' --script Build/shell.script
//	bakery macros Copy_Prog a b
//	bakery repl
//
// Script arguments are found as given, then under the project, then under
// each directory of --path and $BAKERY_PATH.
//
// # Configuration
//
// Flag defaults are read from the [Config] section of the file config in
// the user configuration directory, written like a script section:
//
//	[Config]
//	project=/src/Win10PESE/Projects/Win10PESE
//	log-level=info
//
// A JSON file named config.json beside it is read as well.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: record format (text, json)
//   - --log-time-layout: timestamp layout
//   - --log-caller: include the call site
//   - --log-pretty: colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag, which
// adds two flags:
//
//   - --pprof-mode: enable profiling in the given mode
//   - --pprof-dir: profile output directory (default: <cache dir>/pprof)
//
// Build with:
//
//	go build -tags pprof -o bakery .
package cli
