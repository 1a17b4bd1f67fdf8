// Package cmd implements the bakery subcommands.
//
// Every command loads what it needs from the global [Options]: a single
// document for sections, controls and commands, or the whole project with
// its variables and macros for expand, macros and repl. Results are written
// as text, JSON or YAML.
package cmd

var (
	// CacheIdentifier is the kong variable holding the default path of the
	// persistent document cache.
	CacheIdentifier = "cacheFile"

	// ConfigIdentifier is the kong variable holding the path of the
	// configuration file.
	ConfigIdentifier = "config"

	// PathEnvIdentifier is the kong variable holding the name of the
	// environment variable merged into --path.
	PathEnvIdentifier = "pathEnv"
)
