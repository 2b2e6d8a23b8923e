// Package cmd implements the pulua subcommands: run, tokens, ast, fmt, init
// and version. The interactive session lives in package repl.
//
// Commands receive their configuration through the [context.Context] passed
// to Run: the parsed [kong.Context] (see [WithContext]) and the interpreter
// [Runtime] (see [WithRuntime]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the pulua configuration script.
	ConfigIdentifier = "config"
)
