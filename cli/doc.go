// Package cli contains the command line interface for pulua.
//
// # Usage
//
// With no command, pulua runs the named scripts (or stdin) in one
// interpreter state:
//
//	pulua script.lua
//	pulua run -e 'print(1 + 2)' --result=native
//	pulua repl lib.lua
//
// The other commands inspect source without running it:
//
//	pulua tokens --comments script.lua
//	pulua ast --format=yaml script.lua
//	pulua fmt --write script.lua
//
// # Configuration
//
// Flag defaults are read from two files in the user configuration
// directory, if they exist:
//   - config.lua.json, a JSON object keyed by flag name
//   - config.lua, a pulua script whose globals name flags (see [resolve])
//
// The config.lua script runs without built-in functions, under a short
// deadline. A script that fails is reported and ignored. The init command
// writes a config.lua holding every current flag value.
//
// # Interpreter Options
//
//   - --registry-size: Number of registry slots available to scripts
//   - --max-depth: Maximum function call depth
//   - --precedence: Binary operator precedence (standard, flat)
//   - --path: Directory searched for scripts, ahead of PULUA_PATH
//   - -D NAME=EXPR: Bind a global to the value of an expression, evaluated
//     with github.com/expr-lang/expr before any script runs
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// The PULUA_LOG environment variable sets the same options, for example
// PULUA_LOG=level=debug,format=text. Flags take precedence over it.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o pulua .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/pulua/pprof)
package cli
