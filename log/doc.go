// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The interpreter core never writes diagnostics directly. It carries a
// [Logger] received through functional options and emits Trace and Debug
// records, while the CLI configures the package-level default logger from
// flags and the PULUA_LOG environment variable (see [ParseEnv]).
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("script loaded", slog.String("path", path))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// A zero [Logger] discards everything, so it is always safe to call.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and [FormatJSON].
// Either can be rendered with colorized pretty printing using [WithPretty].
package log
