package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/pulua/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout("none"))
	logger.Info("interpreter started", slog.String("version", "0.1.0"))
	// Output: level=INFO msg="interpreter started" version=0.1.0
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("slow chunk", slog.Int("line", 12))
	// Output: level=WARN msg="slow chunk" line=12
}

func Example_environment() {
	logger := log.Make(os.Stdout, log.ParseEnv("level=trace,time=none,pretty=false")...)
	logger.Trace("token", slog.String("kind", "Name"))
	// Output: level=TRACE msg=token kind=Name
}

func Example_withContext() {
	logger := log.Make(os.Stdout, log.WithFormat(log.FormatJSON), log.WithPretty(false), log.WithTimeLayout("none"))
	logger = logger.With(slog.String("chunk", "main.lua"))

	logger.InfoContext(context.Background(), "executing")
	// Output: {"level":"INFO","msg":"executing","chunk":"main.lua"}
}
