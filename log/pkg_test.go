package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func swapDefault(t *testing.T, l Logger) {
	t.Helper()

	defaultMu.Lock()
	original := defaultLog
	defaultLog = l
	defaultMu.Unlock()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	swapDefault(t, Make(&buf, WithLevel(LevelDebug), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf("expected output to contain message %q, got: %s", tt.msg, output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected output to contain level %q, got: %s", tt.level, output)
			}
			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected output to contain attribute, got: %s", output)
			}
		})
	}
}

func TestPackage_ContextFunctions_UseDefaultLogger(t *testing.T) {
	swapDefault(t, Default())

	tests := []struct {
		name    string
		logFunc func(string)
	}{
		{"TraceContext", func(msg string) { TraceContext(t.Context(), msg) }},
		{"DebugContext", func(msg string) { DebugContext(t.Context(), msg) }},
		{"InfoContext", func(msg string) { InfoContext(t.Context(), msg) }},
		{"WarnContext", func(msg string) { WarnContext(t.Context(), msg) }},
		{"ErrorContext", func(msg string) { ErrorContext(t.Context(), msg) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Config(WithOutput(&buf), WithLevel(LevelTrace))

			tt.logFunc("package context test")

			if !strings.Contains(buf.String(), "package context test") {
				t.Error("expected message to be logged using package context function")
			}
		})
	}
}

func TestPackage_With_DerivesFromDefault(t *testing.T) {
	var buf bytes.Buffer
	swapDefault(t, Make(&buf, WithPretty(false)))

	With(slog.String("unit", "lexer")).Info("derived")

	if !strings.Contains(buf.String(), "unit=lexer") {
		t.Errorf("expected derived attribute, got: %s", buf.String())
	}
}
