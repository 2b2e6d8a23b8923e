package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
	if !logger.pretty {
		t.Error("expected pretty enabled by default")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	quiet := Make(&buf, WithLevel(LevelError))
	quiet.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	quiet.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		Make(&buf, WithCaller(true), WithPretty(pretty)).Info("with caller")
		if !strings.Contains(buf.String(), "log_test.go") {
			t.Errorf("pretty=%v: caller not included when enabled: %s", pretty, buf.String())
		}

		buf.Reset()
		Make(&buf, WithCaller(false), WithPretty(pretty)).Info("without caller")
		if strings.Contains(buf.String(), "source") {
			t.Errorf("pretty=%v: caller included when disabled: %s", pretty, buf.String())
		}
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "test message") {
			t.Error("message not found in text output")
		}
		if !strings.Contains(output, "key=value") {
			t.Error("key=value not found in text output")
		}
	})
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("expected logged=%v, got output length=%d", tt.logged, buf.Len())
			}
		})
	}
}

func TestLogger_AllLevels_RenderLevelName(t *testing.T) {
	tests := []struct {
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		for _, pretty := range []bool{false, true} {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(LevelTrace), WithPretty(pretty))

			tt.logFunc(logger, "test message")

			output := buf.String()
			if !strings.Contains(output, "test message") {
				t.Errorf("pretty=%v: expected %s message to be logged", pretty, tt.level)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("pretty=%v: expected level %q, got: %s", pretty, tt.level, output)
			}
		}
	}
}

func TestLogger_Pretty_KeepsAttributesAndGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithTimeLayout("none"))

	logger = logger.With(slog.String("component", "parser"))
	logger.Info("parsed", slog.Int("tokens", 12), slog.Group("pos", slog.Int("line", 3)))

	output := buf.String()
	for _, want := range []string{"component", "parser", "tokens", "12", "pos", "line", "3"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in pretty output: %s", want, output)
		}
	}
	if strings.Contains(output, "time") {
		t.Errorf("expected no time field, got: %s", output)
	}
}

func TestLogger_PrettyJSON_WrapsObject(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Warn("careful", slog.Bool("ok", false))

	output := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(output, "{") || !strings.HasSuffix(output, "}") {
		t.Errorf("expected braces around pretty JSON output: %s", output)
	}
	if !strings.Contains(output, "careful") || !strings.Contains(output, "false") {
		t.Errorf("missing fields in pretty JSON output: %s", output)
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf syncBuffer
	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("concurrent message", slog.Int("id", id))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLogger_Wrap_OverridesBase(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithLevel(LevelError), WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError {
		t.Errorf("Wrap modified the base logger level: %v", base.Level())
	}
	if wrapped.Level() != LevelDebug {
		t.Errorf("expected wrapped level debug, got %v", wrapped.Level())
	}

	wrapped.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger did not write to the base output")
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))

	logger.With(slog.String("key", "value")).Info("test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}

	if val, ok := entry["key"]; !ok || val != "value" {
		t.Errorf("expected key=value in log entry, got %v", val)
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger
	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.Enabled(DefaultContextProvider(), LevelError) {
		t.Error("zero logger reports enabled")
	}
	if l2 := l.With(slog.String("key", "value")); l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}
	if l3 := l.Wrap(WithOutput(nil)); l3.Logger == nil {
		t.Error("expected Wrap on zero value to build a logger")
	}
}

func TestLogger_ContextMethods_LogSuccessfully(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string)
	}{
		{"trace", func(l Logger, msg string) { l.TraceContext(t.Context(), msg) }},
		{"debug", func(l Logger, msg string) { l.DebugContext(t.Context(), msg) }},
		{"info", func(l Logger, msg string) { l.InfoContext(t.Context(), msg) }},
		{"warn", func(l Logger, msg string) { l.WarnContext(t.Context(), msg) }},
		{"error", func(l Logger, msg string) { l.ErrorContext(t.Context(), msg) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(Make(&buf, WithLevel(LevelTrace)), "test message")

			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("expected %s message to be logged", tt.name)
			}
		})
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestLogger_Accessors(t *testing.T) {
	var zero Logger

	if zero.TimeLayout() != "RFC3339" || zero.Caller() != DefaultCaller || zero.Pretty() != DefaultPretty {
		t.Error("zero Logger does not report defaults")
	}

	logger := Make(nil, WithTimeLayout("Kitchen"), WithCaller(true), WithPretty(false))

	if got := logger.TimeLayout(); got != "Kitchen" {
		t.Errorf("TimeLayout() = %q, want Kitchen", got)
	}

	if !logger.Caller() {
		t.Error("Caller() = false, want true")
	}

	if logger.Pretty() {
		t.Error("Pretty() = true, want false")
	}
}
