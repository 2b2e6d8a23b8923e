package log

import (
	"testing"
	"time"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		level  Level
		format Format
		caller bool
		pretty bool
	}{
		{"empty", "", DefaultLevel, DefaultFormat, false, true},
		{"bare level", "debug", LevelDebug, DefaultFormat, false, true},
		{"bare trace", "trace", LevelTrace, DefaultFormat, false, true},
		{"bare format", "json", DefaultLevel, FormatJSON, false, true},
		{
			"pairs",
			"level=warn, format=json, caller=true, pretty=false",
			LevelWarn, FormatJSON, true, false,
		},
		{"malformed ignored", "caller=maybe,format=xml", DefaultLevel, DefaultFormat, false, true},
		{"mixed", "error,pretty=0", LevelError, DefaultFormat, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := makeConfig(nil, ParseEnv(tt.value)...)

			if c.level != tt.level {
				t.Errorf("level = %v, want %v", c.level, tt.level)
			}
			if c.format != tt.format {
				t.Errorf("format = %v, want %v", c.format, tt.format)
			}
			if c.caller != tt.caller {
				t.Errorf("caller = %v, want %v", c.caller, tt.caller)
			}
			if c.pretty != tt.pretty {
				t.Errorf("pretty = %v, want %v", c.pretty, tt.pretty)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PULUA_TEST_LOG", "level=debug,time=none")

	c := makeConfig(nil, FromEnv("PULUA_TEST_LOG")...)
	if c.level != LevelDebug {
		t.Errorf("level = %v, want debug", c.level)
	}
	if got := c.formatTime(time.Now()); got != "" {
		t.Errorf("expected timestamps disabled, got %q", got)
	}
}
