package log

import (
	"os"
	"strconv"
	"strings"
)

// ParseEnv parses the value of a logging environment variable such as
// PULUA_LOG into options.
//
// The value is either a bare level or format name ("debug", "json") or a
// comma-separated list of key=value pairs with keys level, format, time,
// caller and pretty:
//
//	PULUA_LOG=trace
//	PULUA_LOG=level=debug,format=json,pretty=false
//
// Malformed fields are ignored.
func ParseEnv(s string) []Option {
	var opts []Option

	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		key, value, ok := strings.Cut(field, "=")
		if !ok {
			key, value = "level", field
			if _, isFormat := lookupFormat(field); isFormat {
				key = "format"
			}
		}

		if opt := envOption(strings.ToLower(strings.TrimSpace(key)), value); opt != nil {
			opts = append(opts, opt)
		}
	}

	return opts
}

// FromEnv returns the options parsed from the environment variable name.
func FromEnv(name string) []Option {
	return ParseEnv(os.Getenv(name))
}

func envOption(key, value string) Option {
	switch key {
	case "level":
		return WithLevel(ParseLevel(value))

	case "format":
		if f, ok := lookupFormat(value); ok {
			return WithFormat(f)
		}

	case "time":
		return WithTimeLayout(value)

	case "caller":
		if b, err := strconv.ParseBool(value); err == nil {
			return WithCaller(b)
		}

	case "pretty":
		if b, err := strconv.ParseBool(value); err == nil {
			return WithPretty(b)
		}
	}

	return nil
}
