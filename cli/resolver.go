package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/log"
	"github.com/ardnew/pulua/pkg"
)

// Limits of the sandbox that configuration scripts run in.
const (
	configTimeout  = time.Second
	configMaxDepth = 64
	configRegistry = 1024
)

// resolve returns a [kong.ConfigurationLoader] that evaluates config files
// written in pulua.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.lua")
//
// The script runs in a fresh State with no built-in functions, a small call
// depth and a short deadline. The globals it leaves behind become flag
// values:
//   - Flag names with hyphens (e.g., "log-level") use underscores in the
//     config file (e.g., "log_level")
//   - Strings, numbers and booleans map to scalar flags
//   - Sequence tables map to repeatable flags such as path and define
//   - Functions, and tables that are not sequences, are ignored
//
// Example config file:
//
//	log_level = "debug"
//	log_pretty = false
//	max_depth = 256
//	path = { "/usr/share/pulua", "lib" }
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--no-log-pretty
//	--max-depth=256
//	--path=/usr/share/pulua --path=lib
//
// Command-line flags override config file values. A script that fails to
// evaluate is reported as a warning and contributes no values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		cfg, err := evalConfig(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration",
				slog.String("error", lang.Describe(err)))

			return config{}, nil
		}

		return cfg, nil
	}
}

// evalConfig runs the configuration script read from r and collects its
// globals.
func evalConfig(ctx context.Context, r io.Reader) (config, error) {
	ctx, cancel := context.WithTimeout(ctx, configTimeout)
	defer cancel()

	s := lang.NewState(
		lang.WithMaxDepth(configMaxDepth),
		lang.WithRegistrySize(configRegistry),
	)

	if _, err := s.DoReader(ctx, configFile, r); err != nil {
		return nil, pkg.ErrConfig.Wrap(err)
	}

	cfg := make(config)

	for name, value := range s.Globals() {
		if v, ok := flagValue(value); ok {
			cfg[name] = v
		}
	}

	return cfg, nil
}

// flagValue converts a global to the representation kong decodes flags
// from. Kong requires numbers as strings for parsing.
func flagValue(v lang.Value) (any, bool) {
	switch v.Type() {
	case lang.TypeString, lang.TypeNumber:
		return v.String(), true

	case lang.TypeBool:
		b, _ := v.AsBool()

		return b, true

	case lang.TypeTable:
		t, _ := v.AsTable()

		list := make([]any, 0, t.Len())

		for k, e := range t.All() {
			n, ok := k.AsNumber()
			if !ok || n != int64(len(list)+1) {
				return nil, false
			}

			elem, ok := flagValue(e)
			if !ok {
				return nil, false
			}

			if _, nested := elem.([]any); nested {
				return nil, false
			}

			list = append(list, elem)
		}

		return list, true
	}

	return nil, false
}

// config implements [kong.Resolver] for pulua config scripts.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - kong validates each value as it is decoded
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but pulua identifiers
	// use underscores. Try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[configName(flag.Name)]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// configName converts a flag name to the global that configures it.
func configName(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}
