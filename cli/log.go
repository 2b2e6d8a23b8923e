package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/log"
	"github.com/ardnew/pulua/pkg"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"trace,debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"${logFormat}" enum:"json,text"                   help:"Set log format."`
	TimeLayout string    `default:"${logTime}"                                      help:"Set timestamp format."`
	Caller     bool      `default:"${logCaller}"                                    help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"${logPretty}"                                    help:"Enable colorized pretty printing." negatable:""`
}

// vars exposes the current package-level logger settings as flag defaults,
// so that a configuration applied from the environment survives parsing
// unless a flag overrides it.
func (*logConfig) vars() kong.Vars {
	def := log.Default()

	return kong.Vars{
		"logLevel":  def.Level().String(),
		"logFormat": def.Format().String(),
		"logTime":   def.TimeLayout(),
		"logCaller": strconv.FormatBool(def.Caller()),
		"logPretty": strconv.FormatBool(def.Pretty()),
	}
}

// env applies the logging environment variable to the package-level logger.
func (*logConfig) env() {
	log.Config(log.FromEnv(pkg.EnvName("log"))...)
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logger flags found in args before Kong parses them, so
// that messages emitted while parsing already honor them. The value flags
// also configure the logger from UnmarshalText, but the boolean flags and
// --log-time-layout do not, and flag position would otherwise matter.
// Scanning stops at the "--" terminator.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		// Value flags may take their argument from the next word.
		takeValue := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(takeValue()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(takeValue()))

		case "--log-time-layout":
			f.TimeLayout = takeValue()
			log.Config(log.WithTimeLayout(f.TimeLayout))

		case "--log-pretty", "--no-log-pretty":
			if on, ok := scanBool(name, value, assigned); ok {
				f.Pretty = on
				log.Config(log.WithPretty(on))
			}

		case "--log-caller", "--no-log-caller":
			if on, ok := scanBool(name, value, assigned); ok {
				f.Caller = on
				log.Config(log.WithCaller(on))
			}
		}
	}
}

// scanBool reports the state selected by a negatable boolean flag. A bare
// flag means true, or false with the "--no-" prefix. An explicit value that
// does not parse is ignored.
func scanBool(name, value string, assigned bool) (on, ok bool) {
	on = true
	if assigned {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}

		on = v
	}

	if strings.HasPrefix(name, "--no-") {
		on = !on
	}

	return on, true
}
