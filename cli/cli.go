package cli

import (
	"context"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/cli/cmd"
	"github.com/ardnew/pulua/cli/cmd/repl"
	"github.com/ardnew/pulua/pkg"
)

// configFile is the base name of the configuration script. A JSON file of
// the same name with a ".json" suffix is read as well.
const configFile = "config.lua"

// CLI is the top-level command-line interface for pulua.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Pprof   pprofConfig   `embed:"" group:"pprof"   prefix:"pprof-"`
	Runtime runtimeConfig `embed:"" group:"runtime"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run chunks and script files"`
	Repl    repl.Repl   `cmd:""                    help:"Start an interactive prompt"`
	Tokens  cmd.Tokens  `cmd:""                    help:"Print the tokens of a script"`
	AST     cmd.AST     `cmd:""                    help:"Print the syntax tree of a script" name:"ast"`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format a script"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                    help:"Print version information"`
}

// Run executes the pulua CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), configFile)

	// The environment sets the logger before flag defaults are taken from it,
	// so that explicit flags still take precedence.
	cli.Log.env()

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Runtime.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{
				cli.Log.group(),
				cli.Pprof.group(),
				cli.Runtime.group(),
			},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	rt, err := cli.Runtime.runtime(ctx)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithRuntime(ctx, rt)

	return ktx.Run(ctx, &cli)
}
