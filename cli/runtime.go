package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/cli/cmd"
	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/parser"
	"github.com/ardnew/pulua/log"
	"github.com/ardnew/pulua/pkg"
)

type runtimeConfig struct {
	RegistrySize int      `default:"${registrySize}"                 help:"Number of registry slots available to scripts."`
	MaxDepth     int      `default:"${maxDepth}"                     help:"Maximum function call depth."`
	Precedence   string   `default:"standard" enum:"standard,flat"   help:"Binary operator precedence."`
	Path         []string `                                          help:"Directory searched for scripts (repeatable, ahead of ${pathEnv})." placeholder:"DIR" type:"path"`
	Define       []string `                                          help:"Bind global NAME to the value of expression EXPR."                 placeholder:"NAME=EXPR" sep:"none" short:"D"`
}

func (*runtimeConfig) vars() kong.Vars {
	return kong.Vars{
		"registrySize": strconv.Itoa(lang.DefaultRegistrySize),
		"maxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
		"pathEnv":      pkg.PathEnv,
	}
}

func (*runtimeConfig) group() kong.Group {
	var group kong.Group

	group.Key = "runtime"
	group.Title = "Interpreter options"

	return group
}

// runtime evaluates the definitions and returns the interpreter
// configuration shared by every command.
func (f *runtimeConfig) runtime(ctx context.Context) (cmd.Runtime, error) {
	globals, err := define(f.Define)
	if err != nil {
		return cmd.Runtime{}, err
	}

	searchPath := pkg.SearchPath(f.Path...)

	log.DebugContext(ctx, "runtime configured",
		slog.Int("registry", f.RegistrySize),
		slog.Int("depth", f.MaxDepth),
		slog.String("precedence", f.Precedence),
		slog.Any("path", searchPath),
		slog.Int("globals", len(globals)),
	)

	return cmd.Runtime{
		Options: []lang.Option{
			lang.WithLogger(log.Default()),
			lang.WithRegistrySize(f.RegistrySize),
			lang.WithMaxDepth(f.MaxDepth),
			lang.WithPrecedence(parser.ParsePrecedence(f.Precedence)),
			lang.WithSearchPath(searchPath...),
		},
		Globals: globals,
	}, nil
}
