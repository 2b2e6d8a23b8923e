package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/log"
)

// Fmt parses a script and prints it as canonical source.
type Fmt struct {
	Write bool `help:"Write the result to the source file instead of stdout." short:"w"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	block, src, err := parseSource(ctx, f.Source)
	if err != nil {
		return err
	}

	if !f.Write || src.path == stdinSource {
		return ast.Format(stdout(ctx), block)
	}

	info, err := os.Stat(src.path)
	if err != nil {
		return ErrWriteSource.With(slog.String("file", src.path)).Wrap(err)
	}

	err = os.WriteFile(src.path, []byte(ast.FormatString(block)), info.Mode().Perm())
	if err != nil {
		return ErrWriteSource.With(slog.String("file", src.path)).Wrap(err)
	}

	log.DebugContext(ctx, "formatted source", slog.String("path", src.path))

	return nil
}

// AST parses a script and prints its syntax tree.
type AST struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format."                     short:"o"`
	Indent int    `default:"2"                          help:"Indent width for JSON and YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	block, _, err := parseSource(ctx, a.Source)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	switch a.Format {
	case "json":
		if err := ast.FormatJSON(ctx, w, block, a.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case "yaml":
		if err := ast.FormatYAML(ctx, w, block, a.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil

	default:
		return ast.Fprint(w, block)
	}
}

// parseSource reads and parses the named source with the configured
// precedence. Program output is discarded; nothing is executed.
func parseSource(ctx context.Context, name string) (*ast.Block, source, error) {
	s := RuntimeFrom(ctx).NewState(io.Discard)
	src := resolveSources([]string{name}, s.SearchPath())[0]

	block, err := load(ctx, s, src)
	if err != nil {
		return nil, src, err
	}

	return block, src, nil
}
