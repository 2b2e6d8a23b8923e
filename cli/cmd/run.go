package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/pulua/log"
)

// commandLineChunk names chunks given with --execute in error messages.
const commandLineChunk = "(command line)"

// Run executes chunks and script files, in order, in one interpreter state.
type Run struct {
	Execute []string `help:"Run CHUNK before any files (repeatable)."                  placeholder:"CHUNK" sep:"none" short:"e"`
	Result  string   `default:"none" enum:"none,native,json,yaml" help:"Print the value returned by each chunk."`

	Files []string `arg:"" help:"Script file(s) to run, or '-' for stdin." name:"file" optional:""`
}

// Run executes the run command. With neither files nor chunks, the script
// is read from stdin. The first failing chunk stops the run.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdout(ctx)
	s := RuntimeFrom(ctx).NewState(out)

	files := r.Files
	if len(files) == 0 && len(r.Execute) == 0 {
		files = []string{stdinSource}
	}

	for _, chunk := range r.Execute {
		v, err := s.DoChunk(ctx, commandLineChunk, chunk)
		if err != nil {
			return err
		}

		if err := writeResult(ctx, out, r.Result, v); err != nil {
			return err
		}
	}

	for _, src := range resolveSources(files, s.SearchPath()) {
		text, err := readSource(ctx, src)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "run",
			slog.String("name", src.name),
			slog.String("path", src.path),
			slog.Int("bytes", len(text)),
		)

		v, err := s.DoChunk(ctx, src.name, text)
		if err != nil {
			return err
		}

		if err := writeResult(ctx, out, r.Result, v); err != nil {
			return err
		}
	}

	return nil
}
