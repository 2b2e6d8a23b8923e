package repl

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/pulua/cli/cmd"
	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/log"
)

// stdinChunk names interactively entered chunks in error messages.
const stdinChunk = "stdin"

// session owns the interpreter state behind the prompt. Everything a chunk
// prints is collected in out until the result is shown.
type session struct {
	runtime cmd.Runtime
	state   *lang.State
	logger  log.Logger
	out     *bytes.Buffer
	draft   string // last source accepted from the editor
}

func newSession(rt cmd.Runtime) *session {
	s := &session{runtime: rt, out: new(bytes.Buffer)}
	s.reset()

	return s
}

// reset discards all globals by replacing the interpreter state.
func (s *session) reset() {
	s.out.Reset()
	s.state = s.runtime.NewState(s.out)
	s.logger = s.state.Logger()
}

// eval runs one line of input. The input is first tried as an expression,
// so that "1 + 2" shows its value, and otherwise run as a chunk.
// Returns the value and whatever the chunk printed.
func (s *session) eval(ctx context.Context, input string) (lang.Value, string, error) {
	s.out.Reset()

	v, err := s.evalExpr(ctx, input)
	if errors.Is(err, errNotExpr) {
		v, err = s.state.DoChunk(ctx, stdinChunk, input)
	}

	s.logger.TraceContext(ctx, "repl eval",
		slog.String("input", input),
		slog.String("type", v.Type().String()),
		slog.Bool("failed", err != nil),
	)

	return v, strings.TrimSuffix(s.out.String(), "\n"), err
}

// run executes source as the named chunk without trying it as an expression.
func (s *session) run(ctx context.Context, name, source string) (lang.Value, string, error) {
	s.out.Reset()

	v, err := s.state.DoChunk(ctx, name, source)

	return v, strings.TrimSuffix(s.out.String(), "\n"), err
}

func (s *session) evalExpr(ctx context.Context, input string) (lang.Value, error) {
	block, err := s.state.Load(ctx, stdinChunk, "return "+input)
	if err != nil {
		return lang.Nil(), errNotExpr
	}

	v, err := s.state.Exec(ctx, block)
	if err != nil {
		return lang.Nil(), &lang.SourceError{Err: err, Name: stdinChunk, Source: input}
	}

	return v, nil
}
