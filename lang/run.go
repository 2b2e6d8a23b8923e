package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/pkg"
)

// Load scans and parses source as the chunk name. Failures are returned as a
// *SourceError carrying the source text for diagnostics.
func (s *State) Load(ctx context.Context, name, source string) (*ast.Block, error) {
	block, err := parseCached(ctx, source, s.prec, s.logger)
	if err != nil {
		return nil, &SourceError{Err: err, Name: name, Source: source}
	}

	return block, nil
}

// Exec runs a parsed chunk in a fresh chunk frame and returns the value of
// its return statement, or nil if it falls off the end. Locals declared at
// the top level of the chunk are dropped when it finishes.
func (s *State) Exec(ctx context.Context, block *ast.Block) (Value, error) {
	top := s.Top()

	if _, err := s.pushFrame("main chunk", 0); err != nil {
		return Nil(), err
	}

	defer func() {
		s.popFrame()
		s.settop(top)
	}()

	_, v, err := s.execBlock(ctx, block)
	if err != nil {
		return Nil(), err
	}

	return v, nil
}

// DoChunk loads and runs source as the chunk name.
func (s *State) DoChunk(ctx context.Context, name, source string) (Value, error) {
	block, err := s.Load(ctx, name, source)
	if err != nil {
		return Nil(), err
	}

	s.logger.DebugContext(ctx, "exec", slog.String("chunk", name))

	v, err := s.Exec(ctx, block)
	if err != nil {
		return Nil(), &SourceError{Err: err, Name: name, Source: source}
	}

	return v, nil
}

// DoString loads and runs source as an unnamed chunk.
func (s *State) DoString(ctx context.Context, source string) (Value, error) {
	return s.DoChunk(ctx, "", source)
}

// DoReader reads all of r and runs it as the chunk name.
func (s *State) DoReader(ctx context.Context, name string, r io.Reader) (Value, error) {
	data, err := ReadSource(r)
	if err != nil {
		return Nil(), &SourceError{Err: err, Name: name}
	}

	return s.DoChunk(ctx, name, string(data))
}

// DoFile runs the script at path. A relative path not found in the working
// directory is looked up in the State's search path.
func (s *State) DoFile(ctx context.Context, path string) (Value, error) {
	resolved := pkg.Resolve(path, s.searchPath)

	f, err := os.Open(resolved)
	if err != nil {
		return Nil(), &SourceError{Err: ErrReadInput.Wrap(err), Name: path}
	}
	defer f.Close()

	return s.DoReader(ctx, resolved, f)
}
