package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/pkg"
	"github.com/ardnew/pulua/prelude"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer for command output: the kong application's
// Stdout when one is available, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type stdinKey struct{}

// WithStdin returns a new context.Context whose commands read "-" sources
// from r instead of os.Stdin.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdin(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// Global is a value bound in every new State before any script runs.
type Global struct {
	Name  string
	Value lang.Value
}

// Runtime describes how commands construct interpreter states.
type Runtime struct {
	Options []lang.Option
	Globals []Global
}

type runtimeKey struct{}

// WithRuntime returns a new context.Context containing rt.
func WithRuntime(ctx context.Context, rt Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// RuntimeFrom returns the Runtime stored by [WithRuntime], or the zero
// Runtime which builds states with default limits.
func RuntimeFrom(ctx context.Context) Runtime {
	rt, _ := ctx.Value(runtimeKey{}).(Runtime)

	return rt
}

// NewState returns a State configured by rt, writing program output to out,
// with the prelude opened and the globals bound.
func (rt Runtime) NewState(out io.Writer, opts ...lang.Option) *lang.State {
	all := make([]lang.Option, 0, len(rt.Options)+len(opts)+1)
	all = append(all, rt.Options...)
	all = append(all, lang.WithOutput(out))
	all = append(all, opts...)

	s := lang.NewState(all...)

	prelude.Open(s)

	for _, g := range rt.Globals {
		s.SetGlobal(g.Name, g.Value)
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one chunk of input named on the command line.
type source struct {
	name string // chunk name used in error messages
	path string // resolved file path, or stdinSource
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// resolveSources resolves names against the search path and drops
// duplicates, keeping the first occurrence of each file. All occurrences of
// "-" refer to a single stdin source. Names that cannot be resolved are kept
// so that opening them reports the error.
func resolveSources(names, searchPath []string) []source {
	srcs := make([]source, 0, len(names))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, name := range names {
		if name == stdinSource {
			if !hasStdin {
				hasStdin = true

				srcs = append(srcs, source{name: "stdin", path: stdinSource})
			}

			continue
		}

		path := pkg.Resolve(name, searchPath)

		if key, ok := uniqueKey(path); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		srcs = append(srcs, source{name: name, path: path})
	}

	return srcs
}

// uniqueKey resolves symlinks in path and returns its device/inode pair.
func uniqueKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// readSource reads the text of one source. Failures are reported as input
// errors naming the source.
func readSource(ctx context.Context, src source) (string, error) {
	var r io.Reader

	if src.path == stdinSource {
		r = stdin(ctx)
	} else {
		f, err := os.Open(src.path)
		if err != nil {
			return "", &lang.SourceError{Err: lang.ErrReadInput.Wrap(err), Name: src.name}
		}
		defer f.Close()

		r = f
	}

	data, err := lang.ReadSource(r)
	if err != nil {
		return "", &lang.SourceError{Err: err, Name: src.name}
	}

	return string(data), nil
}

// load reads and parses one source with the State's parse options.
func load(ctx context.Context, s *lang.State, src source) (*ast.Block, error) {
	text, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}

	return s.Load(ctx, src.name, text)
}
