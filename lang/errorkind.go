package lang

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ardnew/pulua/lang/lexer"
	"github.com/ardnew/pulua/lang/parser"
)

//go:generate go tool stringer --type ErrorKind --linecomment --output errorkind_string.go

// ErrorKind classifies a failure reported by the interpreter.
type ErrorKind uint8

// Error kinds.
const (
	KindRuntime ErrorKind = iota // runtime
	KindLexical                  // lexical
	KindSyntax                   // syntax
	KindInput                    // input
)

// Classify reports which stage of the interpreter produced err.
func Classify(err error) ErrorKind {
	var (
		scanErr   *lexer.ScanError
		syntaxErr *parser.SyntaxError
	)

	switch {
	case errors.As(err, &scanErr):
		return KindLexical
	case errors.As(err, &syntaxErr):
		return KindSyntax
	case errors.Is(err, ErrReadInput):
		return KindInput
	default:
		return KindRuntime
	}
}

// SourceError attaches the chunk name and source text to an error raised while
// loading or running that chunk.
type SourceError struct {
	Err    error
	Name   string
	Source string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}

	return e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error { return e.Err }

// Describe renders err for a user, as "<kind> error: <message>".
//
// Lexical and syntax errors wrapped in a SourceError are followed by the
// offending source line and a caret under the failing column. Runtime errors
// carry the chunk name and line they were raised at, when known.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	kind := Classify(err)

	var (
		srcErr *SourceError
		name   string
		source string
	)

	// The innermost chunk names the position of the failure.
	for errors.As(err, &srcErr) {
		name, source = srcErr.Name, srcErr.Source
		err = srcErr.Err
	}

	var b strings.Builder

	b.WriteString(kind.String())
	b.WriteString(" error: ")

	if name != "" {
		b.WriteString(name)
		b.WriteByte(':')

		if kind == KindRuntime {
			if line := lineOf(err); line > 0 {
				b.WriteString(strconv.Itoa(line))
				b.WriteByte(':')
			}
		}

		b.WriteByte(' ')
	} else if kind == KindRuntime {
		if line := lineOf(err); line > 0 {
			b.WriteString("line ")
			b.WriteString(strconv.Itoa(line))
			b.WriteString(": ")
		}
	}

	b.WriteString(err.Error())

	if line, col := positionOf(err); source != "" && line > 0 {
		b.WriteByte('\n')
		b.WriteString(snippet(source, line, col))
	}

	return b.String()
}

func lineOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Line()
	}

	return 0
}

func positionOf(err error) (int, int) {
	var (
		scanErr   *lexer.ScanError
		syntaxErr *parser.SyntaxError
	)

	switch {
	case errors.As(err, &scanErr):
		return scanErr.Line, scanErr.Column
	case errors.As(err, &syntaxErr):
		return syntaxErr.Token.Line, syntaxErr.Token.Column
	}

	return 0, 0
}

// snippet renders line of source with a caret under column col.
func snippet(source string, line, col int) string {
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	var b strings.Builder

	num := strconv.Itoa(line)

	b.WriteString("  " + num + " | " + strings.TrimRight(lines[line-1], "\r") + "\n")

	// 2 leading spaces plus " | "
	b.WriteString(strings.Repeat(" ", len(num)+5))

	if col > 1 {
		b.WriteString(strings.Repeat(" ", col-1))
	}

	b.WriteByte('^')

	return b.String()
}
