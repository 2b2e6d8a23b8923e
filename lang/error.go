package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined runtime errors (sentinel values).
var (
	ErrVariableNotFound  = NewError("variable not found")
	ErrFunctionNotFound  = NewError("function not found")
	ErrNotFunction       = NewError("not a function")
	ErrTypeMismatch      = NewError("type mismatch")
	ErrDivideByZero      = NewError("divide by zero")
	ErrNegativeExponent  = NewError("negative exponent")
	ErrRegistryOverflow  = NewError("registry overflow")
	ErrRegistryUnderflow = NewError("registry underflow")
	ErrArgument          = NewError("bad argument")
	ErrReturnCount       = NewError("return count mismatch")
	ErrCallDepth         = NewError("call depth exceeded")
	ErrBorrowConflict    = NewError("table already borrowed")
	ErrNotImplemented    = NewError("not implemented")
	ErrBreakOutsideLoop  = NewError("break outside loop")
	ErrIndexNonTable     = NewError("attempt to index a non-table value")
	ErrTableIndexNil     = NewError("table index is nil")
	ErrZeroStep          = NewError("'for' step is zero")
	ErrInterrupted       = NewError("execution interrupted")
	ErrAssertion         = NewError("assertion failed")
	ErrUser              = NewError("error")
	ErrReadInput         = NewError("failed to read input")
)

// Error is a runtime error raised during evaluation.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	err     error       // Wrapped error (for errors.Unwrap)
	msg     string      // Sentinel message, compared by Is
	subject string      // Offending entity, e.g. a variable name
	attrs   []slog.Attr // Attributes for structured logging
	line    int         // Source line, if known
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is built from whichever of the sentinel message, subject and
// wrapped error are set, joined by ": ", for example
// "function not found: doesNotExist".
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.subject != "" {
		part = append(part, e.subject)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error derived from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// Line returns the source line the error was raised at, or 0 if unknown.
func (e *Error) Line() int { return e.line }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.subject != "" {
		attrs = append(attrs, slog.String("subject", e.subject))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.line > 0 {
		attrs = append(attrs, slog.Int("line", e.line))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// Of creates a new Error naming the offending subject.
func (e *Error) Of(subject string) *Error {
	c := e.clone()
	c.subject = subject

	return c
}

// At records the source line of the error unless one is already known, so
// that the innermost position wins as the error unwinds.
func (e *Error) At(line int) *Error {
	if e.line > 0 || line <= 0 {
		return e
	}

	c := e.clone()
	c.line = line

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := e.clone()
	c.attrs = newAttrs

	return c
}

// atLine attaches line to err if it is a runtime *Error without a position.
func atLine(err error, line int) error {
	if e, ok := err.(*Error); ok {
		return e.At(line)
	}

	return err
}

// typeError reports an operator applied to operands of unsupported types.
func typeError(op string, a, b Value) *Error {
	return ErrTypeMismatch.Of("attempt to perform '" + op + "' on " +
		a.Type().String() + " and " + b.Type().String())
}

// unaryTypeError reports a unary operator applied to an unsupported type.
func unaryTypeError(op string, a Value) *Error {
	return ErrTypeMismatch.Of("attempt to perform '" + op + "' on " + a.Type().String())
}

// argError reports a bad native function argument, as
// "bad argument: #1 to 'name' (number expected, got nil)".
func argError(pos int, fn string, want string, got Value) *Error {
	return ErrArgument.Of("#" + strconv.Itoa(pos) + " to '" + fn + "' (" +
		want + " expected, got " + got.Type().String() + ")")
}
