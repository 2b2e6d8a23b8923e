package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds  = errors.New("index out of range")
	ErrEditDeclined = errors.New("decline edit")

	// errNotExpr reports input that does not parse as an expression.
	errNotExpr = errors.New("not an expression")
)
