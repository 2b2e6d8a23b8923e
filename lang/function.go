package lang

import (
	"context"

	"github.com/ardnew/pulua/lang/ast"
)

// NativeFunc is a host function callable from scripts.
//
// It reads its arguments through the State argument accessors and pushes its
// results with State.Returns (or State.Push), returning how many values it
// pushed.
type NativeFunc func(ctx context.Context, s *State) (int, error)

// Proto is the immutable parameter list and body of an interpreted function.
type Proto struct {
	Name   string
	Params []string
	Vararg bool
	Body   *ast.Block
	Line   int
}

// Function is either a native host function or an interpreted Proto.
type Function struct {
	Name   string
	Native NativeFunc
	Proto  *Proto
}

// NewNative returns a function value backed by fn.
func NewNative(name string, fn NativeFunc) *Function {
	return &Function{Name: name, Native: fn}
}

// NewProto returns a function value backed by p.
func NewProto(p *Proto) *Function {
	return &Function{Name: p.Name, Proto: p}
}

// Signature renders the function's parameter list, e.g. "add(a, b)".
// Native functions render as "name(...)".
func (f *Function) Signature() string {
	if f.Proto == nil {
		return f.Name + "(...)"
	}

	sig := f.Name + "("

	for i, p := range f.Proto.Params {
		if i > 0 {
			sig += ", "
		}

		sig += p
	}

	if f.Proto.Vararg {
		if len(f.Proto.Params) > 0 {
			sig += ", "
		}

		sig += "..."
	}

	return sig + ")"
}
