// Package lang is the pulua runtime: values and tables, the interpreter
// State and a tree-walking evaluator over the syntax trees built by the
// parser package.
//
// # Values
//
// A [Value] is one of nil, boolean, number (a 64-bit integer), string, table
// or function. Tables are shared by reference; every other variant is copied.
// Numeric literals written with a fraction are truncated toward zero when
// evaluated, and "/" divides integers.
//
// # State
//
// A [State] owns the global table, a fixed-capacity value stack (the
// registry) and a stack of call frames. Host functions are registered with
// [State.Register] and read their arguments through [State.ArgValue],
// [State.ArgInt] and [State.ArgString]. Argument i of a call sits at the
// frame base plus i-1. A host function pushes its results with
// [State.Returns] and reports how many it pushed:
//
//	s := lang.NewState(lang.WithOutput(os.Stdout))
//	s.Register("double", func(ctx context.Context, s *lang.State) (int, error) {
//		n, err := s.ArgInt(1)
//		if err != nil {
//			return 0, err
//		}
//
//		return s.Returns(lang.Number(2 * n))
//	})
//
//	v, err := s.DoString(ctx, "return double(21)")
//
// # Scoping
//
// "local" declares a name in the innermost block of the running function.
// Assignment stores into a visible local, or else into a global. Functions
// capture nothing from the scope they are defined in, so a local function
// cannot call itself by name.
//
// # Errors
//
// Runtime failures are reported as *[Error] values that match their sentinel
// with errors.Is, for example [ErrFunctionNotFound]. [Classify] tells
// lexical, syntax, runtime and input failures apart, and [Describe] renders
// any of them for a user.
package lang
