package lang

import (
	"context"
	"log/slog"
)

// Call invokes fn with args.
//
// Arguments are pushed so that argument i sits at the new frame's base plus
// i-1. On success the results replace the arguments: Call returns n and the
// registry top is exactly n above its value before the call. Interpreted
// functions always produce one result, nil when they fall off the end.
func (s *State) Call(ctx context.Context, fn Value, args ...Value) (int, error) {
	f, ok := fn.AsFunction()
	if !ok {
		return 0, ErrNotFunction.Of(fn.String())
	}

	if err := ctx.Err(); err != nil {
		return 0, ErrInterrupted.Wrap(err)
	}

	top := s.Top()

	for _, arg := range args {
		if err := s.Push(arg); err != nil {
			s.settop(top)

			return 0, err
		}
	}

	fr, err := s.pushFrame(f.Name, len(args))
	if err != nil {
		s.settop(top)

		return 0, err
	}
	defer s.popFrame()

	s.logger.TraceContext(ctx, "call",
		slog.String("name", f.Name),
		slog.Int("args", len(args)),
		slog.Int("depth", len(s.frames)),
		slog.Bool("native", f.Native != nil),
	)

	var n int

	if f.Native != nil {
		n, err = s.callNative(ctx, f, fr)
	} else {
		n, err = s.callProto(ctx, f.Proto, fr)
	}

	if err != nil {
		s.settop(top)

		return 0, err
	}

	return n, nil
}

func (s *State) callNative(ctx context.Context, f *Function, fr *frame) (int, error) {
	n, err := f.Native(ctx, s)
	if err != nil {
		return 0, err
	}

	top := s.Top()
	if n < 0 || n > top-fr.base {
		return 0, ErrReturnCount.Of(f.Name)
	}

	copy(s.registry[fr.base:], s.registry[top-n:top])
	s.settop(fr.base + n)

	return n, nil
}

func (s *State) callProto(ctx context.Context, p *Proto, fr *frame) (int, error) {
	if p == nil || p.Body == nil {
		return 0, ErrNotFunction.Of(fr.name)
	}

	fr.scopes = append(fr.scopes, scope{mark: fr.base, names: make(map[string]int, len(p.Params))})

	for i, name := range p.Params {
		if i >= fr.nargs {
			if err := s.Push(Nil()); err != nil {
				return 0, err
			}
		}

		fr.scopes[0].names[name] = fr.base + i
	}

	flow, v, err := s.execBlock(ctx, p.Body)
	if err != nil {
		return 0, err
	}

	if flow == flowBreak {
		return 0, ErrBreakOutsideLoop.At(p.Line)
	}

	s.settop(fr.base)

	if err := s.Push(v); err != nil {
		return 0, err
	}

	return fr.nret, nil
}

// Call1 invokes fn with args and returns its first result, or nil if it
// produced none. The registry is left as it was before the call.
func (s *State) Call1(ctx context.Context, fn Value, args ...Value) (Value, error) {
	n, err := s.Call(ctx, fn, args...)
	if err != nil {
		return Nil(), err
	}

	if n == 0 {
		return Nil(), nil
	}

	base := s.Top() - n
	v := s.registry[base]
	s.settop(base)

	return v, nil
}

// GlobalCall1 invokes the function bound to the global name with args and
// returns its first result.
func (s *State) GlobalCall1(ctx context.Context, name string, args ...Value) (Value, error) {
	fn, ok := s.globals[name]
	if !ok {
		return Nil(), ErrFunctionNotFound.Of(name)
	}

	if fn.Type() != TypeFunction {
		return Nil(), ErrNotFunction.Of(name)
	}

	return s.Call1(ctx, fn, args...)
}
