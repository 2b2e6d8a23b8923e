package prelude

import (
	"context"
	"fmt"

	"github.com/ardnew/pulua/lang"
)

// OpenDemo installs the demonstration functions.
func OpenDemo(s *lang.State) {
	register(s, map[string]lang.NativeFunc{
		"fib":         fib,
		"setarray":    setArray,
		"updatearray": updateArray,
		"printarray":  printArray,
	})
}

// fib computes the 1-indexed Fibonacci number, fib(1) = fib(2) = 1, by
// calling the global fib recursively.
func fib(ctx context.Context, s *lang.State) (int, error) {
	n, err := s.ArgInt(1)
	if err != nil {
		return 0, err
	}

	if n < 3 {
		return s.Returns(lang.Number(1))
	}

	var sum int64

	for _, k := range []int64{n - 2, n - 1} {
		v, err := s.GlobalCall1(ctx, "fib", lang.Number(k))
		if err != nil {
			return 0, err
		}

		if r, ok := v.AsNumber(); ok {
			sum += r
		}
	}

	return s.Returns(lang.Number(sum))
}

const arrayName = "myarray"

func demoArray(s *lang.State) (*lang.Table, error) {
	v, ok := s.Global(arrayName)
	if !ok {
		return nil, lang.ErrVariableNotFound.Of(arrayName)
	}

	t, ok := v.AsTable()
	if !ok {
		return nil, lang.ErrIndexNonTable.Of(arrayName)
	}

	return t, nil
}

func setArray(_ context.Context, s *lang.State) (int, error) {
	s.SetGlobal(arrayName, lang.TableValue(lang.NewArray(
		lang.Number(1), lang.Number(2), lang.Number(3),
	)))

	return 0, nil
}

func updateArray(_ context.Context, s *lang.State) (int, error) {
	t, err := demoArray(s)
	if err != nil {
		return 0, err
	}

	for _, n := range []int64{4, 5, 6} {
		if err := t.Append(lang.Number(n)); err != nil {
			return 0, err
		}
	}

	return 0, nil
}

func printArray(_ context.Context, s *lang.State) (int, error) {
	t, err := demoArray(s)
	if err != nil {
		return 0, err
	}

	for i := 1; i <= t.Len(); i++ {
		if _, err := fmt.Fprintf(s.Output(), "elm: %v\n", t.Get(lang.Number(int64(i)))); err != nil {
			return 0, err
		}
	}

	return 0, nil
}
