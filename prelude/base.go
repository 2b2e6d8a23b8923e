package prelude

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/ardnew/pulua/lang"
)

// OpenBase installs the basic functions.
func OpenBase(s *lang.State) {
	register(s, map[string]lang.NativeFunc{
		"print":     printArgs,
		"type":      typeOf,
		"tostring":  tostring,
		"tonumber":  tonumber,
		"assert":    assert,
		"error":     raise,
		"pairs":     pairs,
		"ipairs":    ipairs,
		"next":      nextEntry,
		"globalset": globalset,
		"globalget": globalget,
		"dofile":    dofile,
	})
}

func itoa(n int) string { return strconv.Itoa(n) }

// printArgs writes its arguments separated by tabs and followed by a newline.
func printArgs(_ context.Context, s *lang.State) (int, error) {
	var b strings.Builder

	for i := range s.ArgCount() {
		if i > 0 {
			b.WriteByte('\t')
		}

		b.WriteString(s.ArgValue(i + 1).String())
	}

	b.WriteByte('\n')

	if _, err := io.WriteString(s.Output(), b.String()); err != nil {
		return 0, err
	}

	return 0, nil
}

func typeOf(_ context.Context, s *lang.State) (int, error) {
	if err := expect(s, "type", 1); err != nil {
		return 0, err
	}

	return s.Returns(lang.String(s.ArgValue(1).Type().String()))
}

func tostring(_ context.Context, s *lang.State) (int, error) {
	if err := expect(s, "tostring", 1); err != nil {
		return 0, err
	}

	return s.Returns(lang.String(s.ArgValue(1).String()))
}

// tonumber converts a number or numeric string to a number. Fractions are
// truncated toward zero. Anything else, including a value out of the 64-bit
// range, converts to nil.
func tonumber(_ context.Context, s *lang.State) (int, error) {
	v := s.ArgValue(1)

	switch v.Type() {
	case lang.TypeNumber:
		return s.Returns(v)
	case lang.TypeString:
		text, _ := v.AsString()
		text = strings.TrimSpace(text)

		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return s.Returns(lang.Number(n))
		}

		// Decimal integers beyond 64 bits have no Number.
		if errors.Is(err, strconv.ErrRange) {
			break
		}

		if f, err := strconv.ParseFloat(text, 64); err == nil {
			if n, err := lang.ValueOf(f); err == nil {
				return s.Returns(n)
			}
		}
	}

	return s.Returns(lang.Nil())
}

// assert returns its first argument if it is truthy, and fails otherwise
// with the optional message.
func assert(_ context.Context, s *lang.State) (int, error) {
	if v := s.ArgValue(1); v.Truthy() {
		return s.Returns(v)
	}

	if msg := s.ArgValue(2); !msg.IsNil() {
		return 0, lang.ErrAssertion.Of(msg.String())
	}

	return 0, lang.ErrAssertion
}

func raise(_ context.Context, s *lang.State) (int, error) {
	return 0, lang.ErrUser.Of(s.ArgValue(1).String())
}

// pairs returns its table; iterating a table yields its keys and values.
func pairs(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	return s.Returns(lang.TableValue(t))
}

// ipairs returns a table holding the elements 1, 2, ... of its argument up
// to the first nil.
func ipairs(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	seq := make([]lang.Value, 0, t.Len())
	for i := int64(1); ; i++ {
		v := t.Get(lang.Number(i))
		if v.IsNil() {
			break
		}

		seq = append(seq, v)
	}

	return s.Returns(lang.TableValue(lang.NewArray(seq...)))
}

// nextEntry returns the key following its second argument and the value stored
// there. Callers receiving a single result see only the key.
func nextEntry(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	k, v, err := t.Next(s.ArgValue(2))
	if err != nil {
		return 0, err
	}

	return s.Returns(k, v)
}

func globalset(_ context.Context, s *lang.State) (int, error) {
	name, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	s.SetGlobal(name, s.ArgValue(2))

	return 0, nil
}

func globalget(_ context.Context, s *lang.State) (int, error) {
	name, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	v, _ := s.Global(name)

	return s.Returns(v)
}

// dofile runs a script in the calling State and returns its result.
func dofile(ctx context.Context, s *lang.State) (int, error) {
	path, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	v, err := s.DoFile(ctx, path)
	if err != nil {
		return 0, err
	}

	return s.Returns(v)
}
