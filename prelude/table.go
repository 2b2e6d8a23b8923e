package prelude

import (
	"context"
	"strings"

	"github.com/ardnew/pulua/lang"
)

// OpenTable installs the table library.
func OpenTable(s *lang.State) {
	library(s, "table", map[string]lang.NativeFunc{
		"insert": tableInsert,
		"remove": tableRemove,
		"concat": tableConcat,
		"len":    tableLen,
		"update": tableUpdate,
	})
}

// tableInsert is table.insert(t, [pos,] v).
func tableInsert(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	switch s.ArgCount() {
	case 2:
		return 0, t.Append(s.ArgValue(2))
	case 3:
		pos, err := s.ArgInt(2)
		if err != nil {
			return 0, err
		}

		return 0, t.Insert(int(pos), s.ArgValue(3))
	}

	return 0, lang.ErrArgument.Of("wrong number of arguments to 'insert'")
}

// tableRemove is table.remove(t [, pos]). pos defaults to the last element.
func tableRemove(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	pos := int64(t.Len())

	if s.ArgCount() > 1 {
		if pos, err = s.ArgInt(2); err != nil {
			return 0, err
		}
	}

	v, err := t.Remove(int(pos))
	if err != nil {
		return 0, err
	}

	return s.Returns(v)
}

// tableConcat is table.concat(t [, sep]). Every element of the sequence
// must be a string or a number.
func tableConcat(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	var sep string

	if s.ArgCount() > 1 {
		if sep, err = s.ArgString(2); err != nil {
			return 0, err
		}
	}

	var b strings.Builder

	for i := 1; i <= t.Len(); i++ {
		v := t.Get(lang.Number(int64(i)))

		switch v.Type() {
		case lang.TypeString, lang.TypeNumber:
		default:
			return 0, lang.ErrArgument.Of("invalid value (at index " + itoa(i) + ") in table for 'concat'")
		}

		if i > 1 {
			b.WriteString(sep)
		}

		b.WriteString(v.String())
	}

	return s.Returns(lang.String(b.String()))
}

func tableLen(_ context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	return s.Returns(lang.Number(int64(t.Len())))
}

// tableUpdate is table.update(t, k, f). It stores f(t[k]) at k while holding
// the table's write borrow, so f must not modify t.
func tableUpdate(ctx context.Context, s *lang.State) (int, error) {
	t, err := s.ArgTable(1)
	if err != nil {
		return 0, err
	}

	fn, err := s.ArgFunction(3)
	if err != nil {
		return 0, err
	}

	key := s.ArgValue(2)

	err = t.Update(key, func(old lang.Value) (lang.Value, error) {
		return s.Call1(ctx, fn, old)
	})
	if err != nil {
		return 0, err
	}

	return s.Returns(t.Get(key))
}
