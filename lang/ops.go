package lang

import (
	"strings"

	"github.com/ardnew/pulua/lang/token"
)

// binop applies the binary operator op to a and b, dispatching on the
// runtime types of both operands.
func binop(op token.Kind, a, b Value) (Value, error) {
	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.IDiv,
		token.Percent, token.Caret:
		return arith(op, a, b)
	case token.Amp, token.Pipe, token.Tilde, token.ShL, token.ShR:
		return bitwise(op, a, b)
	case token.Concat:
		return concat(a, b)
	case token.Eq, token.NotEq:
		eq, err := equal(a, b)
		if err != nil {
			return Nil(), err
		}

		return Bool(eq == (op == token.Eq)), nil
	case token.Less, token.LessEq, token.Greater, token.GreaterEq:
		return compare(op, a, b)
	case token.And, token.Or:
		return logical(op, a, b)
	}

	return Nil(), ErrNotImplemented.Of("operator " + op.String())
}

// unop applies the unary operator op to a.
func unop(op token.Kind, a Value) (Value, error) {
	switch op {
	case token.Not:
		return Bool(!a.Truthy()), nil
	case token.Minus:
		if n, ok := a.AsNumber(); ok {
			return Number(-n), nil
		}
	case token.Tilde:
		if n, ok := a.AsNumber(); ok {
			return Number(^n), nil
		}
	case token.Hash:
		switch a.Type() {
		case TypeString:
			return Number(int64(len(a.s))), nil
		case TypeTable:
			return Number(int64(a.t.Len())), nil
		}
	default:
		return Nil(), ErrNotImplemented.Of("operator " + op.String())
	}

	return Nil(), unaryTypeError(op.Text(), a)
}

// arith applies an arithmetic operator to Number×Number. Results wrap around
// on overflow.
func arith(op token.Kind, a, b Value) (Value, error) {
	x, okx := a.AsNumber()
	y, oky := b.AsNumber()

	if !okx || !oky {
		return Nil(), typeError(op.Text(), a, b)
	}

	switch op {
	case token.Plus:
		return Number(x + y), nil
	case token.Minus:
		return Number(x - y), nil
	case token.Star:
		return Number(x * y), nil
	case token.Slash:
		if y == 0 {
			return Nil(), ErrDivideByZero
		}

		return Number(x / y), nil
	case token.IDiv:
		if y == 0 {
			return Nil(), ErrDivideByZero
		}

		return Number(floorDiv(x, y)), nil
	case token.Percent:
		if y == 0 {
			return Nil(), ErrDivideByZero
		}

		return Number(floorMod(x, y)), nil
	default: // token.Caret
		if y < 0 {
			return Nil(), ErrNegativeExponent
		}

		return Number(ipow(x, y)), nil
	}
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}

	return q
}

func floorMod(x, y int64) int64 {
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}

	return r
}

func ipow(x, y int64) int64 {
	r := int64(1)

	for y > 0 {
		if y&1 == 1 {
			r *= x
		}

		x *= x
		y >>= 1
	}

	return r
}

// bitwise applies a bitwise operator to Number×Number. Shifts are logical and
// a negative shift count shifts the other way.
func bitwise(op token.Kind, a, b Value) (Value, error) {
	x, okx := a.AsNumber()
	y, oky := b.AsNumber()

	if !okx || !oky {
		return Nil(), typeError(op.Text(), a, b)
	}

	switch op {
	case token.Amp:
		return Number(x & y), nil
	case token.Pipe:
		return Number(x | y), nil
	case token.Tilde:
		return Number(x ^ y), nil
	case token.ShL:
		return Number(shiftLeft(x, y)), nil
	default: // token.ShR
		return Number(shiftLeft(x, -y)), nil
	}
}

func shiftLeft(x, n int64) int64 {
	switch {
	case n <= -64 || n >= 64:
		return 0
	case n >= 0:
		return int64(uint64(x) << uint(n))
	default:
		return int64(uint64(x) >> uint(-n))
	}
}

// concat joins two strings. A Number operand contributes its decimal text.
func concat(a, b Value) (Value, error) {
	if !concatenable(a) || !concatenable(b) {
		return Nil(), typeError(token.Concat.Text(), a, b)
	}

	var sb strings.Builder

	sb.WriteString(a.String())
	sb.WriteString(b.String())

	return String(sb.String()), nil
}

func concatenable(v Value) bool {
	return v.Type() == TypeString || v.Type() == TypeNumber
}

// equal reports whether a and b are equal. Values of the same type compare
// by value, or by identity for tables and functions. Any value may be
// compared with nil. Other mixed-type comparisons are errors.
func equal(a, b Value) (bool, error) {
	if a.Type() != b.Type() && !a.IsNil() && !b.IsNil() {
		return false, typeError(token.Eq.Text(), a, b)
	}

	return a == b, nil
}

// compare applies an ordering operator to Number×Number or String×String.
func compare(op token.Kind, a, b Value) (Value, error) {
	var c int

	switch {
	case a.Type() == TypeNumber && b.Type() == TypeNumber:
		switch {
		case a.n < b.n:
			c = -1
		case a.n > b.n:
			c = 1
		}
	case a.Type() == TypeString && b.Type() == TypeString:
		c = strings.Compare(a.s, b.s)
	default:
		return Nil(), typeError(op.Text(), a, b)
	}

	switch op {
	case token.Less:
		return Bool(c < 0), nil
	case token.LessEq:
		return Bool(c <= 0), nil
	case token.Greater:
		return Bool(c > 0), nil
	default: // token.GreaterEq
		return Bool(c >= 0), nil
	}
}

// logical applies and/or to Bool×Bool. Both operands are always evaluated.
func logical(op token.Kind, a, b Value) (Value, error) {
	x, okx := a.AsBool()
	y, oky := b.AsBool()

	if !okx || !oky {
		return Nil(), typeError(op.Text(), a, b)
	}

	if op == token.And {
		return Bool(x && y), nil
	}

	return Bool(x || y), nil
}
