package lang

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

//go:generate go tool stringer --type Type --linecomment --output type_string.go

// Type identifies the variant held by a Value.
type Type uint8

// Value types.
const (
	TypeNil      Type = iota // nil
	TypeBool                 // boolean
	TypeNumber               // number
	TypeString               // string
	TypeTable                // table
	TypeFunction             // function
)

// Value is a runtime value. The zero Value is nil.
//
// Values are comparable with ==, which gives raw equality: numbers, strings
// and booleans compare by value, tables and functions by identity.
type Value struct {
	t   *Table
	f   *Function
	s   string
	n   int64
	typ Type
}

// Nil returns the nil value.
func Nil() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	var n int64
	if b {
		n = 1
	}

	return Value{typ: TypeBool, n: n}
}

// Number returns a number value.
func Number(n int64) Value { return Value{typ: TypeNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{typ: TypeString, s: s} }

// TableValue returns a value referencing t. A nil t yields the nil value.
func TableValue(t *Table) Value {
	if t == nil {
		return Value{}
	}

	return Value{typ: TypeTable, t: t}
}

// FunctionValue returns a value referencing f. A nil f yields the nil value.
func FunctionValue(f *Function) Value {
	if f == nil {
		return Value{}
	}

	return Value{typ: TypeFunction, f: f}
}

// Type returns the variant held by v.
func (v Value) Type() Type { return v.typ }

// IsNil reports whether v is nil.
func (v Value) IsNil() bool { return v.typ == TypeNil }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.n != 0, v.typ == TypeBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (int64, bool) { return v.n, v.typ == TypeNumber }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.typ == TypeString }

// AsTable returns the table referenced by v.
func (v Value) AsTable() (*Table, bool) { return v.t, v.typ == TypeTable }

// AsFunction returns the function referenced by v.
func (v Value) AsFunction() (*Function, bool) {
	return v.f, v.typ == TypeFunction
}

// Truthy reports whether v counts as true in a condition: everything except
// nil and false.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeNil:
		return false
	case TypeBool:
		return v.n != 0
	default:
		return true
	}
}

// String renders v the way print and tostring do.
func (v Value) String() string {
	switch v.typ {
	case TypeBool:
		return strconv.FormatBool(v.n != 0)
	case TypeNumber:
		return strconv.FormatInt(v.n, 10)
	case TypeString:
		return v.s
	case TypeTable:
		return "table: " + strconv.FormatUint(v.t.ID(), 16)
	case TypeFunction:
		return "function: " + v.f.Name
	default:
		return "nil"
	}
}

// GoString renders v for debugging, with strings quoted.
func (v Value) GoString() string {
	if v.typ == TypeString {
		return strconv.Quote(v.s)
	}

	return v.String()
}

// ValueOf converts a Go value to a Value.
//
// Integers, booleans, strings and nil map directly. Floats are truncated
// toward zero. Slices and arrays become sequence tables, maps with string
// keys become record tables. A Value or *Table is returned as is.
func ValueOf(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Nil(), nil
	case Value:
		return x, nil
	case *Table:
		return TableValue(x), nil
	case *Function:
		return FunctionValue(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Number(int64(x)), nil
	case int64:
		return Number(x), nil
	case float64:
		return numberOfFloat(x)
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Nil(), ErrTypeMismatch.Of(fmt.Sprintf("%d overflows number", u))
		}

		return Number(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return numberOfFloat(rv.Float())
	case reflect.Slice, reflect.Array:
		t := NewTable()

		for i := range rv.Len() {
			v, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Nil(), err
			}

			if err := t.Append(v); err != nil {
				return Nil(), err
			}
		}

		return TableValue(t), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Nil(), ErrTypeMismatch.Of("map key type " + rv.Type().Key().String())
		}

		t := NewTable()

		iter := rv.MapRange()
		for iter.Next() {
			v, err := ValueOf(iter.Value().Interface())
			if err != nil {
				return Nil(), err
			}

			if err := t.Set(String(iter.Key().String()), v); err != nil {
				return Nil(), err
			}
		}

		return TableValue(t), nil
	}

	return Nil(), ErrTypeMismatch.Of(fmt.Sprintf("cannot convert %T", x))
}

func numberOfFloat(f float64) (Value, error) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return Nil(), ErrTypeMismatch.Of(
			"number " + strconv.FormatFloat(f, 'g', -1, 64) + " out of range")
	}

	return Number(int64(f)), nil
}

// ToNative converts v to a plain Go value suitable for encoding.
//
// Tables holding only a sequence become []any, other tables become
// map[string]any with keys rendered by Value.String. A table that
// (transitively) contains itself renders the repeated reference as its
// String form. Functions render as their String form.
func (v Value) ToNative() any {
	return toNative(v, map[*Table]bool{})
}

func toNative(v Value, seen map[*Table]bool) any {
	switch v.typ {
	case TypeNil:
		return nil
	case TypeBool:
		return v.n != 0
	case TypeNumber:
		return v.n
	case TypeString:
		return v.s
	case TypeFunction:
		return v.String()
	}

	t := v.t
	if seen[t] {
		return v.String()
	}

	seen[t] = true
	defer delete(seen, t)

	if t.hashLen() == 0 {
		seq := make([]any, 0, len(t.array))
		for _, e := range t.array {
			seq = append(seq, toNative(e, seen))
		}

		return seq
	}

	m := make(map[string]any, t.Len()+t.hashLen())
	for k, e := range t.All() {
		m[k.String()] = toNative(e, seen)
	}

	return m
}
