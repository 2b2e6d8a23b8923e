package lang

import (
	"errors"
	"reflect"
	"testing"
)

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Nil(), false},
		{Bool(false), false},
		{Bool(true), true},
		{Number(0), true},
		{String(""), true},
		{TableValue(NewTable()), true},
		{FunctionValue(NewNative("f", nil)), true},
	}

	for _, tt := range tests {
		t.Run(tt.v.GoString(), func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(-42), "-42"},
		{String("hi"), "hi"},
		{FunctionValue(NewNative("print", nil)), "function: print"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValue_Equality(t *testing.T) {
	t1, t2 := NewTable(), NewTable()

	if Number(1) != Number(1) {
		t.Error("equal numbers differ")
	}

	if String("a") != String("a") {
		t.Error("equal strings differ")
	}

	if Bool(true) == Number(1) {
		t.Error("boolean equals number")
	}

	if TableValue(t1) == TableValue(t2) {
		t.Error("distinct tables are equal")
	}

	if TableValue(t1) != TableValue(t1) {
		t.Error("table differs from itself")
	}

	if TableValue(nil) != Nil() {
		t.Error("nil table is not nil")
	}
}

func TestValue_Accessors(t *testing.T) {
	if n, ok := Number(7).AsNumber(); !ok || n != 7 {
		t.Errorf("AsNumber() = %d, %v", n, ok)
	}

	if _, ok := String("7").AsNumber(); ok {
		t.Error("string converted to number")
	}

	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Errorf("AsBool() = %v, %v", b, ok)
	}

	if _, ok := Nil().AsTable(); ok {
		t.Error("nil converted to table")
	}

	if got := Number(1).Type().String(); got != "number" {
		t.Errorf("Type() = %q", got)
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"int", 3, int64(3)},
		{"uint8", uint8(200), int64(200)},
		{"float", 2.9, int64(2)},
		{"negative float", -2.9, int64(-2)},
		{"bool", true, true},
		{"string", "x", "x"},
		{"slice", []any{1, "a"}, []any{int64(1), "a"}},
		{"map", map[string]int{"k": 1}, map[string]any{"k": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.in)
			if err != nil {
				t.Fatalf("ValueOf() error = %v", err)
			}

			if got := v.ToNative(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToNative() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValueOf_Unsupported(t *testing.T) {
	_, err := ValueOf(struct{}{})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("ValueOf(struct) error = %v, want %v", err, ErrTypeMismatch)
	}

	_, err = ValueOf(map[int]int{1: 1})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("ValueOf(map[int]int) error = %v, want %v", err, ErrTypeMismatch)
	}
}

func TestValue_ToNative_Cycle(t *testing.T) {
	tbl := NewTable()
	_ = tbl.SetString("self", TableValue(tbl))

	got, ok := TableValue(tbl).ToNative().(map[string]any)
	if !ok {
		t.Fatalf("ToNative() = %T, want map", TableValue(tbl).ToNative())
	}

	if got["self"] != TableValue(tbl).String() {
		t.Errorf("self = %v, want %q", got["self"], TableValue(tbl).String())
	}
}
