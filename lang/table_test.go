package lang

import (
	"errors"
	"testing"
)

func collect(t *Table) ([]Value, []Value) {
	var keys, vals []Value

	for k, v := range t.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}

	return keys, vals
}

func TestTable_GetSet(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Set(String("a"), Number(1)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := tbl.Set(Number(1), String("one")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got := tbl.GetString("a"); got != Number(1) {
		t.Errorf("Get(a) = %v", got)
	}

	if got := tbl.Get(Number(1)); got != String("one") {
		t.Errorf("Get(1) = %v", got)
	}

	if got := tbl.Get(String("missing")); !got.IsNil() {
		t.Errorf("Get(missing) = %v, want nil", got)
	}

	if err := tbl.Set(Nil(), Number(1)); !errors.Is(err, ErrTableIndexNil) {
		t.Errorf("Set(nil) error = %v, want %v", err, ErrTableIndexNil)
	}

	if err := tbl.SetString("a", Nil()); err != nil {
		t.Fatalf("Set(a, nil) error = %v", err)
	}

	if got := tbl.GetString("a"); !got.IsNil() {
		t.Errorf("Get(a) after delete = %v", got)
	}
}

func TestTable_Sequence(t *testing.T) {
	tbl := NewTable()

	// Keys 3 and 2 arrive before 1 and move into the sequence once 1 is set.
	_ = tbl.Set(Number(3), String("c"))
	_ = tbl.Set(Number(2), String("b"))

	if tbl.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tbl.Len())
	}

	_ = tbl.Set(Number(1), String("a"))

	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}

	_ = tbl.Set(Number(3), Nil())

	if tbl.Len() != 2 {
		t.Errorf("Len() after removing tail = %d, want 2", tbl.Len())
	}
}

func TestTable_InsertRemove(t *testing.T) {
	tbl := NewArray(Number(1), Number(3))

	if err := tbl.Insert(2, Number(2)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := tbl.Insert(9, Number(9)); !errors.Is(err, ErrArgument) {
		t.Errorf("Insert(9) error = %v, want %v", err, ErrArgument)
	}

	_, vals := collect(tbl)
	for i, v := range vals {
		if v != Number(int64(i+1)) {
			t.Errorf("element %d = %v", i+1, v)
		}
	}

	v, err := tbl.Remove(1)
	if err != nil || v != Number(1) {
		t.Fatalf("Remove(1) = %v, %v", v, err)
	}

	if tbl.Len() != 2 || tbl.Get(Number(1)) != Number(2) {
		t.Errorf("after Remove: len %d first %v", tbl.Len(), tbl.Get(Number(1)))
	}

	empty := NewTable()
	if v, err := empty.Remove(0); err != nil || !v.IsNil() {
		t.Errorf("Remove on empty = %v, %v", v, err)
	}
}

func TestTable_IterationOrder(t *testing.T) {
	tbl := NewArray(String("x"), String("y"))
	_ = tbl.SetString("b", Number(2))
	_ = tbl.SetString("a", Number(1))

	keys, _ := collect(tbl)
	want := []Value{Number(1), Number(2), String("b"), String("a")}

	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestTable_Next(t *testing.T) {
	tbl := NewArray(String("x"))
	_ = tbl.SetString("k", Bool(true))

	var got []Value

	key := Nil()

	for {
		k, _, err := tbl.Next(key)
		if err != nil {
			t.Fatalf("Next(%v) error = %v", key, err)
		}

		if k.IsNil() {
			break
		}

		// Clearing the current entry during traversal is allowed.
		_ = tbl.Set(k, Nil())

		got = append(got, k)
		key = k
	}

	if len(got) != 2 || got[0] != Number(1) || got[1] != String("k") {
		t.Errorf("keys = %v", got)
	}

	if _, _, err := tbl.Next(String("nope")); !errors.Is(err, ErrArgument) {
		t.Errorf("Next(unknown) error = %v, want %v", err, ErrArgument)
	}
}

func TestTable_BorrowConflict(t *testing.T) {
	tbl := NewTable()

	err := tbl.Update(String("n"), func(old Value) (Value, error) {
		if err := tbl.SetString("other", Number(1)); !errors.Is(err, ErrBorrowConflict) {
			t.Errorf("nested Set error = %v, want %v", err, ErrBorrowConflict)
		}

		return Number(1), nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := tbl.GetString("n"); got != Number(1) {
		t.Errorf("n = %v, want 1", got)
	}

	// The borrow is released afterwards.
	if err := tbl.SetString("other", Number(2)); err != nil {
		t.Errorf("Set after Update error = %v", err)
	}
}

func TestTable_Compact(t *testing.T) {
	tbl := NewTable()

	for i := range 64 {
		_ = tbl.Set(Number(int64(i+2)), Number(int64(i)))
	}

	// Setting key 1 migrates every entry into the sequence part.
	_ = tbl.Set(Number(1), Number(-1))

	if tbl.Len() != 65 {
		t.Fatalf("Len() = %d, want 65", tbl.Len())
	}

	if tbl.hashLen() != 0 || len(tbl.keys) != 0 {
		t.Errorf("hash part holds %d live of %d keys", tbl.hashLen(), len(tbl.keys))
	}
}

func BenchmarkTable_Append(b *testing.B) {
	for b.Loop() {
		tbl := NewTable()
		for i := range 1024 {
			_ = tbl.Append(Number(int64(i)))
		}
	}
}
