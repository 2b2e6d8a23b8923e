package lang

import (
	"iter"
	"sync/atomic"
)

var tableIDs atomic.Uint64

// Table is an associative array shared by reference between values.
//
// Positive integer keys from 1 up to the border are kept in a dense array
// part. All other keys live in a hash part that remembers insertion order, so
// iteration is deterministic. Writes take a single-writer borrow on the table;
// a write attempted while another is outstanding fails with
// ErrBorrowConflict instead of corrupting the table.
type Table struct {
	array    []Value // array[i] holds key i+1; never ends in nil
	keys     []Value
	vals     []Value
	index    map[Value]int
	dead     int // removed entries still present in keys
	parent   *Table
	id       uint64
	borrowed bool
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{id: tableIDs.Add(1), index: map[Value]int{}}
}

// NewArray returns a table holding vals at keys 1..len(vals).
func NewArray(vals ...Value) *Table {
	t := NewTable()
	for _, v := range vals {
		_ = t.Append(v)
	}

	return t
}

// ID returns a process-unique identifier for t.
func (t *Table) ID() uint64 { return t.id }

// Parent returns the table linked as t's parent, or nil.
func (t *Table) Parent() *Table { return t.parent }

// SetParent links p as t's parent. The link is not consulted by lookups.
func (t *Table) SetParent(p *Table) { t.parent = p }

// Len returns the border of the sequence part: the largest n such that keys
// 1..n are all non-nil.
func (t *Table) Len() int { return len(t.array) }

func (t *Table) hashLen() int { return len(t.keys) - t.dead }

// arrayIndex returns the 0-based array offset key would occupy, and whether
// key is a positive integer.
func arrayIndex(key Value) (int, bool) {
	n, ok := key.AsNumber()
	if !ok || n < 1 || n > int64(^uint(0)>>1) {
		return 0, false
	}

	return int(n - 1), true
}

// Get returns the value stored at key, or nil.
func (t *Table) Get(key Value) Value {
	if i, ok := arrayIndex(key); ok && i < len(t.array) {
		return t.array[i]
	}

	if i, ok := t.index[key]; ok {
		return t.vals[i]
	}

	return Nil()
}

// GetString returns the value stored at the string key name.
func (t *Table) GetString(name string) Value { return t.Get(String(name)) }

// Set stores v at key. Storing nil removes the key.
func (t *Table) Set(key, v Value) error {
	if err := t.borrow(); err != nil {
		return err
	}
	defer t.release()

	return t.set(key, v)
}

// SetString stores v at the string key name.
func (t *Table) SetString(name string, v Value) error {
	return t.Set(String(name), v)
}

// Update replaces the value at key with the result of fn applied to the
// current value. The table's write borrow is held while fn runs.
func (t *Table) Update(key Value, fn func(Value) (Value, error)) error {
	if key.IsNil() {
		return ErrTableIndexNil
	}

	if err := t.borrow(); err != nil {
		return err
	}
	defer t.release()

	v, err := fn(t.Get(key))
	if err != nil {
		return err
	}

	return t.set(key, v)
}

// Append stores v at key Len()+1. Appending nil does nothing.
func (t *Table) Append(v Value) error {
	return t.Set(Number(int64(len(t.array)+1)), v)
}

// Insert stores v at position pos of the sequence, shifting later elements
// up by one. pos must lie in 1..Len()+1.
func (t *Table) Insert(pos int, v Value) error {
	if pos < 1 || pos > len(t.array)+1 {
		return ErrArgument.Of("position out of bounds")
	}

	if v.IsNil() {
		return ErrArgument.Of("cannot insert nil")
	}

	if err := t.borrow(); err != nil {
		return err
	}
	defer t.release()

	t.array = append(t.array, Nil())
	copy(t.array[pos:], t.array[pos-1:])
	t.array[pos-1] = v
	t.migrate()

	return nil
}

// Remove deletes the element at position pos of the sequence, shifting later
// elements down by one, and returns it. Removing from an empty sequence
// returns nil.
func (t *Table) Remove(pos int) (Value, error) {
	n := len(t.array)
	if n == 0 && (pos == 0 || pos == 1) {
		return Nil(), nil
	}

	if pos < 1 || pos > n {
		return Nil(), ErrArgument.Of("position out of bounds")
	}

	if err := t.borrow(); err != nil {
		return Nil(), err
	}
	defer t.release()

	v := t.array[pos-1]
	copy(t.array[pos-1:], t.array[pos:])
	t.array[n-1] = Nil()
	t.array = t.array[:n-1]
	t.trim()

	return v, nil
}

// Next returns the entry following key in iteration order. A nil key starts
// the iteration. At the end, Next returns nil key and value.
func (t *Table) Next(key Value) (Value, Value, error) {
	start := 0

	if !key.IsNil() {
		i, seq := arrayIndex(key)
		h, hashed := t.index[key]

		switch {
		case seq && i < len(t.array):
			start = i + 1
		case hashed:
			start = len(t.array) + h + 1
		case seq:
			// The key was cleared from the end of the sequence.
			start = len(t.array)
		default:
			return Nil(), Nil(), ErrArgument.Of("invalid key to 'next'")
		}
	}

	for i := start; i < len(t.array); i++ {
		if !t.array[i].IsNil() {
			return Number(int64(i + 1)), t.array[i], nil
		}
	}

	if start < len(t.array) {
		start = len(t.array)
	}

	for h := start - len(t.array); h < len(t.keys); h++ {
		if !t.vals[h].IsNil() {
			return t.keys[h], t.vals[h], nil
		}
	}

	return Nil(), Nil(), nil
}

// All returns an iterator over the entries of t: the sequence part in key
// order, then the remaining keys in insertion order.
func (t *Table) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i, v := range t.array {
			if !v.IsNil() && !yield(Number(int64(i+1)), v) {
				return
			}
		}

		for h := 0; h < len(t.keys); h++ {
			if !t.vals[h].IsNil() && !yield(t.keys[h], t.vals[h]) {
				return
			}
		}
	}
}

func (t *Table) borrow() error {
	if t.borrowed {
		return ErrBorrowConflict.Of(TableValue(t).String())
	}

	t.borrowed = true

	return nil
}

func (t *Table) release() { t.borrowed = false }

func (t *Table) set(key, v Value) error {
	if key.IsNil() {
		return ErrTableIndexNil
	}

	if i, ok := arrayIndex(key); ok {
		switch {
		case i < len(t.array):
			t.array[i] = v
			if i == len(t.array)-1 {
				t.trim()
			}

			return nil
		case i == len(t.array) && !v.IsNil():
			t.array = append(t.array, v)
			t.delete(key)
			t.migrate()

			return nil
		}
	}

	if v.IsNil() {
		t.delete(key)

		return nil
	}

	if h, ok := t.index[key]; ok {
		if t.vals[h].IsNil() {
			t.dead--
		}

		t.vals[h] = v

		return nil
	}

	t.index[key] = len(t.keys)
	t.keys = append(t.keys, key)
	t.vals = append(t.vals, v)

	return nil
}

// delete removes key from the hash part. The slot is kept so that an
// iteration in progress can continue past it.
func (t *Table) delete(key Value) {
	h, ok := t.index[key]
	if !ok || t.vals[h].IsNil() {
		return
	}

	t.vals[h] = Nil()
	t.dead++
}

// migrate moves keys that now extend the sequence from the hash part into the
// array part.
func (t *Table) migrate() {
	for {
		key := Number(int64(len(t.array) + 1))

		h, ok := t.index[key]
		if !ok || t.vals[h].IsNil() {
			break
		}

		t.array = append(t.array, t.vals[h])
		t.vals[h] = Nil()
		t.dead++
	}

	if t.dead > 16 && t.dead > len(t.keys)/2 {
		t.compact()
	}
}

// trim drops trailing nils so the array part always ends at the border.
func (t *Table) trim() {
	n := len(t.array)
	for n > 0 && t.array[n-1].IsNil() {
		n--
	}

	clear(t.array[n:])
	t.array = t.array[:n]
}

// compact drops removed hash entries.
func (t *Table) compact() {
	keys := make([]Value, 0, t.hashLen())
	vals := make([]Value, 0, t.hashLen())

	clear(t.index)

	for h, k := range t.keys {
		if t.vals[h].IsNil() {
			continue
		}

		t.index[k] = len(keys)
		keys = append(keys, k)
		vals = append(vals, t.vals[h])
	}

	t.keys, t.vals, t.dead = keys, vals, 0
}
