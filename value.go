package depot

import (
	"sort"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the shapes a registry entry can hold:
// the scalars (Null, Bool, Int, Float, String) and Array, a flat
// insertion-ordered mapping from string subkeys to scalars.
// Arrays do not nest.
//
// Values returned by registry reads are snapshots; mutating registry
// state is only possible through the registry's own operations.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  *array
}

// array is the backing store for an Array value: subkey lookup plus
// insertion order, so list-like content keeps its sequence.
type array struct {
	order []string
	items map[string]Value
}

func newArray() *array {
	return &array{items: make(map[string]Value)}
}

// Null returns the null Value. The zero Value is also null.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating-point Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// EmptyArray returns an Array value with no entries.
func EmptyArray() Value {
	return Value{kind: KindArray, arr: newArray()}
}

// ArrayOf returns an Array value holding the given subkey to scalar
// mapping. Subkeys are ordered lexically so the result is deterministic;
// non-scalar elements are replaced with Null (nesting is not supported).
func ArrayOf(items map[string]Value) Value {
	a := newArray()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := items[k]
		if v.kind == KindArray {
			v = Null()
		}
		a.set(k, v)
	}
	return Value{kind: KindArray, arr: a}
}

// ListOf returns an Array value holding the given scalars as a
// sequence, subkeyed "0", "1", ... in order.
func ListOf(items ...Value) Value {
	v := EmptyArray()
	for _, item := range items {
		if item.kind == KindArray {
			item = Null()
		}
		v.arr.appendItem(item)
	}
	return v
}

// Kind returns the Value's kind tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the Value is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsArray reports whether the Value is an Array.
func (v Value) IsArray() bool {
	return v.kind == KindArray
}

// IsScalar reports whether the Value is one of the scalar kinds.
func (v Value) IsScalar() bool {
	return v.kind != KindArray
}

// BoolVal returns the boolean payload, or false for other kinds.
func (v Value) BoolVal() bool {
	return v.kind == KindBool && v.b
}

// IntVal returns the integer payload, or 0 for other kinds.
func (v Value) IntVal() int64 {
	if v.kind != KindInt {
		return 0
	}
	return v.i
}

// FloatVal returns the float payload, or 0 for other kinds.
func (v Value) FloatVal() float64 {
	if v.kind != KindFloat {
		return 0
	}
	return v.f
}

// StringVal returns the string payload, or "" for other kinds.
func (v Value) StringVal() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Len returns the number of entries in an Array value, 0 otherwise.
func (v Value) Len() int {
	if v.kind != KindArray {
		return 0
	}
	return len(v.arr.order)
}

// Subkeys returns the Array's subkeys in insertion order, nil for
// non-array values. The returned slice is a copy.
func (v Value) Subkeys() []string {
	if v.kind != KindArray {
		return nil
	}
	out := make([]string, len(v.arr.order))
	copy(out, v.arr.order)
	return out
}

// At returns the element stored under subkey and whether it exists.
// Always (Null, false) for non-array values.
func (v Value) At(subkey string) (Value, bool) {
	if v.kind != KindArray {
		return Null(), false
	}
	item, ok := v.arr.items[subkey]
	return item, ok
}

// List returns the Array's list-like view: the elements whose subkeys
// are sequential-style integers, ordered numerically. Non-integer
// subkeys are excluded. Nil for non-array values.
func (v Value) List() []Value {
	if v.kind != KindArray {
		return nil
	}
	type indexed struct {
		n    int
		item Value
	}
	var picked []indexed
	for _, k := range v.arr.order {
		if n, ok := parseIntKey(k); ok {
			picked = append(picked, indexed{n: n, item: v.arr.items[k]})
		}
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].n < picked[j].n })
	out := make([]Value, len(picked))
	for i, p := range picked {
		out[i] = p.item
	}
	return out
}

// Equal reports deep equality, including array entry order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr.order) != len(other.arr.order) {
			return false
		}
		for idx, k := range v.arr.order {
			if other.arr.order[idx] != k {
				return false
			}
			if !v.arr.items[k].Equal(other.arr.items[k]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interface converts the Value to its native Go representation:
// nil, bool, int64, float64, string, or map[string]any for arrays.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make(map[string]any, len(v.arr.order))
		for _, k := range v.arr.order {
			out[k] = v.arr.items[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// clone returns a Value detached from internal state. Scalars copy by
// value; arrays get a fresh backing store.
func (v Value) clone() Value {
	if v.kind != KindArray {
		return v
	}
	a := newArray()
	a.order = make([]string, len(v.arr.order))
	copy(a.order, v.arr.order)
	for k, item := range v.arr.items {
		a.items[k] = item
	}
	return Value{kind: KindArray, arr: a}
}

// set inserts or overwrites subkey, preserving insertion order for
// existing subkeys.
func (a *array) set(subkey string, v Value) {
	if _, ok := a.items[subkey]; !ok {
		a.order = append(a.order, subkey)
	}
	a.items[subkey] = v
}

// remove deletes subkey; no-op if absent.
func (a *array) remove(subkey string) {
	if _, ok := a.items[subkey]; !ok {
		return
	}
	delete(a.items, subkey)
	for i, k := range a.order {
		if k == subkey {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// appendItem inserts v as the new last element of the list-like view,
// under the next free integer subkey.
func (a *array) appendItem(v Value) {
	next := 0
	for _, k := range a.order {
		if n, ok := parseIntKey(k); ok && n >= next {
			next = n + 1
		}
	}
	a.set(strconv.Itoa(next), v)
}

// prependItem inserts v as the new first element. Integer subkeys are
// renumbered sequentially from 0; string subkeys keep their names and
// relative order.
func (a *array) prependItem(v Value) {
	newOrder := make([]string, 0, len(a.order)+1)
	newItems := make(map[string]Value, len(a.items)+1)
	next := 0

	key := strconv.Itoa(next)
	next++
	newOrder = append(newOrder, key)
	newItems[key] = v

	for _, k := range a.order {
		item := a.items[k]
		nk := k
		if _, ok := parseIntKey(k); ok {
			nk = strconv.Itoa(next)
			next++
		}
		newOrder = append(newOrder, nk)
		newItems[nk] = item
	}
	a.order = newOrder
	a.items = newItems
}

// parseIntKey reports whether subkey is a canonical non-negative
// integer ("0", "1", ... without leading zeros) and returns its value.
func parseIntKey(subkey string) (int, bool) {
	if subkey == "" {
		return 0, false
	}
	if len(subkey) > 1 && subkey[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(subkey)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
