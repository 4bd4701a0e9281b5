package depot

import "sync"

// Registry is an in-process key/value store for bootstrap state:
// values are scalars or flat arrays of scalars, each key carries a
// lock mask of forbidden mutations, and a one-way Freeze makes the
// whole store read-only. The Registry and its Ledger are co-owned; a
// single RWMutex serializes every operation on the pair (reads take
// the read lock, writes the write lock).
type Registry struct {
	mu     sync.RWMutex
	values map[string]Value
	order  []string
	ledger *Ledger
}

// New creates an empty, unfrozen Registry.
func New() *Registry {
	return &Registry{
		values: make(map[string]Value),
		ledger: NewLedger(),
	}
}

// defineOptions collects the optional parameters of Define and Set.
type defineOptions struct {
	mask    Lock
	asArray bool
}

// Option configures Define and Set.
type Option func(*defineOptions)

// WithLock records the given mask for the key when it is created.
func WithLock(mask Lock) Option {
	return func(o *defineOptions) {
		o.mask = mask
	}
}

// AsArray makes Define create the key with an empty Array instead of Null.
func AsArray() Option {
	return func(o *defineOptions) {
		o.asArray = true
	}
}

func applyOptions(opts []Option) defineOptions {
	var o defineOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Get returns the value stored under key, or def when the key is
// absent. The result is a snapshot detached from registry state.
func (r *Registry) Get(key string, def Value) Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		return def
	}
	return v.clone()
}

// Has reports whether key is defined, independent of its value.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.values[key]
	return ok
}

// All returns a snapshot of every key and value. Mutating the result
// does not affect registry state.
func (r *Registry) All() map[string]Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Value, len(r.values))
	for k, v := range r.values {
		out[k] = v.clone()
	}
	return out
}

// Keys returns all defined keys. The contract leaves order
// unspecified; this implementation returns insertion order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsAssigned reports whether key is defined, holds an Array, and that
// array contains subkey. Never fails; false in every other case.
func (r *Registry) IsAssigned(key, subkey string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok || !v.IsArray() {
		return false
	}
	_, ok = v.arr.items[subkey]
	return ok
}

// IsFrozen reports whether Freeze has been called.
func (r *Registry) IsFrozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ledger.IsFrozen()
}

// Freeze makes the registry read-only for the rest of its lifetime.
// Idempotent; there is no way back.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledger.Freeze()
}

// Define creates key with a Null value (or an empty Array with
// AsArray) and records its lock mask. Fails with ErrFrozen after
// Freeze and ErrAlreadyDefined when the key exists.
func (r *Registry) Define(key string, opts ...Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ledger.AssertNotFrozen("define", key); err != nil {
		return err
	}
	if _, ok := r.values[key]; ok {
		return opErr("define", key, ErrAlreadyDefined)
	}
	o := applyOptions(opts)
	r.store(key, initialValue(o.asArray))
	r.ledger.Lock(key, o.mask)
	return nil
}

// Set stores v under key. An absent key is defined first (array-typed
// when v is an Array), honoring WithLock. An existing key fails with
// ErrFrozen or ErrLocked (NoSet); otherwise the value is overwritten
// in place — the key's mask and its array-vs-scalar typing are not
// re-validated against the new value.
func (r *Registry) Set(key string, v Value, opts ...Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ledger.AssertNotFrozen("set", key); err != nil {
		return err
	}
	if _, ok := r.values[key]; !ok {
		o := applyOptions(opts)
		r.store(key, v.clone())
		r.ledger.Lock(key, o.mask)
		return nil
	}
	if err := r.ledger.AssertNotLocked("set", key, NoSet); err != nil {
		return err
	}
	r.values[key] = v.clone()
	return nil
}

// Clear removes key and its lock mask in the same operation, so
// redefining the key afterwards starts read-write. An absent key is a
// successful no-op. Fails with ErrFrozen or ErrLocked (NoClear).
func (r *Registry) Clear(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ledger.AssertNotFrozen("clear", key); err != nil {
		return err
	}
	if _, ok := r.values[key]; !ok {
		return nil
	}
	if err := r.ledger.AssertNotLocked("clear", key, NoClear); err != nil {
		return err
	}
	delete(r.values, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.ledger.Unlock(key)
	return nil
}

// Assign inserts or overwrites subkey -> v in the Array stored under
// key. Fails with ErrFrozen, ErrNotDefined, ErrNotArray, ErrLocked
// (NoAssign), or ErrNotScalar when v is itself an Array.
func (r *Registry) Assign(key, subkey string, v Value) error {
	return r.mutateArray("assign", key, NoAssign, func(a *array) error {
		if v.IsArray() {
			return opErr("assign", key, ErrNotScalar)
		}
		a.set(subkey, v)
		return nil
	})
}

// Unassign removes subkey from the Array stored under key; a missing
// subkey is a successful no-op. Same checks as Assign, with NoUnassign.
func (r *Registry) Unassign(key, subkey string) error {
	return r.mutateArray("unassign", key, NoUnassign, func(a *array) error {
		a.remove(subkey)
		return nil
	})
}

// Prepend inserts v as the new first element of the Array's list-like
// view, renumbering integer subkeys from 0. Same checks as Assign,
// with NoPrepend.
func (r *Registry) Prepend(key string, v Value) error {
	return r.mutateArray("prepend", key, NoPrepend, func(a *array) error {
		if v.IsArray() {
			return opErr("prepend", key, ErrNotScalar)
		}
		a.prependItem(v)
		return nil
	})
}

// Append inserts v as the new last element of the Array's list-like
// view, under the next free integer subkey. Same checks as Assign,
// with NoAppend.
func (r *Registry) Append(key string, v Value) error {
	return r.mutateArray("append", key, NoAppend, func(a *array) error {
		if v.IsArray() {
			return opErr("append", key, ErrNotScalar)
		}
		a.appendItem(v)
		return nil
	})
}

// mutateArray runs fn on the array stored under key after the uniform
// check sequence: frozen, then key defined, then value is an Array,
// then lock. The order matters: a frozen registry is reported even for
// absent keys, and a missing or non-array key is reported even when no
// lock is set.
func (r *Registry) mutateArray(action, key string, flag Lock, fn func(a *array) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ledger.AssertNotFrozen(action, key); err != nil {
		return err
	}
	v, ok := r.values[key]
	if !ok {
		return opErr(action, key, ErrNotDefined)
	}
	if !v.IsArray() {
		return opErr(action, key, ErrNotArray)
	}
	if err := r.ledger.AssertNotLocked(action, key, flag); err != nil {
		return err
	}
	return fn(v.arr)
}

// store records a new key, tracking insertion order. Caller holds the
// write lock and has checked the key is absent.
func (r *Registry) store(key string, v Value) {
	r.values[key] = v
	r.order = append(r.order, key)
}

func initialValue(asArray bool) Value {
	if asArray {
		return EmptyArray()
	}
	return Null()
}
