package depot

// Ledger tracks mutation permissions: one process-wide frozen flag and
// a lock mask per key. It knows nothing about stored values and does
// no I/O. A Ledger is not synchronized; the Registry that co-owns it
// serializes access (see Registry).
type Ledger struct {
	frozen bool
	masks  map[string]Lock
}

// NewLedger creates a Ledger with nothing frozen and no masks recorded.
func NewLedger() *Ledger {
	return &Ledger{masks: make(map[string]Lock)}
}

// IsFrozen reports whether the registry has been frozen.
func (l *Ledger) IsFrozen() bool {
	return l.frozen
}

// Freeze marks the registry frozen. The transition is one-way and
// idempotent: there is no thaw.
func (l *Ledger) Freeze() {
	l.frozen = true
}

// Check reports whether the key's recorded mask forbids any of the
// given flags. A key with no recorded mask is read-write, and zero
// flags never intersect, so both cases return false.
func (l *Ledger) Check(key string, flags ...Lock) bool {
	mask, ok := l.masks[key]
	if !ok {
		return false
	}
	for _, flag := range flags {
		if mask.Has(flag) {
			return true
		}
	}
	return false
}

// Lock overwrites the key's mask.
func (l *Ledger) Lock(key string, mask Lock) {
	l.masks[key] = mask
}

// Unlock removes the key's mask entirely; no-op if absent.
func (l *Ledger) Unlock(key string) {
	delete(l.masks, key)
}

// AssertNotFrozen fails with ErrFrozen when the registry is frozen,
// carrying the action and key for diagnostics.
func (l *Ledger) AssertNotFrozen(action, key string) error {
	if l.frozen {
		return opErr(action, key, ErrFrozen)
	}
	return nil
}

// AssertNotLocked fails with ErrLocked when the key's mask forbids any
// of the given flags.
func (l *Ledger) AssertNotLocked(action, key string, flags ...Lock) error {
	if l.Check(key, flags...) {
		return opErr(action, key, ErrLocked)
	}
	return nil
}
