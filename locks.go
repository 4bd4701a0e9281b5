package depot

import (
	"fmt"
	"strings"
)

// Lock is a bitmask of forbidden mutation operations for one key.
// The zero value (ReadWrite) forbids nothing.
type Lock uint8

const (
	// NoSet forbids overwriting the key's value via Set.
	NoSet Lock = 1 << iota
	// NoAppend forbids Append on the key's array.
	NoAppend
	// NoPrepend forbids Prepend on the key's array.
	NoPrepend
	// NoAssign forbids Assign on the key's array.
	NoAssign
	// NoUnassign forbids Unassign on the key's array.
	NoUnassign
	// NoClear forbids removing the key via Clear.
	NoClear
)

const (
	// ReadWrite places no restrictions on the key.
	ReadWrite Lock = 0

	// ReadModify forbids replacing or removing the key as a whole but
	// still permits editing array content in place.
	ReadModify = NoSet | NoClear

	// ReadOnly forbids every mutation on the key.
	ReadOnly = NoSet | NoAppend | NoPrepend | NoAssign | NoUnassign | NoClear
)

// Has reports whether the mask forbids any of the given flags.
func (l Lock) Has(flags Lock) bool {
	return l&flags != 0
}

// lockNames maps each individual flag to its canonical name, in bit order.
var lockNames = []struct {
	flag Lock
	name string
}{
	{NoSet, "no-set"},
	{NoAppend, "no-append"},
	{NoPrepend, "no-prepend"},
	{NoAssign, "no-assign"},
	{NoUnassign, "no-unassign"},
	{NoClear, "no-clear"},
}

// String returns the canonical name for the mask: a preset name when
// the mask matches one, otherwise the individual flags joined by "|".
func (l Lock) String() string {
	switch l {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	case ReadModify:
		return "read-modify"
	}
	var parts []string
	for _, ln := range lockNames {
		if l.Has(ln.flag) {
			parts = append(parts, ln.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseLock parses a lock mask name as produced by Lock.String:
// a preset ("read-write", "read-only", "read-modify"), a single flag
// name, or flag names joined by "|". The empty string is ReadWrite.
func ParseLock(s string) (Lock, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "read-write":
		return ReadWrite, nil
	case "read-only":
		return ReadOnly, nil
	case "read-modify":
		return ReadModify, nil
	}
	var mask Lock
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		flag, ok := lookupLockName(part)
		if !ok {
			return ReadWrite, fmt.Errorf("unknown lock flag %q", part)
		}
		mask |= flag
	}
	return mask, nil
}

func lookupLockName(name string) (Lock, bool) {
	for _, ln := range lockNames {
		if ln.name == name {
			return ln.flag, true
		}
	}
	return ReadWrite, false
}
