package depot

import (
	"errors"
	"fmt"
)

// Registry errors. Every failed operation wraps one of these in an
// OpError, so callers can match with errors.Is.
var (
	ErrFrozen         = errors.New("registry is frozen")
	ErrLocked         = errors.New("operation is locked for key")
	ErrAlreadyDefined = errors.New("key is already defined")
	ErrNotDefined     = errors.New("key is not defined")
	ErrNotArray       = errors.New("value is not an array")
	ErrNotScalar      = errors.New("array elements must be scalar")
)

// OpError reports a failed registry operation, carrying the action
// name and key for diagnostics.
type OpError struct {
	Action string
	Key    string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("registry action %q failed for %q: %v", e.Action, e.Key, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(action, key string, err error) error {
	return &OpError{Action: action, Key: key, Err: err}
}
