package source

import (
	"errors"
	"fmt"
)

// StoreOpenError reports that the backing store could not be opened.
// It is fatal: rendering cannot start without a store.
type StoreOpenError struct {
	Backend string
	Path    string
	Err     error
}

func (e *StoreOpenError) Error() string {
	return fmt.Sprintf("open %s store at %s: %v", e.Backend, e.Path, e.Err)
}

func (e *StoreOpenError) Unwrap() error { return e.Err }

// StoreReadError reports a cursor failure. Consumers treat it as the end of
// data in that direction.
type StoreReadError struct {
	Detail string
	Err    error
}

func (e *StoreReadError) Error() string {
	if e.Err == nil {
		return "store read: " + e.Detail
	}
	return fmt.Sprintf("store read: %s: %v", e.Detail, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// ErrLayoutInconsistency classifies a spacer that would have gone negative.
// The viewport clamps such spacers to zero and never returns this error; it
// exists so diagnostics can name the condition.
var ErrLayoutInconsistency = errors.New("layout inconsistency: spacer height below zero")

// ReadError wraps err as a *StoreReadError unless it already is one.
func ReadError(detail string, err error) error {
	var re *StoreReadError
	if errors.As(err, &re) {
		return err
	}
	return &StoreReadError{Detail: detail, Err: err}
}

// IsReadError reports whether err is a *StoreReadError.
func IsReadError(err error) bool {
	var re *StoreReadError
	return errors.As(err, &re)
}

// IsOpenError reports whether err is a *StoreOpenError.
func IsOpenError(err error) bool {
	var oe *StoreOpenError
	return errors.As(err, &oe)
}
