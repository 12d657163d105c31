// Package apperr defines application-level error values shared across layers.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a record does not exist in the store.
var ErrNotFound = errors.New("not found")

// PersistenceError reports a create or delete rejected by the document
// store. The underlying cause is wrapped and propagated to the caller
// unmodified; there is no local retry or queueing.
type PersistenceError struct {
	Op  string // "create" or "delete"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persistence wraps err as a PersistenceError for the given operation.
// A nil err returns nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
