package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a mutation targets a project that does not
	// exist in the caller's visible set. Deleting an already-deleted project
	// reports this as well; the first delete is not reversed.
	ErrNotFound = errors.New("project not found")
)

// ValidationError reports an invalid field caught before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError wraps a failure from the record or object store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
