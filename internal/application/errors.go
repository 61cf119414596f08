package application

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exist")
	ErrEmptyOrder         = errors.New("cart is empty")
	ErrForbidden          = errors.New("forbidden")
	ErrUnknownJob         = errors.New("unknown job type")
	ErrNoObjectStore      = errors.New("object storage is not configured")
)

// StorageError reports a failed object storage call.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SearchError is a non-2xx answer from the search cluster.
type SearchError struct {
	Status int
	Body   string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed with status %d: %s", e.Status, e.Body)
}
