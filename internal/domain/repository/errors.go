package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("duplicate key")
	ErrStaleVersion      = errors.New("record was modified concurrently")
	ErrInsufficientStock = errors.New("insufficient stock")
)
