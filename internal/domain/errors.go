package domain

import "errors"

var (
	// ErrValidation indicates bad or missing caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates no row exists for the given id.
	ErrNotFound = errors.New("not found")
	// ErrNotImplemented marks operations declared but not yet supported.
	ErrNotImplemented = errors.New("not implemented")
	// ErrPersistence indicates the store rejected a transaction.
	ErrPersistence = errors.New("persistence failure")
)
