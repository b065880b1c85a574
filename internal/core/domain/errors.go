package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrVersionMismatch indicates a compare-and-set write found a different stored version
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrConcurrentWrite indicates the merge could not be persisted after repeated
	// version mismatches
	ErrConcurrentWrite = errors.New("concurrent write")
)
