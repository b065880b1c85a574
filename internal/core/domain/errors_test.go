package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrVersionMismatch", ErrVersionMismatch, "version mismatch"},
		{"ErrConcurrentWrite", ErrConcurrentWrite, "concurrent write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrVersionMismatch,
		ErrConcurrentWrite,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestErrorsIs_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("%w: date is required", ErrInvalidInput)
	if !errors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped error should match ErrInvalidInput")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should not match ErrNotFound")
	}
}
