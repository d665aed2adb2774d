package analysis

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// ValidationError dipakai untuk input request yang tidak valid (HTTP 400).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError helper
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ClassificationError indicates the classifier rejected the input or failed.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// StorageError indicates a persistence failure (insert/query).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
