// Package repository defines the error kinds shared by the cashback storage and service layers.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound - the referenced group or entry does not exist.
var ErrNotFound = errors.New("not found")

// ErrGroupNotFound - the referenced group does not exist.
var ErrGroupNotFound = fmt.Errorf("group %w", ErrNotFound)

// ErrEntryNotFound - the group exists but holds no entry with the given name.
var ErrEntryNotFound = fmt.Errorf("entry %w", ErrNotFound)

// ErrInvalidArgument - empty name, non-positive percent or malformed entry payload.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrStorage - the persisted resource could not be read, written or removed.
var ErrStorage = errors.New("storage failure")

// ErrMalformedResource - the persisted resource exists but is not the expected JSON shape.
var ErrMalformedResource = errors.New("malformed resource")

// StorageError wraps a platform I/O failure with the resource and the operation attempted.
type StorageError struct {
	// Op: operation attempted ("load", "save", "delete").
	Op string
	// Path: name of the persisted resource.
	Path string
	// Err: underlying error.
	Err error
}

// NewStorageError returns a StorageError for op on path.
func NewStorageError(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", ErrStorage, e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Malformed wraps a decoding failure of the resource at path.
func Malformed(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedResource, path, err)
}
