package store

import (
	"context"
	"errors"
	"fmt"
)

// Table is a whole-collection store. Callers load every row, change the slice in
// memory and write the full slice back. Nothing guards against a second process
// rewriting the same table in between: the later ReplaceAll wins.
type Table[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	ReplaceAll(ctx context.Context, rows []T) error
}

// ErrSchemaMismatch is wrapped by a StorageError when a stored table does not have
// the expected columns. The table is left untouched.
var ErrSchemaMismatch = errors.New("schema mismatch")

// StorageError reports a failed read or write of a backing table
type StorageError struct {
	Op    string
	Table string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func loadError(table string, err error) error {
	return &StorageError{Op: "load", Table: table, Err: err}
}

func replaceError(table string, err error) error {
	return &StorageError{Op: "replace", Table: table, Err: err}
}
