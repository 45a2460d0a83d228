package controller

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates a lookup by id or username yielded nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a uniqueness violation on create.
	ErrDuplicate = errors.New("record already exists")
	// ErrUnknownQuestion indicates a secret question outside the fixed pool.
	ErrUnknownQuestion = errors.New("secret question not in the known pool")
)

// StoreError wraps a persistence failure that is neither a missing record nor
// a duplicate. It unwraps to the underlying cause.
type StoreError struct {
	Table string
	Op    string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// translateStoreErr maps gorm errors onto the controller error kinds. Errors
// that are already classified pass through untouched.
func translateStoreErr(table, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, ErrDuplicate):
		return ErrDuplicate
	default:
		return &StoreError{Table: table, Op: op, Err: err}
	}
}
