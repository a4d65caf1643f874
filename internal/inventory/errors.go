package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is wrapped by store errors for ids that do not exist.
	ErrNotFound = errors.New("book not found")

	// ErrUnknownColumn is wrapped by ColumnError.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrBlankRecord is returned by Service.Add when every field is empty.
	ErrBlankRecord = errors.New("at least one field must be filled")
)

// NotFoundError reports a missing id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("book %d: %v", e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ColumnError reports a search or sort column the engine does not know.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownColumn, e.Column)
}

func (e *ColumnError) Unwrap() error { return ErrUnknownColumn }

// Unavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
