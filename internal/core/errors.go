package core

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when an index does not address a task in
// the current listing.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrInvalidInput is returned for task input the store cannot represent.
var ErrInvalidInput = errors.New("invalid input")

// IndexError describes an index that did not resolve to a pending task.
type IndexError struct {
	Op    string
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: task with index #%d does not exist (%d pending)", e.Op, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
