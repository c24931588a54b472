package rentals

import (
	"fmt"

	"github.com/boreq/errors"
)

// Storage faults. They abort the operation during which they occurred and
// are never committed.
var (
	ErrCorruptedRecord = errors.New("corrupted record")
	ErrCounterOverflow = errors.New("identifier counter overflow")
	ErrRecordTooLarge  = errors.New("record too large")
)

type NotFoundError struct {
	ID uint64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("rental %d not found", e.ID)
}

type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}
