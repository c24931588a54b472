package rentals

import (
	"github.com/boreq/errors"
)

type Operation byte

const (
	OperationAdd    Operation = 1
	OperationUpdate Operation = 2
	OperationDelete Operation = 3
)

func (o Operation) String() string {
	switch o {
	case OperationAdd:
		return "add"
	case OperationUpdate:
		return "update"
	case OperationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// JournalEntry describes a committed mutation. For deletes Rental is the
// removed value.
type JournalEntry struct {
	Operation Operation
	Rental    Rental
}

// Journal is an append only trail of committed mutations.
type Journal interface {
	Append(entry JournalEntry) error
	Close() error
}

type NoopJournal struct {
}

func NewNoopJournal() *NoopJournal {
	return &NoopJournal{}
}

func (n NoopJournal) Append(entry JournalEntry) error {
	return nil
}

func (n NoopJournal) Close() error {
	return nil
}

func encodeJournalEntry(codec *RecordCodec, entry JournalEntry) ([]byte, error) {
	b, err := codec.Encode(entry.Rental)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding the rental")
	}

	return append([]byte{byte(entry.Operation)}, b...), nil
}

func decodeJournalEntry(codec *RecordCodec, b []byte) (JournalEntry, error) {
	if len(b) < 1 {
		return JournalEntry{}, errors.Wrap(ErrCorruptedRecord, "empty journal entry")
	}

	operation := Operation(b[0])
	switch operation {
	case OperationAdd, OperationUpdate, OperationDelete:
	default:
		return JournalEntry{}, errors.Wrap(ErrCorruptedRecord, "unknown operation")
	}

	rental, err := codec.Decode(b[1:])
	if err != nil {
		return JournalEntry{}, errors.Wrap(err, "error decoding the rental")
	}

	return JournalEntry{Operation: operation, Rental: rental}, nil
}
