package rentals

import (
	"log/slog"
	"sync"
	"time"

	"github.com/boreq/errors"
)

// Service implements the rental operations on top of a storage. Every
// operation runs in a single storage transaction and operations are
// serialized so that concurrent adds never observe the same counter value.
type Service struct {
	storage Storage
	codec   *RecordCodec
	journal Journal
	logger  *slog.Logger
	now     func() time.Time
	mutex   sync.Mutex
}

// NewService initializes the counter region and returns a service ready to
// serve requests. Passing a nil journal disables journaling, a nil logger is
// replaced with the default one.
func NewService(storage Storage, codec *RecordCodec, journal Journal, logger *slog.Logger) (*Service, error) {
	if journal == nil {
		journal = NewNoopJournal()
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := storage.Update(func(updater Updater) error {
		counter, err := NewCounterUpdater(updater)
		if err != nil {
			return errors.Wrap(err, "error creating the counter")
		}
		return counter.Init()
	}); err != nil {
		return nil, errors.Wrap(err, "error initializing the counter")
	}

	return &Service{
		storage: storage,
		codec:   codec,
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (s *Service) GetRental(id uint64) (Rental, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var rental Rental

	if err := s.storage.Read(func(reader Reader) error {
		records, err := NewRecordMapReader(reader, s.codec)
		if err != nil {
			return errors.Wrap(err, "error creating the record map")
		}

		v, ok, err := records.Get(id)
		if err != nil {
			return errors.Wrap(err, "error getting the rental")
		}

		if !ok {
			return NotFoundError{ID: id}
		}

		rental = v
		return nil
	}); err != nil {
		return Rental{}, err
	}

	return rental, nil
}

// AddRental validates the input before touching the counter, rejected inputs
// don't consume an id.
func (s *Service) AddRental(input RentalInput) (Rental, error) {
	if err := validate(input); err != nil {
		return Rental{}, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	var rental Rental

	if err := s.storage.Update(func(updater Updater) error {
		counter, err := NewCounterUpdater(updater)
		if err != nil {
			return errors.Wrap(err, "error creating the counter")
		}

		records, err := NewRecordMapUpdater(updater, s.codec)
		if err != nil {
			return errors.Wrap(err, "error creating the record map")
		}

		id, err := counter.Next()
		if err != nil {
			return errors.Wrap(err, "error getting the next id")
		}

		rental = newRental(id, input)

		if err := s.insert(records, id, rental); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return Rental{}, err
	}

	s.logger.Debug("added a rental", "id", rental.ID)
	s.appendToJournal(OperationAdd, rental)
	return rental, nil
}

// UpdateRental replaces all mutable fields of an existing rental and stamps
// it with the current time. A missing rental is reported before the input is
// validated.
func (s *Service) UpdateRental(id uint64, input RentalInput) (Rental, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var rental Rental

	if err := s.storage.Update(func(updater Updater) error {
		records, err := NewRecordMapUpdater(updater, s.codec)
		if err != nil {
			return errors.Wrap(err, "error creating the record map")
		}

		_, ok, err := records.Get(id)
		if err != nil {
			return errors.Wrap(err, "error getting the rental")
		}

		if !ok {
			return NotFoundError{ID: id}
		}

		if err := validate(input); err != nil {
			return err
		}

		rental = newRental(id, input)
		updatedAt := NewTimestamp(s.now())
		rental.UpdatedAt = &updatedAt

		if err := s.insert(records, id, rental); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return Rental{}, err
	}

	s.logger.Debug("updated a rental", "id", rental.ID)
	s.appendToJournal(OperationUpdate, rental)
	return rental, nil
}

func (s *Service) DeleteRental(id uint64) (Rental, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var rental Rental

	if err := s.storage.Update(func(updater Updater) error {
		records, err := NewRecordMapUpdater(updater, s.codec)
		if err != nil {
			return errors.Wrap(err, "error creating the record map")
		}

		v, ok, err := records.Remove(id)
		if err != nil {
			return errors.Wrap(err, "error removing the rental")
		}

		if !ok {
			return NotFoundError{ID: id}
		}

		rental = v
		return nil
	}); err != nil {
		return Rental{}, err
	}

	s.logger.Debug("deleted a rental", "id", rental.ID)
	s.appendToJournal(OperationDelete, rental)
	return rental, nil
}

// NextID returns the id which the next successful add will assign.
func (s *Service) NextID() (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var next uint64

	if err := s.storage.Read(func(reader Reader) error {
		counter, err := NewCounterReader(reader)
		if err != nil {
			return errors.Wrap(err, "error creating the counter")
		}

		v, err := counter.Current()
		if err != nil {
			return errors.Wrap(err, "error getting the current value")
		}

		next = v
		return nil
	}); err != nil {
		return 0, err
	}

	return next, nil
}

// insert reports records which can't be stored within MaxRecordSize as
// invalid input. The error aborts the transaction so an add which fails here
// doesn't consume an id.
func (s *Service) insert(records *RecordMapUpdater, id uint64, rental Rental) error {
	if err := records.Insert(id, rental); err != nil {
		if errors.Is(err, ErrRecordTooLarge) {
			return InvalidInputError{Reason: tooLargeReason}
		}
		return errors.Wrap(err, "error inserting the rental")
	}
	return nil
}

// appendToJournal runs after the storage transaction was committed so a
// failure can only be logged.
func (s *Service) appendToJournal(operation Operation, rental Rental) {
	if err := s.journal.Append(JournalEntry{Operation: operation, Rental: rental}); err != nil {
		s.logger.Error("error appending to the journal", "operation", operation.String(), "id", rental.ID, "err", err)
	}
}
