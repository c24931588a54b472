package rentals

import (
	"github.com/boreq/errors"
)

type RecordMapReader struct {
	region RegionReader
	codec  *RecordCodec
}

func NewRecordMapReader(reader Reader, codec *RecordCodec) (*RecordMapReader, error) {
	region, err := reader.Region(RentalsRegion)
	if err != nil {
		return nil, errors.Wrap(err, "error getting the rentals region")
	}

	return &RecordMapReader{region: region, codec: codec}, nil
}

func (m *RecordMapReader) Get(id uint64) (Rental, bool, error) {
	return getRecord(m.region, m.codec, id)
}

type RecordMapUpdater struct {
	region RegionUpdater
	codec  *RecordCodec
}

func NewRecordMapUpdater(updater Updater, codec *RecordCodec) (*RecordMapUpdater, error) {
	region, err := updater.Region(RentalsRegion)
	if err != nil {
		return nil, errors.Wrap(err, "error getting the rentals region")
	}

	return &RecordMapUpdater{region: region, codec: codec}, nil
}

func (m *RecordMapUpdater) Get(id uint64) (Rental, bool, error) {
	return getRecord(m.region, m.codec, id)
}

// Insert stores the rental under the given id overwriting any previous
// value.
func (m *RecordMapUpdater) Insert(id uint64, rental Rental) error {
	b, err := m.codec.Encode(rental)
	if err != nil {
		return errors.Wrap(err, "error encoding the rental")
	}

	if err := m.region.Put(marshalID(id), b); err != nil {
		return errors.Wrap(err, "error calling put")
	}

	return nil
}

// Remove deletes the rental and returns its last value.
func (m *RecordMapUpdater) Remove(id uint64) (Rental, bool, error) {
	rental, ok, err := getRecord(m.region, m.codec, id)
	if err != nil {
		return Rental{}, false, errors.Wrap(err, "error getting the rental")
	}

	if !ok {
		return Rental{}, false, nil
	}

	if err := m.region.Delete(marshalID(id)); err != nil {
		return Rental{}, false, errors.Wrap(err, "error calling delete")
	}

	return rental, true, nil
}

func getRecord(region RegionReader, codec *RecordCodec, id uint64) (Rental, bool, error) {
	b, err := region.Get(marshalID(id))
	if err != nil {
		return Rental{}, false, errors.Wrap(err, "error calling get")
	}

	if b == nil {
		return Rental{}, false, nil
	}

	rental, err := codec.Decode(b)
	if err != nil {
		return Rental{}, false, errors.Wrap(err, "error decoding the rental")
	}

	return rental, true, nil
}
