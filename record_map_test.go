package rentals

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordMap(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	forEachStorage(t, func(t *testing.T, storage Storage) {
		rental := someRental(3)

		err := storage.Update(func(updater Updater) error {
			records, err := NewRecordMapUpdater(updater, codec)
			require.NoError(t, err)

			_, ok, err := records.Get(3)
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, records.Insert(3, rental))

			v, ok, err := records.Get(3)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, rental, v)
			return nil
		})
		require.NoError(t, err)

		err = storage.Read(func(reader Reader) error {
			records, err := NewRecordMapReader(reader, codec)
			require.NoError(t, err)

			v, ok, err := records.Get(3)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, rental, v)

			_, ok, err = records.Get(4)
			require.NoError(t, err)
			require.False(t, ok)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestRecordMap_InsertOverwrites(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	forEachStorage(t, func(t *testing.T, storage Storage) {
		err := storage.Update(func(updater Updater) error {
			records, err := NewRecordMapUpdater(updater, codec)
			require.NoError(t, err)

			require.NoError(t, records.Insert(1, someRental(1)))

			replacement := someRental(1)
			replacement.MotorcycleBrand = "Yamaha"
			require.NoError(t, records.Insert(1, replacement))

			v, ok, err := records.Get(1)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, replacement, v)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestRecordMap_Remove(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	forEachStorage(t, func(t *testing.T, storage Storage) {
		rental := someRental(1)

		err := storage.Update(func(updater Updater) error {
			records, err := NewRecordMapUpdater(updater, codec)
			require.NoError(t, err)

			_, ok, err := records.Remove(1)
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, records.Insert(1, rental))

			removed, ok, err := records.Remove(1)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, rental, removed)

			_, ok, err = records.Get(1)
			require.NoError(t, err)
			require.False(t, ok)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestRecordMap_CorruptedRecordIsAnError(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	forEachStorage(t, func(t *testing.T, storage Storage) {
		err := storage.Update(func(updater Updater) error {
			region, err := updater.Region(RentalsRegion)
			require.NoError(t, err)
			return region.Put(marshalID(1), []byte{1, 2})
		})
		require.NoError(t, err)

		err = storage.Read(func(reader Reader) error {
			records, err := NewRecordMapReader(reader, codec)
			require.NoError(t, err)

			_, _, err = records.Get(1)
			return err
		})
		require.ErrorIs(t, err, ErrCorruptedRecord)
	})
}

func someRental(id uint64) Rental {
	return Rental{
		ID:              id,
		MotorcycleBrand: "Honda",
		DailyRate:       50,
		RentalDate:      "2024-01-01",
		RenterName:      "Alice",
		RentalDays:      3,
	}
}
