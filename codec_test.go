package rentals

import (
	"strings"
	"testing"
	"time"

	"github.com/boreq/rentals/fixtures"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func getCompressions(t *testing.T) []Compression {
	var compressions []Compression
	for _, name := range []string{CompressionNone, CompressionSnappy, CompressionZSTD} {
		compression, err := CompressionByName(name)
		require.NoError(t, err)
		compressions = append(compressions, compression)
	}
	return compressions
}

func rentalGenerator() *rapid.Generator[Rental] {
	return rapid.Custom(func(t *rapid.T) Rental {
		rental := Rental{
			ID:              rapid.Uint64().Draw(t, "id"),
			MotorcycleBrand: rapid.StringN(0, 100, -1).Draw(t, "brand"),
			DailyRate:       rapid.Uint64().Draw(t, "daily_rate"),
			RentalDate:      rapid.StringN(0, 100, -1).Draw(t, "rental_date"),
			RenterName:      rapid.StringN(0, 100, -1).Draw(t, "renter_name"),
			RentalDays:      rapid.Uint64().Draw(t, "rental_days"),
		}
		if rapid.Bool().Draw(t, "has_updated_at") {
			updatedAt := Timestamp(rapid.Uint64().Draw(t, "updated_at"))
			rental.UpdatedAt = &updatedAt
		}
		return rental
	})
}

func TestRecordCodec_RoundTrip(t *testing.T) {
	for _, compression := range getCompressions(t) {
		t.Run(compression.Name(), func(t *testing.T) {
			codec := NewRecordCodec(compression)

			rapid.Check(t, func(rt *rapid.T) {
				rental := rentalGenerator().Draw(rt, "rental")

				b, err := codec.Encode(rental)
				if err != nil {
					rt.Fatalf("encode failed: %s", err)
				}

				decoded, err := codec.Decode(b)
				if err != nil {
					rt.Fatalf("decode failed: %s", err)
				}

				require.Equal(rt, rental, decoded)
			})
		})
	}
}

func TestRecordCodec_EncodingIsDeterministic(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	rapid.Check(t, func(rt *rapid.T) {
		rental := rentalGenerator().Draw(rt, "rental")

		a, err := codec.Encode(rental)
		require.NoError(rt, err)

		b, err := codec.Encode(rental)
		require.NoError(rt, err)

		require.Equal(rt, a, b)
		require.Len(rt, a, encodedSize(rental))
	})
}

func TestRecordCodec_KnownEncoding(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())
	updatedAt := Timestamp(1)

	b, err := codec.Encode(Rental{
		ID:              1,
		MotorcycleBrand: "ab",
		DailyRate:       300,
		RentalDate:      "c",
		RenterName:      "",
		RentalDays:      3,
		UpdatedAt:       &updatedAt,
	})
	require.NoError(t, err)

	require.Equal(t,
		[]byte{
			1,           // version
			1,           // id
			2, 'a', 'b', // brand
			0xac, 0x02,  // daily rate
			1, 'c',      // rental date
			0,           // renter name
			3,           // rental days
			1,           // updated at present
			0, 0, 0, 0, 0, 0, 0, 1,
		},
		b,
	)
}

func TestRecordCodec_RecordsAboveTheLimitAreRejected(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	_, err := codec.Encode(Rental{MotorcycleBrand: strings.Repeat("a", MaxRecordSize)})
	require.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestRecordCodec_CorruptedRecordsAreRejected(t *testing.T) {
	codec := NewRecordCodec(NewNoopCompression())

	valid, err := codec.Encode(Rental{ID: 1, MotorcycleBrand: "Honda", RentalDays: 1})
	require.NoError(t, err)

	testCases := []struct {
		Name  string
		Bytes []byte
	}{
		{
			Name:  "empty",
			Bytes: nil,
		},
		{
			Name:  "unknown_version",
			Bytes: append([]byte{2}, valid[1:]...),
		},
		{
			Name:  "truncated",
			Bytes: valid[:len(valid)-1],
		},
		{
			Name:  "trailing_bytes",
			Bytes: append(append([]byte(nil), valid...), 0),
		},
		{
			Name:  "unknown_flag",
			Bytes: append(append([]byte(nil), valid[:len(valid)-1]...), 7),
		},
		{
			Name:  "string_longer_than_record",
			Bytes: []byte{1, 1, 100, 'a'},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			_, err := codec.Decode(testCase.Bytes)
			require.ErrorIs(t, err, ErrCorruptedRecord)
		})
	}
}

func TestRecordCodec_CompressedGarbageIsCorrupted(t *testing.T) {
	compression, err := CompressionByName(CompressionSnappy)
	require.NoError(t, err)

	_, err = NewRecordCodec(compression).Decode([]byte{0xff, 0xff, 0xff})
	require.ErrorIs(t, err, ErrCorruptedRecord)
}

func TestCompressionByName(t *testing.T) {
	for _, name := range []string{CompressionNone, CompressionSnappy, CompressionZSTD} {
		compression, err := CompressionByName(name)
		require.NoError(t, err)
		require.Equal(t, name, compression.Name())
	}

	_, err := CompressionByName("lz4")
	require.Error(t, err)
}

func TestRecordCodec_StoredBytesNeverExceedTheLimit(t *testing.T) {
	input := largestValidInput(t)

	for _, compression := range getCompressions(t) {
		t.Run(compression.Name(), func(t *testing.T) {
			codec := NewRecordCodec(compression)

			rental := newRental(5, input)
			updatedAt := NewTimestamp(time.Now())
			rental.UpdatedAt = &updatedAt

			b, err := codec.Encode(rental)
			if err != nil {
				require.ErrorIs(t, err, ErrRecordTooLarge)
				return
			}

			require.LessOrEqual(t, len(b), MaxRecordSize)

			decoded, err := codec.Decode(b)
			require.NoError(t, err)
			require.Equal(t, rental, decoded)
		})
	}
}

func TestRecordCodec_CompressionOverheadIsRejected(t *testing.T) {
	// seven single byte fields and a two byte length prefix
	rental := Rental{RenterName: string(fixtures.RandomBytes(MaxRecordSize - 9))}
	require.Equal(t, MaxRecordSize, encodedSize(rental))

	_, err := NewRecordCodec(NewNoopCompression()).Encode(rental)
	require.NoError(t, err)

	_, err = NewRecordCodec(newTestZSTDCompression(t)).Encode(rental)
	require.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestRecordCodec_OversizedStoredBytesAreCorrupted(t *testing.T) {
	for _, compression := range getCompressions(t) {
		t.Run(compression.Name(), func(t *testing.T) {
			_, err := NewRecordCodec(compression).Decode(make([]byte, MaxRecordSize+1))
			require.ErrorIs(t, err, ErrCorruptedRecord)
		})
	}

	_, err := decodeRecord(make([]byte, MaxRecordSize+1))
	require.ErrorIs(t, err, ErrCorruptedRecord)
}

// largestValidInput returns an input with an incompressible renter name which
// is as long as validation allows.
func largestValidInput(t *testing.T) RentalInput {
	input := RentalInput{
		MotorcycleBrand: "Honda",
		DailyRate:       50,
		RentalDate:      "2024-01-01",
		RentalDays:      3,
	}

	for n := MaxRecordSize; n > 0; n-- {
		input.RenterName = string(fixtures.RandomBytes(n))
		if validate(input) == nil {
			return input
		}
	}

	t.Fatal("no valid input found")
	return RentalInput{}
}
