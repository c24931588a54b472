package rentals

import (
	"encoding/binary"

	"github.com/boreq/errors"
)

// MaxRecordSize is the upper bound of the uncompressed encoding of a single
// rental.
const MaxRecordSize = 4096

const recordCodecVersion = 1

const (
	updatedAtAbsent  = 0
	updatedAtPresent = 1
)

// RecordCodec converts rentals to the bytes stored in the rentals region.
//
// Layout:
//
//	version(1) | uvarint id | string brand | uvarint daily rate |
//	string date | string renter | uvarint days | flag(1) [updated at(8)]
//
// where string is a uvarint length followed by the bytes. The encoding is
// compressed afterwards. Both the encoding and the compressed bytes are
// limited to MaxRecordSize.
type RecordCodec struct {
	compression Compression
}

func NewRecordCodec(compression Compression) *RecordCodec {
	return &RecordCodec{compression: compression}
}

func (c *RecordCodec) Encode(rental Rental) ([]byte, error) {
	b, err := encodeRecord(rental)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding the record")
	}

	compressed, err := c.compression.Compress(b)
	if err != nil {
		return nil, errors.Wrap(err, "error compressing the record")
	}

	// compression can add framing overhead, the bound applies to the stored
	// bytes as well
	if len(compressed) > MaxRecordSize {
		return nil, ErrRecordTooLarge
	}

	return compressed, nil
}

func (c *RecordCodec) Decode(b []byte) (Rental, error) {
	if len(b) > MaxRecordSize {
		return Rental{}, errors.Wrap(ErrCorruptedRecord, "stored record too large")
	}

	decompressed, err := c.compression.Decompress(b)
	if err != nil {
		return Rental{}, errors.Wrap(ErrCorruptedRecord, err.Error())
	}

	rental, err := decodeRecord(decompressed)
	if err != nil {
		return Rental{}, errors.Wrap(err, "error decoding the record")
	}

	return rental, nil
}

func encodedSize(rental Rental) int {
	size := 1
	size += uvarintSize(rental.ID)
	size += stringSize(rental.MotorcycleBrand)
	size += uvarintSize(rental.DailyRate)
	size += stringSize(rental.RentalDate)
	size += stringSize(rental.RenterName)
	size += uvarintSize(rental.RentalDays)
	size += 1
	if rental.UpdatedAt != nil {
		size += 8
	}
	return size
}

func encodeRecord(rental Rental) ([]byte, error) {
	size := encodedSize(rental)
	if size > MaxRecordSize {
		return nil, ErrRecordTooLarge
	}

	b := make([]byte, 0, size)
	b = append(b, recordCodecVersion)
	b = binary.AppendUvarint(b, rental.ID)
	b = appendString(b, rental.MotorcycleBrand)
	b = binary.AppendUvarint(b, rental.DailyRate)
	b = appendString(b, rental.RentalDate)
	b = appendString(b, rental.RenterName)
	b = binary.AppendUvarint(b, rental.RentalDays)
	if rental.UpdatedAt != nil {
		b = append(b, updatedAtPresent)
		b = binary.BigEndian.AppendUint64(b, uint64(*rental.UpdatedAt))
	} else {
		b = append(b, updatedAtAbsent)
	}
	return b, nil
}

func decodeRecord(b []byte) (Rental, error) {
	if len(b) > MaxRecordSize {
		return Rental{}, errors.Wrap(ErrCorruptedRecord, "record too large")
	}

	d := recordDecoder{b: b}

	if version := d.readByte(); version != recordCodecVersion {
		return Rental{}, errors.Wrap(ErrCorruptedRecord, "unknown version")
	}

	var rental Rental
	rental.ID = d.readUvarint()
	rental.MotorcycleBrand = d.readString()
	rental.DailyRate = d.readUvarint()
	rental.RentalDate = d.readString()
	rental.RenterName = d.readString()
	rental.RentalDays = d.readUvarint()

	switch d.readByte() {
	case updatedAtAbsent:
	case updatedAtPresent:
		updatedAt := Timestamp(d.readUint64())
		rental.UpdatedAt = &updatedAt
	default:
		return Rental{}, errors.Wrap(ErrCorruptedRecord, "unknown updated at flag")
	}

	if d.err != nil {
		return Rental{}, d.err
	}

	if len(d.b) != 0 {
		return Rental{}, errors.Wrap(ErrCorruptedRecord, "trailing bytes")
	}

	return rental, nil
}

// recordDecoder consumes b and remembers the first error, all reads after an
// error return zero values.
type recordDecoder struct {
	b   []byte
	err error
}

func (d *recordDecoder) readByte() byte {
	if d.err != nil {
		return 0
	}
	if len(d.b) < 1 {
		d.err = errors.Wrap(ErrCorruptedRecord, "unexpected end of record")
		return 0
	}
	v := d.b[0]
	d.b = d.b[1:]
	return v
}

func (d *recordDecoder) readUint64() uint64 {
	if d.err != nil {
		return 0
	}
	if len(d.b) < 8 {
		d.err = errors.Wrap(ErrCorruptedRecord, "unexpected end of record")
		return 0
	}
	v := binary.BigEndian.Uint64(d.b)
	d.b = d.b[8:]
	return v
}

func (d *recordDecoder) readUvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.b)
	if n <= 0 {
		d.err = errors.Wrap(ErrCorruptedRecord, "invalid uvarint")
		return 0
	}
	d.b = d.b[n:]
	return v
}

func (d *recordDecoder) readString() string {
	length := d.readUvarint()
	if d.err != nil {
		return ""
	}
	if uint64(len(d.b)) < length {
		d.err = errors.Wrap(ErrCorruptedRecord, "string exceeds the record")
		return ""
	}
	v := string(d.b[:length])
	d.b = d.b[length:]
	return v
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func stringSize(s string) int {
	return uvarintSize(uint64(len(s))) + len(s)
}

func uvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
