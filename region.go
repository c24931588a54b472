package rentals

import "encoding/binary"

// RegionID identifies an independently addressable durable region. The
// values are persisted implicitly by every backend and must never be reused
// for a different purpose.
type RegionID uint8

const (
	CounterRegion RegionID = 0
	RentalsRegion RegionID = 1
)

// Storage is a single durable pool split into regions. Update runs fn in a
// writable transaction which is committed only if fn returns nil.
type Storage interface {
	Update(fn func(updater Updater) error) error
	Read(fn func(reader Reader) error) error
	Close() error
}

type Updater interface {
	Region(id RegionID) (RegionUpdater, error)
}

type Reader interface {
	Region(id RegionID) (RegionReader, error)
}

// RegionReader returns nil if the key doesn't exist. Returned slices are
// owned by the caller.
type RegionReader interface {
	Get(key []byte) ([]byte, error)
}

type RegionUpdater interface {
	RegionReader
	Put(key, value []byte) error
	Delete(key []byte) error
}

// marshalID encodes ids as big endian so that the byte order of keys follows
// the numeric order of ids.
func marshalID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func marshalScalar(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func unmarshalScalar(b []byte) (uint64, bool) {
	if len(b) != 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}
