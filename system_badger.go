package rentals

import (
	"github.com/boreq/errors"
	"github.com/dgraph-io/badger/v4"
)

type BadgerStorage struct {
	db *badger.DB
}

func NewBadgerStorage(dir string, fn func(*badger.Options)) (*BadgerStorage, error) {
	opt := badger.
		DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR)

	if fn != nil {
		fn(&opt)
	}

	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrap(err, "error opening the database")
	}

	return &BadgerStorage{db: db}, nil
}

func (b *BadgerStorage) Update(fn func(updater Updater) error) error {
	return b.db.Update(func(tx *badger.Txn) error {
		return fn(NewTxBadgerUpdater(tx))
	})
}

func (b *BadgerStorage) Read(fn func(reader Reader) error) error {
	return b.db.View(func(tx *badger.Txn) error {
		return fn(NewTxBadgerReader(tx))
	})
}

func (b *BadgerStorage) Close() error {
	return b.db.Close()
}

func (b *BadgerStorage) Sync() error {
	return b.db.Sync()
}

type TxBadgerUpdater struct {
	tx *badger.Txn
}

func NewTxBadgerUpdater(tx *badger.Txn) *TxBadgerUpdater {
	return &TxBadgerUpdater{tx: tx}
}

func (t *TxBadgerUpdater) Region(id RegionID) (RegionUpdater, error) {
	return &badgerRegion{tx: t.tx, id: id}, nil
}

type TxBadgerReader struct {
	tx *badger.Txn
}

func NewTxBadgerReader(tx *badger.Txn) *TxBadgerReader {
	return &TxBadgerReader{tx: tx}
}

func (t *TxBadgerReader) Region(id RegionID) (RegionReader, error) {
	return &badgerRegion{tx: t.tx, id: id}, nil
}

// badgerRegion keeps all regions in a single keyspace, every key is prefixed
// with the region id.
type badgerRegion struct {
	tx *badger.Txn
	id RegionID
}

func (r *badgerRegion) Get(key []byte) ([]byte, error) {
	item, err := r.tx.Get(r.key(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "error calling get")
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error calling value copy")
	}

	return value, nil
}

func (r *badgerRegion) Put(key, value []byte) error {
	if err := r.tx.Set(r.key(key), value); err != nil {
		return errors.Wrap(err, "error calling set")
	}

	return nil
}

func (r *badgerRegion) Delete(key []byte) error {
	if err := r.tx.Delete(r.key(key)); err != nil {
		return errors.Wrap(err, "error calling delete")
	}

	return nil
}

func (r *badgerRegion) key(key []byte) []byte {
	return append([]byte{byte(r.id)}, key...)
}
