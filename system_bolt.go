package rentals

import (
	"fmt"
	"os"
	"path"

	"github.com/boreq/errors"
	"go.etcd.io/bbolt"
)

type BoltStorage struct {
	db *bbolt.DB
}

func NewBoltStorage(dir string, options *bbolt.Options) (*BoltStorage, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "error creating the directory")
	}

	f := path.Join(dir, "rentals.bolt")
	db, err := bbolt.Open(f, 0600, options)
	if err != nil {
		return nil, errors.Wrap(err, "error opening the database")
	}

	return &BoltStorage{db: db}, nil
}

func (b *BoltStorage) Update(fn func(updater Updater) error) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return fn(NewTxBoltUpdater(tx))
	})
}

func (b *BoltStorage) Read(fn func(reader Reader) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		return fn(NewTxBoltReader(tx))
	})
}

func (b *BoltStorage) Close() error {
	return b.db.Close()
}

func (b *BoltStorage) Sync() error {
	return b.db.Sync()
}

type TxBoltUpdater struct {
	tx *bbolt.Tx
}

func NewTxBoltUpdater(tx *bbolt.Tx) *TxBoltUpdater {
	return &TxBoltUpdater{tx: tx}
}

func (t *TxBoltUpdater) Region(id RegionID) (RegionUpdater, error) {
	bucket, err := t.tx.CreateBucketIfNotExists(boltBucketName(id))
	if err != nil {
		return nil, errors.Wrap(err, "error creating the bucket")
	}

	return &boltRegion{bucket: bucket}, nil
}

type TxBoltReader struct {
	tx *bbolt.Tx
}

func NewTxBoltReader(tx *bbolt.Tx) *TxBoltReader {
	return &TxBoltReader{tx: tx}
}

// Region returns an empty region if the bucket wasn't created yet.
func (t *TxBoltReader) Region(id RegionID) (RegionReader, error) {
	return &boltRegion{bucket: t.tx.Bucket(boltBucketName(id))}, nil
}

type boltRegion struct {
	bucket *bbolt.Bucket
}

func (r *boltRegion) Get(key []byte) ([]byte, error) {
	if r.bucket == nil {
		return nil, nil
	}

	value := r.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	// bolt values are only valid for the lifetime of the transaction
	return append([]byte(nil), value...), nil
}

func (r *boltRegion) Put(key, value []byte) error {
	if err := r.bucket.Put(key, value); err != nil {
		return errors.Wrap(err, "error calling put")
	}

	return nil
}

func (r *boltRegion) Delete(key []byte) error {
	if err := r.bucket.Delete(key); err != nil {
		return errors.Wrap(err, "error calling delete")
	}

	return nil
}

func boltBucketName(id RegionID) []byte {
	return []byte(fmt.Sprintf("region-%d", id))
}
