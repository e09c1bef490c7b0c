package kvstore

import "github.com/dgraph-io/badger/v4"

// txn is the subset of *badger.Txn an Iterator needs; both *Batch and
// *View hand out iterators backed by their own transaction.
type txn interface {
	NewIterator(opts badger.IteratorOptions) *badger.Iterator
}

// Iterator walks every key in a column family that starts with a given
// prefix, in ascending byte order, hiding the CF prefix from callers so
// they work with the same unprefixed keys they wrote.
type Iterator struct {
	it     *badger.Iterator
	cf     ColumnFamily
	prefix []byte
}

func newIterator(t txn, cf ColumnFamily, prefix []byte) *Iterator {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = cf.key(prefix)
	it := t.NewIterator(opts)
	it.Seek(opts.Prefix)

	return &Iterator{it: it, cf: cf, prefix: prefix}
}

// Valid reports whether the iterator is positioned on a key with the
// requested prefix.
func (it *Iterator) Valid() bool {
	return it.it.ValidForPrefix(it.cf.key(it.prefix))
}

// Key returns the current key with the column family prefix stripped.
func (it *Iterator) Key() []byte {
	return it.cf.strip(it.it.Item().KeyCopy(nil))
}

// Value returns the current value.
func (it *Iterator) Value() ([]byte, error) {
	return it.it.Item().ValueCopy(nil)
}

// Next advances the iterator.
func (it *Iterator) Next() {
	it.it.Next()
}

// Seek repositions the iterator to the first key within the original
// prefix that is >= key, letting a caller resume a prefix scan partway
// through its keyspace (GetRange's half-open start bound).
func (it *Iterator) Seek(key []byte) {
	it.it.Seek(it.cf.key(key))
}

// Close releases the iterator. Must be called before the owning
// Batch/View is committed/discarded.
func (it *Iterator) Close() {
	it.it.Close()
}
