package kvstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Batch is an atomic group of reads and writes across any number of
// column families, backed by one badger transaction. A document's
// index() call opens exactly one Batch and writes forward, inverted,
// and trie rows into it before calling Commit; readers see either all
// of those effects or none of them.
type Batch struct {
	txn *badger.Txn
}

// Get reads k from cf within this batch's transaction.
func (b *Batch) Get(cf ColumnFamily, k []byte) ([]byte, bool, error) {
	item, err := b.txn.Get(cf.key(k))
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: get: %w", err)
	}

	var out []byte
	err = item.Value(func(val []byte) error {
		out = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: get: %w", err)
	}

	return out, true, nil
}

// Set writes k=v into cf within this batch.
func (b *Batch) Set(cf ColumnFamily, k, v []byte) error {
	if err := b.txn.Set(cf.key(k), v); err != nil {
		return fmt.Errorf("kvstore: set: %w", err)
	}
	return nil
}

// Delete removes k from cf within this batch. Deleting a missing key is
// not an error.
func (b *Batch) Delete(cf ColumnFamily, k []byte) error {
	if err := b.txn.Delete(cf.key(k)); err != nil {
		return fmt.Errorf("kvstore: delete: %w", err)
	}
	return nil
}

// Iterator returns a prefix iterator over cf seeked to prefix, reading
// through this batch's transaction (so it sees this batch's own
// uncommitted writes, matching badger's txn semantics).
func (b *Batch) Iterator(cf ColumnFamily, prefix []byte) *Iterator {
	return newIterator(b.txn, cf, prefix)
}

// Commit makes every buffered mutation durable and atomic. The Batch
// must not be used afterward.
func (b *Batch) Commit() error {
	if err := b.txn.Commit(); err != nil {
		return fmt.Errorf("kvstore: commit: %w", err)
	}
	return nil
}

// Discard abandons every buffered mutation; the store is left untouched.
func (b *Batch) Discard() {
	b.txn.Discard()
}
