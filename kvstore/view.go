package kvstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// View is a read-only snapshot: every Get/Iterator issued against one
// View sees the same logical point in time, regardless of writes
// committed by other transactions afterward.
type View struct {
	txn *badger.Txn
}

// Get reads k from cf as of this view's snapshot.
func (v *View) Get(cf ColumnFamily, k []byte) ([]byte, bool, error) {
	item, err := v.txn.Get(cf.key(k))
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

// Iterator returns a prefix iterator over cf seeked to prefix, reading
// through this view's snapshot.
func (v *View) Iterator(cf ColumnFamily, prefix []byte) *Iterator {
	return newIterator(v.txn, cf, prefix)
}

// Discard releases the snapshot. Every Iterator obtained from this View
// must be closed first.
func (v *View) Discard() {
	v.txn.Discard()
}
