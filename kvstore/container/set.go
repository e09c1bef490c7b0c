// Package container implements the prefixed Set/Map/Counter primitives
// spec.md §4.1 describes: value-level abstractions over a column family
// and a string prefix. Set and Map are each available as a direct Writer
// (mutations applied immediately), a BatchWriter (mutations buffered into
// an already-open kvstore.Batch), or a read-only View (backed by one
// iterator/snapshot); Counter is a single type that applies each call in
// its own transaction. Every key is colon-segmented ASCII, matching
// spec.md §3's data model and original_source/konlsearch/set.py,
// dict.py, counter.py.
package container

import (
	"fmt"

	"github.com/wizenheimer/konlsearch/codec"
	"github.com/wizenheimer/konlsearch/kvstore"
)

func setKey(prefix, member string) []byte {
	return []byte(fmt.Sprintf("%s:set:%s", prefix, member))
}

func setPrefix(prefix string) []byte {
	return []byte(fmt.Sprintf("%s:set:", prefix))
}

func lenKey(prefix string) []byte {
	return []byte(fmt.Sprintf("%s:__len__:dict", prefix))
}

func stripSetPrefix(prefix string, key []byte) string {
	return string(key[len(setPrefix(prefix)):])
}

// SetWriter applies set mutations to a column family immediately,
// one kvstore.Batch per call.
type SetWriter struct {
	store  *kvstore.Store
	cf     kvstore.ColumnFamily
	prefix string
}

// NewSetWriter returns a SetWriter over cf's prefix namespace.
func NewSetWriter(store *kvstore.Store, cf kvstore.ColumnFamily, prefix string) *SetWriter {
	return &SetWriter{store: store, cf: cf, prefix: prefix}
}

// Add inserts k, a no-op if k is already a member.
func (s *SetWriter) Add(k string) error {
	return s.store.Update(func(b *kvstore.Batch) error {
		return NewSetBatchWriter(b, s.cf, s.prefix).Add(k)
	})
}

// Remove deletes k, a no-op if k is not a member.
func (s *SetWriter) Remove(k string) error {
	return s.store.Update(func(b *kvstore.Batch) error {
		return NewSetBatchWriter(b, s.cf, s.prefix).Remove(k)
	})
}

// Contains reports whether k is a member.
func (s *SetWriter) Contains(k string) (bool, error) {
	var ok bool
	err := s.store.Read(func(v *kvstore.View) error {
		var err error
		ok, err = NewSetView(v, s.cf, s.prefix).Contains(k)
		return err
	})
	return ok, err
}

// Len returns the maintained member count.
func (s *SetWriter) Len() (uint64, error) {
	var n uint64
	err := s.store.Read(func(v *kvstore.View) error {
		var err error
		n, err = NewSetView(v, s.cf, s.prefix).Len()
		return err
	})
	return n, err
}

// Items returns every member, in ascending key order.
func (s *SetWriter) Items() ([]string, error) {
	var items []string
	err := s.store.Read(func(v *kvstore.View) error {
		var err error
		items, err = NewSetView(v, s.cf, s.prefix).Items()
		return err
	})
	return items, err
}

// SetBatchWriter buffers set mutations into an already-open kvstore.Batch
// so they commit atomically alongside other writers sharing that batch.
type SetBatchWriter struct {
	batch  *kvstore.Batch
	cf     kvstore.ColumnFamily
	prefix string
}

// NewSetBatchWriter returns a SetBatchWriter over cf's prefix namespace,
// buffering into batch.
func NewSetBatchWriter(batch *kvstore.Batch, cf kvstore.ColumnFamily, prefix string) *SetBatchWriter {
	return &SetBatchWriter{batch: batch, cf: cf, prefix: prefix}
}

// Add inserts k into the batch, bumping the companion length counter.
func (s *SetBatchWriter) Add(k string) error {
	key := setKey(s.prefix, k)

	_, exists, err := s.batch.Get(s.cf, key)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := s.batch.Set(s.cf, key, codec.Present); err != nil {
		return err
	}

	return s.bumpLen(1)
}

// Remove deletes k from the batch, decrementing the companion length
// counter; a no-op if k is not a member.
func (s *SetBatchWriter) Remove(k string) error {
	key := setKey(s.prefix, k)

	_, exists, err := s.batch.Get(s.cf, key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	if err := s.batch.Delete(s.cf, key); err != nil {
		return err
	}

	return s.bumpLen(-1)
}

// Len returns the companion member count maintained within this batch.
func (s *SetBatchWriter) Len() (uint64, error) {
	return s.len()
}

func (s *SetBatchWriter) bumpLen(delta int64) error {
	n, err := s.len()
	if err != nil {
		return err
	}

	next := int64(n) + delta
	if next < 0 {
		next = 0
	}

	return s.batch.Set(s.cf, lenKey(s.prefix), codec.PutUint64(uint64(next)))
}

func (s *SetBatchWriter) len() (uint64, error) {
	v, ok, err := s.batch.Get(s.cf, lenKey(s.prefix))
	if err != nil || !ok {
		return 0, err
	}
	return codec.Uint64(v)
}

// SetView is a read-only view over a set, backed by one iterator/snapshot.
type SetView struct {
	reader interface {
		Get(cf kvstore.ColumnFamily, k []byte) ([]byte, bool, error)
		Iterator(cf kvstore.ColumnFamily, prefix []byte) *kvstore.Iterator
	}
	cf     kvstore.ColumnFamily
	prefix string
}

// NewSetView returns a SetView over cf's prefix namespace backed by v.
func NewSetView(v *kvstore.View, cf kvstore.ColumnFamily, prefix string) *SetView {
	return &SetView{reader: v, cf: cf, prefix: prefix}
}

// Contains reports whether k is a member as of this view's snapshot.
func (s *SetView) Contains(k string) (bool, error) {
	_, ok, err := s.reader.Get(s.cf, setKey(s.prefix, k))
	return ok, err
}

// Len returns the maintained member count as of this view's snapshot.
func (s *SetView) Len() (uint64, error) {
	v, ok, err := s.reader.Get(s.cf, lenKey(s.prefix))
	if err != nil || !ok {
		return 0, err
	}
	return codec.Uint64(v)
}

// Items returns every member, in ascending key order.
func (s *SetView) Items() ([]string, error) {
	it := s.reader.Iterator(s.cf, setPrefix(s.prefix))
	defer it.Close()

	var items []string
	for it.Valid() {
		items = append(items, stripSetPrefix(s.prefix, it.Key()))
		it.Next()
	}
	return items, nil
}
