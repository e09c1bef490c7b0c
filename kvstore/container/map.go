package container

import (
	"fmt"

	"github.com/wizenheimer/konlsearch/codec"
	"github.com/wizenheimer/konlsearch/kvstore"
)

func mapKey(prefix, key string) []byte {
	return []byte(fmt.Sprintf("%s:dict:%s", prefix, key))
}

func mapPrefix(prefix string) []byte {
	return []byte(fmt.Sprintf("%s:dict:", prefix))
}

func stripMapPrefix(prefix string, key []byte) string {
	return string(key[len(mapPrefix(prefix)):])
}

// MapWriter applies map mutations to a column family immediately, one
// kvstore.Batch per call.
type MapWriter struct {
	store  *kvstore.Store
	cf     kvstore.ColumnFamily
	prefix string
}

// NewMapWriter returns a MapWriter over cf's prefix namespace.
func NewMapWriter(store *kvstore.Store, cf kvstore.ColumnFamily, prefix string) *MapWriter {
	return &MapWriter{store: store, cf: cf, prefix: prefix}
}

// Set stores key=value, a no-op if key already has a value (matching
// original_source/konlsearch/dict.py's __setitem__, which never
// overwrites an existing entry).
func (m *MapWriter) Set(key, value string) error {
	return m.store.Update(func(b *kvstore.Batch) error {
		return NewMapBatchWriter(b, m.cf, m.prefix).Set(key, value)
	})
}

// Delete removes key, a no-op if absent.
func (m *MapWriter) Delete(key string) error {
	return m.store.Update(func(b *kvstore.Batch) error {
		return NewMapBatchWriter(b, m.cf, m.prefix).Delete(key)
	})
}

// Get returns the value stored for key.
func (m *MapWriter) Get(key string) (string, bool, error) {
	var value string
	var ok bool
	err := m.store.Read(func(v *kvstore.View) error {
		var err error
		value, ok, err = NewMapView(v, m.cf, m.prefix).Get(key)
		return err
	})
	return value, ok, err
}

// Contains reports whether key has a value.
func (m *MapWriter) Contains(key string) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Items returns every key/value pair.
func (m *MapWriter) Items() (map[string]string, error) {
	var items map[string]string
	err := m.store.Read(func(v *kvstore.View) error {
		var err error
		items, err = NewMapView(v, m.cf, m.prefix).Items()
		return err
	})
	return items, err
}

// MapBatchWriter buffers map mutations into an already-open kvstore.Batch.
type MapBatchWriter struct {
	batch  *kvstore.Batch
	cf     kvstore.ColumnFamily
	prefix string
}

// NewMapBatchWriter returns a MapBatchWriter over cf's prefix namespace,
// buffering into batch.
func NewMapBatchWriter(batch *kvstore.Batch, cf kvstore.ColumnFamily, prefix string) *MapBatchWriter {
	return &MapBatchWriter{batch: batch, cf: cf, prefix: prefix}
}

// Set stores key=value if key has no value yet.
func (m *MapBatchWriter) Set(key, value string) error {
	k := mapKey(m.prefix, key)

	_, exists, err := m.batch.Get(m.cf, k)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return m.batch.Set(m.cf, k, []byte(value))
}

// Get returns the value stored for key within this batch.
func (m *MapBatchWriter) Get(key string) (string, bool, error) {
	v, ok, err := m.batch.Get(m.cf, mapKey(m.prefix, key))
	return string(v), ok, err
}

// Contains reports whether key has a value within this batch.
func (m *MapBatchWriter) Contains(key string) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Delete removes key, a no-op if absent.
func (m *MapBatchWriter) Delete(key string) error {
	k := mapKey(m.prefix, key)

	_, exists, err := m.batch.Get(m.cf, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	return m.batch.Delete(m.cf, k)
}

// MapView is a read-only view over a map, backed by one iterator/snapshot.
type MapView struct {
	reader interface {
		Get(cf kvstore.ColumnFamily, k []byte) ([]byte, bool, error)
		Iterator(cf kvstore.ColumnFamily, prefix []byte) *kvstore.Iterator
	}
	cf     kvstore.ColumnFamily
	prefix string
}

// NewMapView returns a MapView over cf's prefix namespace backed by v.
func NewMapView(v *kvstore.View, cf kvstore.ColumnFamily, prefix string) *MapView {
	return &MapView{reader: v, cf: cf, prefix: prefix}
}

// Get returns the value stored for key as of this view's snapshot.
func (m *MapView) Get(key string) (string, bool, error) {
	v, ok, err := m.reader.Get(m.cf, mapKey(m.prefix, key))
	return string(v), ok, err
}

// Contains reports whether key has a value as of this view's snapshot.
func (m *MapView) Contains(key string) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Items returns every key/value pair.
func (m *MapView) Items() (map[string]string, error) {
	it := m.reader.Iterator(m.cf, mapPrefix(m.prefix))
	defer it.Close()

	items := make(map[string]string)
	for it.Valid() {
		val, err := it.Value()
		if err != nil {
			return nil, err
		}
		items[stripMapPrefix(m.prefix, it.Key())] = string(val)
		it.Next()
	}
	return items, nil
}
