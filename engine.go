package konl

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/wizenheimer/konlsearch/kvstore"
	"github.com/wizenheimer/konlsearch/striped"
	"github.com/wizenheimer/konlsearch/tokenizer"
)

// rootColumnFamily holds index registration rows, shared across every
// named Index opened from one Engine.
const rootColumnFamily = "root"

// Engine owns one on-disk store and hands out named Indexes. All Indexes
// opened from the same Engine share one striped.Locks set, per spec.md
// §5 and Design Note "Striped locks vs. single mutex."
type Engine struct {
	store    *kvstore.Store
	locks    *striped.Locks
	analyzer tokenizer.MorphAnalyzer
	logger   *slog.Logger

	mu      sync.Mutex
	indexes map[string]*Index
	closed  bool
}

// Open opens (creating if necessary) the store at path and returns an
// Engine over it.
func Open(path string, opts ...Option) (*Engine, error) {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	store, err := kvstore.Open(kvstore.Options{
		Path:             path,
		ReadOnly:         o.Mode == RO,
		SyncWrites:       o.SyncWrites,
		ValueLogFileSize: o.ValueLogFileSize,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		store:    store,
		locks:    striped.New(),
		analyzer: tokenizer.Default,
		logger:   o.Logger,
		indexes:  make(map[string]*Index),
	}, nil
}

// Index registers (if not already registered) and returns the named
// Index, creating its column families lazily on first write.
func (e *Engine) Index(name string) (*Index, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	if idx, ok := e.indexes[name]; ok {
		return idx, nil
	}

	if err := e.store.Update(func(b *kvstore.Batch) error {
		root := e.store.CF(rootColumnFamily)
		_, exists, err := b.Get(root, registrationKey(name))
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		return b.Set(root, registrationKey(name), []byte("1"))
	}); err != nil {
		return nil, fmt.Errorf("konl: register index %q: %w", name, err)
	}

	idx, err := openIndex(e.store, name, e.locks, e.analyzer, e.logger)
	if err != nil {
		return nil, err
	}

	e.indexes[name] = idx
	return idx, nil
}

// ListIndexes returns every registered index name.
func (e *Engine) ListIndexes() ([]string, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	var names []string
	err := e.store.Read(func(v *kvstore.View) error {
		root := e.store.CF(rootColumnFamily)
		it := v.Iterator(root, []byte(registrationPrefix))
		defer it.Close()

		for it.Valid() {
			names = append(names, string(it.Key()[len(registrationPrefix):]))
			it.Next()
		}
		return nil
	})
	return names, err
}

// Close closes every Index opened from this Engine and releases the
// underlying store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	for _, idx := range e.indexes {
		_ = idx.Close()
	}
	e.closed = true

	return e.store.Close()
}

// Destroy removes the store at path entirely. The caller must not hold
// an open Engine over path when calling this.
func Destroy(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("konl: destroy %q: %w", path, err)
	}
	return nil
}
