// Package kvstore layers a column-family abstraction, atomic write
// batches, and prefix iteration on top of a single badger.DB, mirroring
// the RocksDB-style primitives (ordered byte keys, prefix seeks, write
// batches, atomic multi-family writes, column family create/open,
// snapshots) the rest of this module is built against. Badger has no
// native column-family concept; ColumnFamily is just a byte prefix
// applied to every key, so "creating" one costs nothing and opening a
// previously-used name always succeeds, exactly the "create missing
// column families lazily" behavior the engine facade needs.
package kvstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps a badger.DB and hands out ColumnFamily handles.
type Store struct {
	db *badger.DB
}

// ColumnFamily is a namespace within the shared badger keyspace,
// identified by a byte-string prefix: the family's name followed by a
// NUL byte.
type ColumnFamily struct {
	name   string
	prefix []byte
}

// Options configures Open.
type Options struct {
	Path             string
	ReadOnly         bool
	SyncWrites       bool
	ValueLogFileSize int64
}

// Open opens (creating if necessary) the badger store at opts.Path.
func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	bopts.ReadOnly = opts.ReadOnly
	bopts.SyncWrites = opts.SyncWrites
	bopts.Logger = nil

	if opts.ValueLogFileSize > 0 {
		bopts.ValueLogFileSize = opts.ValueLogFileSize
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %q: %w", opts.Path, err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying badger.DB. Every Batch and View opened
// against this Store must already be committed/discarded/closed.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("kvstore: close: %w", err)
	}
	return nil
}

// CF returns the column family named name, creating it lazily on first
// write. Calling CF with the same name twice yields equal handles.
func (s *Store) CF(name string) ColumnFamily {
	return ColumnFamily{name: name, prefix: append([]byte(name), 0x00)}
}

// Name returns the column family's logical name.
func (cf ColumnFamily) Name() string { return cf.name }

func (cf ColumnFamily) key(k []byte) []byte {
	buf := make([]byte, 0, len(cf.prefix)+len(k))
	buf = append(buf, cf.prefix...)
	buf = append(buf, k...)
	return buf
}

func (cf ColumnFamily) strip(prefixed []byte) []byte {
	return prefixed[len(cf.prefix):]
}

// Batch opens a new read-write transaction spanning every column family
// of this Store: the write-batch unit the rest of the module composes
// forward/inverted/trie mutations into.
func (s *Store) Batch() *Batch {
	return &Batch{txn: s.db.NewTransaction(true)}
}

// View opens a new read-only transaction: one consistent snapshot reused
// across every lookup a caller issues against it, exactly what boolean
// search across multiple token postings needs.
func (s *Store) View() *View {
	return &View{txn: s.db.NewTransaction(false)}
}

// Update runs fn inside a fresh Batch and commits it if fn returns nil,
// discarding it otherwise. This is the common case; callers that need to
// inspect state across multiple component writers before deciding to
// commit use Batch directly.
func (s *Store) Update(fn func(b *Batch) error) error {
	b := s.Batch()
	if err := fn(b); err != nil {
		b.Discard()
		return err
	}
	return b.Commit()
}

// Read runs fn inside a fresh View, always discarding it afterward.
func (s *Store) Read(fn func(v *View) error) error {
	v := s.View()
	defer v.Discard()
	return fn(v)
}
