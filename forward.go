// Package konl implements an embedded full-text search engine for short
// Korean/Latin documents: a forward index, inverted index and Korean
// jamo suggestion trie layered over kvstore's column families, composed
// into atomic write batches and guarded by per-index striped locks.
package konl

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/wizenheimer/konlsearch/codec"
	"github.com/wizenheimer/konlsearch/kvstore"
	"github.com/wizenheimer/konlsearch/kvstore/container"
	"github.com/wizenheimer/konlsearch/striped"
	"github.com/wizenheimer/konlsearch/tokenizer"
)

// Document is one row of the forward index: an allocated id paired with
// the exact text that was indexed.
type Document struct {
	ID   uint64
	Text string
}

// Index is one named full-text index: a forward index, its inverted
// postings, and its suggestion trie, all sharing one kvstore.Store and
// one entry in the engine's striped lock set.
type Index struct {
	store    *kvstore.Store
	name     string
	cf       kvstore.ColumnFamily
	inverted *invertedIndex
	trie     *trie
	log      *searchLog
	locks    *striped.Locks
	analyzer tokenizer.MorphAnalyzer
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
}

func openIndex(store *kvstore.Store, name string, locks *striped.Locks, analyzer tokenizer.MorphAnalyzer, logger *slog.Logger) (*Index, error) {
	cf := store.CF(name)
	invCF := store.CF(name + "_inverted_index")
	trieCF := store.CF(name + "_trie")
	logCF := store.CF(name + "_log")

	idx := &Index{
		store:    store,
		name:     name,
		cf:       cf,
		locks:    locks,
		analyzer: analyzer,
		logger:   logger,
	}
	idx.trie = newTrie(store, trieCF)
	idx.inverted = newInvertedIndex(store, invCF, idx.trie)

	log, err := openSearchLog(store, logCF)
	if err != nil {
		return nil, err
	}
	idx.log = log

	return idx, nil
}

// Index tokenizes and stores doc, returning its id. If doc's 128-bit
// hash already maps to a live document, Index returns that document's
// id and created=false (spec.md §7's Conflict), leaving the store
// untouched.
func (idx *Index) Index(doc string) (id uint64, created bool, err error) {
	mu := idx.locks.Get(idx.name)
	mu.Lock()
	defer mu.Unlock()

	if err := idx.checkOpen(); err != nil {
		return 0, false, err
	}

	h := hash128(doc)

	err = idx.store.Update(func(b *kvstore.Batch) error {
		hashes := container.NewMapBatchWriter(b, idx.cf, hashMapPrefix(idx.name))

		if raw, ok, err := hashes.Get(hashHex(h)); err != nil {
			return err
		} else if ok {
			existing, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("konl: corrupt hash entry: %w", err)
			}
			id, created = existing, false
			return nil
		}

		last, err := idx.readLastDocumentID(b)
		if err != nil {
			return err
		}
		newID := last + 1

		tokens := tokenizer.Tokenize(idx.analyzer, doc)

		if err := idx.writeDocumentRows(b, newID, doc, tokens); err != nil {
			return err
		}
		if err := hashes.Set(hashHex(h), strconv.FormatUint(newID, 10)); err != nil {
			return err
		}
		if err := b.Set(idx.cf, lastDocumentIDKey(), codec.PutUint64(newID)); err != nil {
			return err
		}
		if err := idx.bumpLength(b, 1); err != nil {
			return err
		}

		id, created = newID, true
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	if idx.logger != nil {
		idx.logger.Info("indexed document", slog.String("index", idx.name), slog.Uint64("id", id), slog.Bool("created", created))
	}
	return id, created, nil
}

// Delete removes id from the index. It fails with ErrNotFound if id is
// not currently indexed.
func (idx *Index) Delete(id uint64) error {
	mu := idx.locks.Get(idx.name)
	mu.Lock()
	defer mu.Unlock()

	if err := idx.checkOpen(); err != nil {
		return err
	}

	return idx.store.Update(func(b *kvstore.Batch) error {
		doc, tokens, ok, err := idx.readDocumentAndTokens(b, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		h := hash128(doc)
		hashes := container.NewMapBatchWriter(b, idx.cf, hashMapPrefix(idx.name))
		if err := hashes.Delete(hashHex(h)); err != nil {
			return err
		}
		if err := idx.removeDocumentRows(b, id, tokens); err != nil {
			return err
		}
		return idx.bumpLength(b, -1)
	})
}

// Get returns the document stored for id.
func (idx *Index) Get(id uint64) (Document, bool, error) {
	if err := idx.checkOpen(); err != nil {
		return Document{}, false, err
	}

	var doc Document
	var found bool
	err := idx.store.Read(func(v *kvstore.View) error {
		raw, ok, rerr := v.Get(idx.cf, documentKey(idx.name, id))
		if rerr != nil {
			return rerr
		}
		if !ok {
			return nil
		}
		doc = Document{ID: id, Text: string(raw)}
		found = true
		return nil
	})
	if err != nil {
		return Document{}, false, err
	}
	return doc, found, nil
}

// GetAll returns every currently-indexed document, in ascending id order.
func (idx *Index) GetAll() ([]Document, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}

	var docs []Document
	err := idx.store.Read(func(v *kvstore.View) error {
		it := v.Iterator(idx.cf, documentPrefix(idx.name))
		defer it.Close()

		for it.Valid() {
			id, ok := parseDocumentIDKey(idx.name, it.Key())
			if !ok {
				it.Next()
				continue
			}
			val, err := it.Value()
			if err != nil {
				return err
			}
			docs = append(docs, Document{ID: id, Text: string(val)})
			it.Next()
		}
		return nil
	})
	return docs, err
}

// GetRange returns every document with id in [start, end), ascending.
func (idx *Index) GetRange(start, end uint64) ([]Document, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}

	var docs []Document
	err := idx.store.Read(func(v *kvstore.View) error {
		it := v.Iterator(idx.cf, documentPrefix(idx.name))
		defer it.Close()

		it.Seek(documentKey(idx.name, start))

		for it.Valid() {
			id, ok := parseDocumentIDKey(idx.name, it.Key())
			if !ok {
				it.Next()
				continue
			}
			if id >= end {
				break
			}
			val, err := it.Value()
			if err != nil {
				return err
			}
			docs = append(docs, Document{ID: id, Text: string(val)})
			it.Next()
		}
		return nil
	})
	return docs, err
}

// GetMulti returns the documents for ids that currently exist, in the
// order ids were given; missing ids are dropped.
func (idx *Index) GetMulti(ids []uint64) ([]Document, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}

	var docs []Document
	err := idx.store.Read(func(v *kvstore.View) error {
		for _, id := range ids {
			raw, ok, err := v.Get(idx.cf, documentKey(idx.name, id))
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			docs = append(docs, Document{ID: id, Text: string(raw)})
		}
		return nil
	})
	return docs, err
}

// GetTokens returns the token set stored for id.
func (idx *Index) GetTokens(id uint64) ([]string, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}

	var tokens []string
	err := idx.store.Read(func(v *kvstore.View) error {
		raw, ok, err := v.Get(idx.cf, tokensKey(id))
		if err != nil || !ok {
			return err
		}
		set, err := codec.StringSet(raw)
		if err != nil {
			return err
		}
		for t := range set {
			tokens = append(tokens, t)
		}
		return nil
	})
	return tokens, err
}

// Len returns the number of currently-indexed documents.
func (idx *Index) Len() (uint64, error) {
	if err := idx.checkOpen(); err != nil {
		return 0, err
	}

	var n uint64
	err := idx.store.Read(func(v *kvstore.View) error {
		raw, ok, err := v.Get(idx.cf, forwardLengthKey(idx.name))
		if err != nil || !ok {
			return err
		}
		n, err = codec.Uint64(raw)
		return err
	})
	return n, err
}

// Close marks the index unusable for further calls. The underlying
// store is owned by the Engine that opened this Index and is released
// by Engine.Close, not here.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}

func (idx *Index) checkOpen() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return ErrClosed
	}
	return nil
}

func (idx *Index) readLastDocumentID(b *kvstore.Batch) (uint64, error) {
	raw, ok, err := b.Get(idx.cf, lastDocumentIDKey())
	if err != nil || !ok {
		return 0, err
	}
	return codec.Uint64(raw)
}

func (idx *Index) bumpLength(b *kvstore.Batch, delta int64) error {
	raw, ok, err := b.Get(idx.cf, forwardLengthKey(idx.name))
	if err != nil {
		return err
	}
	var cur int64
	if ok {
		n, err := codec.Uint64(raw)
		if err != nil {
			return err
		}
		cur = int64(n)
	}
	next := cur + delta
	if next < 0 {
		next = 0
	}
	return b.Set(idx.cf, forwardLengthKey(idx.name), codec.PutUint64(uint64(next)))
}

// readDocumentAndTokens reads id's document text and token set within an
// already-open batch, so Delete sees its own prior writes.
func (idx *Index) readDocumentAndTokens(b *kvstore.Batch, id uint64) (string, map[string]struct{}, bool, error) {
	raw, ok, err := b.Get(idx.cf, documentKey(idx.name, id))
	if err != nil || !ok {
		return "", nil, false, err
	}

	tokens := map[string]struct{}{}
	if tokRaw, ok, err := b.Get(idx.cf, tokensKey(id)); err != nil {
		return "", nil, false, err
	} else if ok {
		tokens, err = codec.StringSet(tokRaw)
		if err != nil {
			return "", nil, false, err
		}
	}

	return string(raw), tokens, true, nil
}

// writeDocumentRows stores the document's text, token set, and inverted
// postings/trie entries. It does not touch last_document_id or the
// length counter; direct Index and BatchWriter adjust those themselves,
// since the batched path accumulates the length delta and applies it
// once at Commit (spec.md §4.6).
func (idx *Index) writeDocumentRows(b *kvstore.Batch, id uint64, doc string, tokens map[string]struct{}) error {
	if err := b.Set(idx.cf, documentKey(idx.name, id), []byte(doc)); err != nil {
		return err
	}
	if err := b.Set(idx.cf, tokensKey(id), codec.PutStringSet(tokens)); err != nil {
		return err
	}
	return idx.inverted.Index(b, id, tokens)
}

func (idx *Index) removeDocumentRows(b *kvstore.Batch, id uint64, tokens map[string]struct{}) error {
	if err := idx.inverted.Delete(b, id, tokens); err != nil {
		return err
	}
	if err := b.Delete(idx.cf, tokensKey(id)); err != nil {
		return err
	}
	return b.Delete(idx.cf, documentKey(idx.name, id))
}
