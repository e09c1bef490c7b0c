package konl

import (
	"fmt"
	"strconv"

	"github.com/wizenheimer/konlsearch/codec"
	"github.com/wizenheimer/konlsearch/kvstore"
	"github.com/wizenheimer/konlsearch/kvstore/container"
	"github.com/wizenheimer/konlsearch/tokenizer"
)

// BatchWriter buffers many Index/Delete calls into one atomic write
// batch, tracking shadow state so intra-batch dedup and idempotent
// deletes behave as if each call already committed, per spec.md §4.6.
type BatchWriter struct {
	idx   *Index
	batch *kvstore.Batch

	lastDocumentID uint64
	indexingCount  int64
	deletingCount  int64

	indexedDocuments   map[[16]byte]uint64
	deletedDocumentIDs map[uint64]struct{}

	done bool
}

// ToBatch opens a BatchWriter over idx. last_document_id is read once,
// at construction, and advanced locally as documents are indexed.
func (idx *Index) ToBatch() (*BatchWriter, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}

	var last uint64
	err := idx.store.Read(func(v *kvstore.View) error {
		raw, ok, err := v.Get(idx.cf, lastDocumentIDKey())
		if err != nil || !ok {
			return err
		}
		last, err = codec.Uint64(raw)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &BatchWriter{
		idx:                idx,
		batch:              idx.store.Batch(),
		lastDocumentID:     last,
		indexedDocuments:   make(map[[16]byte]uint64),
		deletedDocumentIDs: make(map[uint64]struct{}),
	}, nil
}

// Index buffers a document's rows into the batch, returning its id.
// A document whose hash was already indexed earlier in this same batch
// (or previously committed) returns that id with created=false.
func (w *BatchWriter) Index(doc string) (id uint64, created bool, err error) {
	if w.done {
		return 0, false, ErrClosed
	}

	h := hash128(doc)
	if existing, ok := w.indexedDocuments[h]; ok {
		return existing, false, nil
	}

	hashes := container.NewMapBatchWriter(w.batch, w.idx.cf, hashMapPrefix(w.idx.name))
	if raw, ok, err := hashes.Get(hashHex(h)); err != nil {
		return 0, false, err
	} else if ok {
		existing, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("konl: corrupt hash entry: %w", err)
		}
		w.indexedDocuments[h] = existing
		return existing, false, nil
	}

	w.lastDocumentID++
	newID := w.lastDocumentID

	tokens := tokenizer.Tokenize(w.idx.analyzer, doc)
	if err := w.idx.writeDocumentRows(w.batch, newID, doc, tokens); err != nil {
		return 0, false, err
	}
	if err := hashes.Set(hashHex(h), strconv.FormatUint(newID, 10)); err != nil {
		return 0, false, err
	}

	w.indexedDocuments[h] = newID
	delete(w.deletedDocumentIDs, newID)
	w.indexingCount++

	return newID, true, nil
}

// Delete buffers id's removal into the batch. A second Delete of the
// same id within this batch is a no-op, matching spec.md §4.3's batched
// double-delete idempotency.
func (w *BatchWriter) Delete(id uint64) error {
	if w.done {
		return ErrClosed
	}
	if _, gone := w.deletedDocumentIDs[id]; gone {
		return nil
	}

	doc, tokens, ok, err := w.idx.readDocumentAndTokens(w.batch, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	h := hash128(doc)
	hashes := container.NewMapBatchWriter(w.batch, w.idx.cf, hashMapPrefix(w.idx.name))
	if err := hashes.Delete(hashHex(h)); err != nil {
		return err
	}
	if err := w.idx.removeDocumentRows(w.batch, id, tokens); err != nil {
		return err
	}

	w.deletedDocumentIDs[id] = struct{}{}
	w.indexedDocuments = deleteByValue(w.indexedDocuments, id)
	w.deletingCount++

	return nil
}

// Commit writes last_document_id and the net length delta, then makes
// every buffered mutation durable and atomic.
func (w *BatchWriter) Commit() error {
	if w.done {
		return ErrClosed
	}

	if err := w.batch.Set(w.idx.cf, lastDocumentIDKey(), codec.PutUint64(w.lastDocumentID)); err != nil {
		w.batch.Discard()
		w.done = true
		return err
	}
	if err := w.idx.bumpLength(w.batch, w.indexingCount-w.deletingCount); err != nil {
		w.batch.Discard()
		w.done = true
		return err
	}

	if err := w.batch.Commit(); err != nil {
		w.done = true
		return err
	}

	w.done = true
	return nil
}

// Rollback discards every buffered mutation; the store is left
// untouched.
func (w *BatchWriter) Rollback() {
	if w.done {
		return
	}
	w.batch.Discard()
	w.done = true
}

func deleteByValue(m map[[16]byte]uint64, id uint64) map[[16]byte]uint64 {
	for h, v := range m {
		if v == id {
			delete(m, h)
		}
	}
	return m
}
