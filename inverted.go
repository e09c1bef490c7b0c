package konl

import (
	"sort"
	"strconv"

	"github.com/RoaringBitmap/roaring"
	"github.com/wizenheimer/konlsearch/kvstore"
	"github.com/wizenheimer/konlsearch/kvstore/container"
)

// SearchMode selects how Index.Search combines a query's tokens.
type SearchMode int

const (
	// OR returns the union of every token's postings.
	OR SearchMode = iota
	// AND returns the intersection of every token's postings.
	AND
	// PHRASE returns AND's result filtered to documents where the query
	// tokens occur in non-decreasing position order.
	PHRASE
)

// invertedIndex owns the "<name>_inverted_index" column family: one
// posting set per token, and the trie kept in sync with it (a token
// gains a trie entry on its first posting, loses it on its last).
type invertedIndex struct {
	store *kvstore.Store
	cf    kvstore.ColumnFamily
	trie  *trie
}

func newInvertedIndex(store *kvstore.Store, cf kvstore.ColumnFamily, trie *trie) *invertedIndex {
	return &invertedIndex{store: store, cf: cf, trie: trie}
}

// Index adds one posting per token for docID, inserting newly-seen
// tokens into the trie.
func (ii *invertedIndex) Index(b *kvstore.Batch, docID uint64, tokens map[string]struct{}) error {
	for t := range tokens {
		postings := container.NewSetBatchWriter(b, ii.cf, t)
		if err := postings.Add(docIDHex(docID)); err != nil {
			return err
		}
		if err := ii.trie.Insert(b, t); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes docID's posting for each token, and removes the token
// from the trie entirely if that was its last posting.
func (ii *invertedIndex) Delete(b *kvstore.Batch, docID uint64, tokens map[string]struct{}) error {
	for t := range tokens {
		postings := container.NewSetBatchWriter(b, ii.cf, t)
		if err := postings.Remove(docIDHex(docID)); err != nil {
			return err
		}

		remaining, err := postings.Len()
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := ii.trie.Delete(b, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Search returns the combined posting set for tokens under mode, sorted
// ascending. PHRASE is resolved the same as AND here; the phrase's
// position check happens one layer up, against stored document text
// (spec.md §4.3).
func (ii *invertedIndex) Search(v *kvstore.View, tokens []string, mode SearchMode) ([]uint64, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	bitmaps := make([]*roaring.Bitmap, 0, len(tokens))
	for _, t := range tokens {
		bm, err := ii.postings(v, t)
		if err != nil {
			return nil, err
		}
		bitmaps = append(bitmaps, bm)
	}

	result := bitmaps[0]
	switch mode {
	case OR:
		for _, bm := range bitmaps[1:] {
			result = roaring.Or(result, bm)
		}
	case AND, PHRASE:
		for _, bm := range bitmaps[1:] {
			result = roaring.And(result, bm)
		}
	}

	ids := result.ToArray()
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out, nil
}

func (ii *invertedIndex) postings(v *kvstore.View, token string) (*roaring.Bitmap, error) {
	items, err := container.NewSetView(v, ii.cf, token).Items()
	if err != nil {
		return nil, err
	}

	bm := roaring.NewBitmap()
	for _, hex := range items {
		id, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			continue
		}
		bm.Add(uint32(id))
	}
	return bm, nil
}

// unionSortedUnique merges interior query-tree nodes' results (each
// already ascending from a roaring.Bitmap or a recursive call) without
// pulling every leaf back through a bitmap.
func unionSortedUnique(a, b []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(a)+len(b))
	out := make([]uint64, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func intersectSorted(a, b []uint64) []uint64 {
	set := make(map[uint64]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}

	out := make([]uint64, 0, len(a))
	for _, id := range a {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
