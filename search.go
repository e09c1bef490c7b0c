package konl

import (
	"github.com/wizenheimer/konlsearch/kvstore"
	"github.com/wizenheimer/konlsearch/tokenizer"
)

// QueryNode is one node of a SearchComplex query tree. A leaf carries
// Tokens and a leaf Mode (OR/AND/PHRASE); an interior node carries Left
// and Right children combined by Mode (AND/OR only; PHRASE has no
// meaning between two subqueries).
type QueryNode struct {
	Tokens []string
	Mode   SearchMode
	Left   *QueryNode
	Right  *QueryNode
}

func (n *QueryNode) isLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Search runs a single boolean or phrase query over tokens, returning
// matching document ids in ascending order.
func (idx *Index) Search(tokens []string, mode SearchMode) ([]uint64, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}

	var ids []uint64
	err := idx.store.Read(func(v *kvstore.View) error {
		r, err := idx.search(v, tokens, mode)
		ids = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if idx.log != nil {
		if err := idx.log.appendQuery(tokens, len(ids)); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

func (idx *Index) search(v *kvstore.View, tokens []string, mode SearchMode) ([]uint64, error) {
	ids, err := idx.inverted.Search(v, tokens, mode)
	if err != nil {
		return nil, err
	}
	if mode != PHRASE {
		return ids, nil
	}
	return idx.filterPhrase(v, ids, tokens)
}

// filterPhrase keeps only the candidate ids whose stored document, when
// tokenized with order preserved, contains the query tokens at
// non-decreasing positions (spec.md §4.3/§8 property 5).
func (idx *Index) filterPhrase(v *kvstore.View, candidates []uint64, tokens []string) ([]uint64, error) {
	query := tokenizer.TokenizeWithOrder(idx.analyzer, joinTokens(tokens))
	if len(query) == 0 {
		return nil, nil
	}

	var out []uint64
	for _, id := range candidates {
		raw, ok, err := v.Get(idx.cf, documentKey(idx.name, id))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ordered := tokenizer.TokenizeWithOrder(idx.analyzer, string(raw))
		if phraseMatches(ordered, query) {
			out = append(out, id)
		}
	}
	return out, nil
}

// phraseMatches reports whether each element of query has a first
// occurrence in doc, and those first-occurrence positions are
// pairwise non-decreasing in query order. This matches
// original_source/konlsearch/index.py's doc.index(token) check exactly:
// a later query token whose only occurrence in doc comes before an
// earlier query token's occurrence is not a match, even if some other
// later occurrence of that same token would have worked.
func phraseMatches(doc []string, query []string) bool {
	last := -1
	for _, qt := range query {
		idx := indexOf(doc, qt)
		if idx == -1 || idx < last {
			return false
		}
		last = idx
	}
	return true
}

func indexOf(doc []string, tok string) int {
	for i, t := range doc {
		if t == tok {
			return i
		}
	}
	return -1
}

func joinTokens(tokens []string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += " "
		}
		out += t
	}
	return out
}

// SearchComplex evaluates a recursive AND/OR query tree bottom-up,
// combining child results by set union or intersection at each interior
// node, per spec.md §4.3.
func (idx *Index) SearchComplex(tree *QueryNode) ([]uint64, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, ErrInvalidQuery
	}

	var ids []uint64
	err := idx.store.Read(func(v *kvstore.View) error {
		r, err := idx.evaluate(v, tree)
		ids = r
		return err
	})
	return ids, err
}

func (idx *Index) evaluate(v *kvstore.View, node *QueryNode) ([]uint64, error) {
	if node.isLeaf() {
		if len(node.Tokens) == 0 {
			return nil, ErrInvalidQuery
		}
		return idx.search(v, node.Tokens, node.Mode)
	}

	if node.Left == nil || node.Right == nil {
		return nil, ErrInvalidQuery
	}

	left, err := idx.evaluate(v, node.Left)
	if err != nil {
		return nil, err
	}
	right, err := idx.evaluate(v, node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Mode {
	case AND:
		return intersectSorted(left, right), nil
	case OR:
		return unionSortedUnique(left, right), nil
	default:
		return nil, ErrInvalidQuery
	}
}

// SearchSuggestions returns every known token whose jamo decomposition
// starts with the decomposition of prefix, lexicographically sorted.
func (idx *Index) SearchSuggestions(prefix string) ([]string, error) {
	if err := idx.checkOpen(); err != nil {
		return nil, err
	}
	return idx.trie.Suggest(prefix)
}
