package konl

import (
	"sort"

	"github.com/wizenheimer/konlsearch/hangul"
	"github.com/wizenheimer/konlsearch/kvstore"
	"github.com/wizenheimer/konlsearch/kvstore/container"
)

const (
	tokenDictPrefix        = "token_dict"
	tokenReverseDictPrefix = "token_reverse_dict"
	choiceCounterPrefix    = "suggest_choices"
	choiceCounterMaxSize   = 10000
)

// trie is the Korean jamo suggestion trie owning the "<name>_trie"
// column family: token_dict/token_reverse_dict maps plus one edge set
// per decomposed prefix, per spec.md §4.5.
type trie struct {
	store   *kvstore.Store
	cf      kvstore.ColumnFamily
	choices *container.Counter
}

func newTrie(store *kvstore.Store, cf kvstore.ColumnFamily) *trie {
	return &trie{
		store:   store,
		cf:      cf,
		choices: container.NewCounter(store, cf, choiceCounterPrefix, choiceCounterMaxSize),
	}
}

// Insert adds token to the trie, a no-op if it is already known. Edges
// are added for every prefix of its jamo decomposition of length >= 2.
func (t *trie) Insert(b *kvstore.Batch, token string) error {
	dict := container.NewMapBatchWriter(b, t.cf, tokenDictPrefix)

	if exists, err := dict.Contains(token); err != nil {
		return err
	} else if exists {
		return nil
	}

	dp := hangul.Decompose(token)
	reverse := container.NewMapBatchWriter(b, t.cf, tokenReverseDictPrefix)

	if err := dict.Set(token, dp); err != nil {
		return err
	}
	if err := reverse.Set(dp, token); err != nil {
		return err
	}

	runes := []rune(dp)
	for i := 1; i < len(runes); i++ {
		parent := string(runes[:i])
		child := string(runes[:i+1])
		if err := container.NewSetBatchWriter(b, t.cf, parent).Add(child); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes token from the trie. Only the tail portion of its edge
// chain is removed (from the longest prefix down to length 2), and the
// walk stops at the first prefix that still completes another token or
// still has outgoing edges, so prefixes shared with other tokens are left
// in place. Edges out of a length-1 prefix are never removed.
func (t *trie) Delete(b *kvstore.Batch, token string) error {
	dict := container.NewMapBatchWriter(b, t.cf, tokenDictPrefix)

	dp, ok, err := dict.Get(token)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := dict.Delete(token); err != nil {
		return err
	}
	reverse := container.NewMapBatchWriter(b, t.cf, tokenReverseDictPrefix)
	if err := reverse.Delete(dp); err != nil {
		return err
	}

	runes := []rune(dp)
	for i := len(runes) - 1; i >= 2; i-- {
		parent := string(runes[:i])
		child := string(runes[:i+1])
		if _, used, err := reverse.Get(child); err != nil || used {
			return err
		}
		if n, err := container.NewSetBatchWriter(b, t.cf, child).Len(); err != nil || n > 0 {
			return err
		}
		if err := container.NewSetBatchWriter(b, t.cf, parent).Remove(child); err != nil {
			return err
		}
	}

	return nil
}

// Suggest returns every known token whose jamo decomposition starts with
// decompose(prefix), lexicographically sorted.
func (t *trie) Suggest(prefix string) ([]string, error) {
	dp := hangul.Decompose(prefix)

	var results []string
	err := t.store.Read(func(v *kvstore.View) error {
		r, err := t.search(v, dp)
		results = r
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(results)
	return results, nil
}

// search recurses the edge DAG rooted at dp, collecting the token (if
// any) completed exactly at dp and every completion reachable through
// its child edges. A node with neither a reverse-dict entry nor
// outgoing edges simply contributes nothing, which is what terminates
// the recursion; no separate "node absent" guard is needed.
func (t *trie) search(v *kvstore.View, dp string) ([]string, error) {
	var results []string

	reverse := container.NewMapView(v, t.cf, tokenReverseDictPrefix)
	if tok, ok, err := reverse.Get(dp); err != nil {
		return nil, err
	} else if ok {
		results = append(results, tok)
	}

	children, err := container.NewSetView(v, t.cf, dp).Items()
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		sub, err := t.search(v, child)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
	}

	return results, nil
}

// RecordChoice bumps token's selection count, feeding FrequencySuggest's
// ranking. Supplements spec.md §4.5's "Frequency variant", sourced from
// original_source/konlsearch/trie.py + counter.py (dropped by the
// distillation, explicitly re-admitted by that section).
func (t *trie) RecordChoice(token string) error {
	return t.choices.Increase(token, 1)
}

// FrequencySuggest returns up to topN completions under prefix, ranking
// by selection count (most-chosen first) and falling back to plain
// lexicographic order for tokens never recorded via RecordChoice.
// Callers that never call RecordChoice see the same result Suggest
// would give, truncated to topN.
func (t *trie) FrequencySuggest(prefix string, topN int) ([]string, error) {
	candidates, err := t.Suggest(prefix)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 || topN <= 0 {
		return nil, nil
	}

	eligible := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		eligible[c] = struct{}{}
	}

	ranked := make([]string, 0, topN)
	seen := make(map[string]struct{}, topN)

	items, err := t.choices.Items()
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, ok := eligible[item.Key]; !ok {
			continue
		}
		ranked = append(ranked, item.Key)
		seen[item.Key] = struct{}{}
		if len(ranked) >= topN {
			return ranked, nil
		}
	}

	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		ranked = append(ranked, c)
		if len(ranked) >= topN {
			break
		}
	}

	return ranked, nil
}
