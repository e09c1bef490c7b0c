package konl

import (
	"sort"
	"testing"
)

func setupSearchIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := newTestEngine(t).Index("reviews")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	docs := []string{
		"machine learning is fun",          // 1
		"deep machine learning research",   // 2
		"python programming is great",      // 3
		"machine learning with python",     // 4
		"cats and dogs are pets",           // 5
	}
	for _, doc := range docs {
		if _, _, err := idx.Index(doc); err != nil {
			t.Fatalf("Index(%q): %v", doc, err)
		}
	}
	return idx
}

func ids(t *testing.T, got []uint64, err error) []uint64 {
	t.Helper()
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	return got
}

func TestSearchAndModeIntersects(t *testing.T) {
	idx := setupSearchIndex(t)

	got := ids(t, idx.Search([]string{"machine", "learning"}, AND))
	want := []uint64{1, 2, 4}
	if !equalIDs(got, want) {
		t.Errorf("Search(AND) = %v, want %v", got, want)
	}
}

func TestSearchOrModeUnions(t *testing.T) {
	idx := setupSearchIndex(t)

	got := ids(t, idx.Search([]string{"python", "cats"}, OR))
	want := []uint64{3, 4, 5}
	if !equalIDs(got, want) {
		t.Errorf("Search(OR) = %v, want %v", got, want)
	}
}

func TestSearchNoMatchesReturnsEmpty(t *testing.T) {
	idx := setupSearchIndex(t)

	got, err := idx.Search([]string{"nonexistent"}, OR)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search for an unindexed token = %v, want empty", got)
	}
}

func TestSearchPhraseRequiresOrder(t *testing.T) {
	idx := setupSearchIndex(t)

	got := ids(t, idx.Search([]string{"machine", "learning"}, PHRASE))
	want := []uint64{1, 2, 4}
	if !equalIDs(got, want) {
		t.Errorf("Search(PHRASE machine learning) = %v, want %v", got, want)
	}

	// "learning machine" never occurs in that order in any document.
	got2, err := idx.Search([]string{"learning", "machine"}, PHRASE)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got2) != 0 {
		t.Errorf("Search(PHRASE learning machine) = %v, want empty", got2)
	}
}

func TestPhraseMatchesUsesFirstOccurrenceNotGreedySubsequence(t *testing.T) {
	// A document where "machine" reappears after "learning" must not
	// satisfy the query ["learning", "machine"]: a greedy subsequence
	// scan would advance past the first "machine" and match the second
	// one, but the first-occurrence positions (learning=1, machine=0)
	// are not non-decreasing, so this is not a match.
	doc := []string{"machine", "learning", "machine", "python"}

	if phraseMatches(doc, []string{"machine", "learning"}) == false {
		t.Error("phraseMatches([machine,learning,machine,python], [machine,learning]) = false, want true")
	}
	if phraseMatches(doc, []string{"learning", "machine"}) {
		t.Error("phraseMatches([machine,learning,machine,python], [learning,machine]) = true, want false")
	}
}

func TestSearchComplexCombinesSubqueries(t *testing.T) {
	idx := setupSearchIndex(t)

	tree := &QueryNode{
		Mode: OR,
		Left: &QueryNode{Tokens: []string{"cats"}, Mode: OR},
		Right: &QueryNode{
			Mode:  AND,
			Left:  &QueryNode{Tokens: []string{"machine"}, Mode: OR},
			Right: &QueryNode{Tokens: []string{"python"}, Mode: OR},
		},
	}

	got := ids(t, idx.SearchComplex(tree))
	want := []uint64{4, 5}
	if !equalIDs(got, want) {
		t.Errorf("SearchComplex = %v, want %v", got, want)
	}
}

func TestSearchComplexNilTreeIsInvalid(t *testing.T) {
	idx := setupSearchIndex(t)
	if _, err := idx.SearchComplex(nil); err != ErrInvalidQuery {
		t.Errorf("SearchComplex(nil) = %v, want ErrInvalidQuery", err)
	}
}

func TestSearchComplexMalformedInteriorIsInvalid(t *testing.T) {
	idx := setupSearchIndex(t)
	tree := &QueryNode{Mode: AND, Left: &QueryNode{Tokens: []string{"cats"}, Mode: OR}}
	if _, err := idx.SearchComplex(tree); err != ErrInvalidQuery {
		t.Errorf("SearchComplex with a missing child = %v, want ErrInvalidQuery", err)
	}
}

func TestSearchDeleteRemovesFromPostings(t *testing.T) {
	idx := setupSearchIndex(t)

	if err := idx.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got := ids(t, idx.Search([]string{"machine", "learning"}, AND))
	want := []uint64{2, 4}
	if !equalIDs(got, want) {
		t.Errorf("Search(AND) after Delete(1) = %v, want %v", got, want)
	}
}

func equalIDs(got, want []uint64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
