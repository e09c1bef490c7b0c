package konl

import (
	"sort"
	"testing"
)

func TestSuggestionsFollowIndexedVocabulary(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")

	for _, doc := range []string{"한국어 공부", "한글 자음"} {
		if _, _, err := idx.Index(doc); err != nil {
			t.Fatalf("Index(%q): %v", doc, err)
		}
	}

	got, err := idx.SearchSuggestions("한")
	if err != nil {
		t.Fatalf("SearchSuggestions: %v", err)
	}
	sort.Strings(got)

	found := map[string]bool{}
	for _, s := range got {
		found["한국어"] = found["한국어"] || s == "한국어"
		found["한글"] = found["한글"] || s == "한글"
	}
	if !found["한국어"] || !found["한글"] {
		t.Errorf("SearchSuggestions(\"한\") = %v, want it to include 한국어 and 한글", got)
	}
}

func TestSuggestionsExcludeUnrelatedPrefix(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")
	if _, _, err := idx.Index("바나나 사과"); err != nil {
		t.Fatalf("Index: %v", err)
	}

	got, err := idx.SearchSuggestions("한")
	if err != nil {
		t.Fatalf("SearchSuggestions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SearchSuggestions(\"한\") = %v, want empty", got)
	}
}

func TestSuggestionsDropAfterLastDocumentDeleted(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")
	id, _, err := idx.Index("한국어 공부")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	if err := idx.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := idx.SearchSuggestions("한")
	if err != nil {
		t.Fatalf("SearchSuggestions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SearchSuggestions after deleting the only document = %v, want empty", got)
	}
}

func TestFrequencySuggestRanksRecordedChoicesFirst(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")
	if _, _, err := idx.Index("한국어 한글 한식"); err != nil {
		t.Fatalf("Index: %v", err)
	}

	if err := idx.trie.RecordChoice("한식"); err != nil {
		t.Fatalf("RecordChoice: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := idx.trie.RecordChoice("한글"); err != nil {
			t.Fatalf("RecordChoice: %v", err)
		}
	}

	got, err := idx.trie.FrequencySuggest("한", 2)
	if err != nil {
		t.Fatalf("FrequencySuggest: %v", err)
	}
	if len(got) != 2 || got[0] != "한글" || got[1] != "한식" {
		t.Errorf("FrequencySuggest = %v, want [한글 한식] (most-chosen first)", got)
	}
}
