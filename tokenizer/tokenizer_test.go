package tokenizer

import (
	"reflect"
	"sort"
	"testing"
)

func TestSanitizeStripsSpecialCharacters(t *testing.T) {
	got := Sanitize(`hello_world! (test) #1 @user <tag>`)
	for _, r := range got {
		if containsRune(specialCharacters, r) {
			t.Fatalf("Sanitize left %q in %q", r, got)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func TestIsIndexable(t *testing.T) {
	cases := []struct {
		tok  string
		want bool
	}{
		{"hello", true},
		{"한글", true},
		{"hello1", false},
		{"한1글", false},
		{"hi-there", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsIndexable(c.tok); got != c.want {
			t.Errorf("IsIndexable(%q) = %v, want %v", c.tok, got, c.want)
		}
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestTokenizeDedupesAndFilters(t *testing.T) {
	got := keys(Tokenize(Default, "hello hello world! 123"))
	want := []string{"hello", "world"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeSplitsKoreanParticle(t *testing.T) {
	// Tokenize unions the morph analyzer's split ("학교" + "는") with a
	// plain whitespace split, which for a single space-free word also
	// contributes the whole, unsplit token.
	got := keys(Tokenize(Default, "학교는"))
	want := []string{"는", "학교", "학교는"}
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize(학교는) = %v, want %v", got, want)
	}
}

func TestTokenizeWithOrderPreservesSequenceAndDuplicates(t *testing.T) {
	got := TokenizeWithOrder(Default, "fox fox jumps")
	want := []string{"fox", "fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokenizeWithOrder = %v, want %v", got, want)
	}
}

func TestDefaultAnalyzerLeavesLatinRunsUntouched(t *testing.T) {
	morphs := Default.Morphs("quick brown fox")
	want := []string{"quick", "brown", "fox"}
	if !reflect.DeepEqual(morphs, want) {
		t.Errorf("Morphs = %v, want %v", morphs, want)
	}
}
