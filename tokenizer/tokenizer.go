// Package tokenizer turns raw document text into the token set the
// forward and inverted indexes store. The pipeline is deliberately
// small: sanitize away characters that would otherwise leak into
// colon-delimited storage keys, then tokenize with a Korean-aware morph
// analyzer combined with plain whitespace splitting, then keep only
// tokens that are unambiguously a single script (pure Hangul or pure
// Latin letters); no stemming, no stopwords, no lowercasing. Search
// results are an id set, not a ranked list, so none of that vocabulary
// normalization is needed or wanted here.
package tokenizer

import (
	"regexp"
	"strings"
)

// specialCharacters are stripped from documents before tokenization so
// they can never end up inside a colon-delimited storage key.
const specialCharacters = `@_!#$%^&*()<>?/\|}{~:]",`

var (
	alphaPattern  = regexp.MustCompile(`^[A-Za-z]+$`)
	hangulPattern = regexp.MustCompile(`^[가-힣]+$`)
)

// MorphAnalyzer returns the morphological units of a Unicode string. A
// real deployment plugs in a cgo binding to a Korean morphological
// analyzer; Default is a pure-Go stand-in with the same contract.
type MorphAnalyzer interface {
	Morphs(s string) []string
}

// Sanitize removes every character in specialCharacters from s.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(specialCharacters, r) {
			return -1
		}
		return r
	}, s)
}

// IsIndexable reports whether tok is a single run of Latin letters or a
// single run of precomposed Hangul syllables. Mixed-script and numeric
// tokens are rejected.
func IsIndexable(tok string) bool {
	return alphaPattern.MatchString(tok) || hangulPattern.MatchString(tok)
}

// Tokenize sanitizes s and returns the deduplicated union of the morph
// analyzer's output and a whitespace split of the sanitized string,
// filtered to indexable tokens. Order is not significant; callers that
// need document order (phrase search) use TokenizeWithOrder instead.
func Tokenize(analyzer MorphAnalyzer, s string) map[string]struct{} {
	sanitized := Sanitize(s)

	tokens := make(map[string]struct{})
	for _, tok := range analyzer.Morphs(sanitized) {
		if IsIndexable(tok) {
			tokens[tok] = struct{}{}
		}
	}
	for _, tok := range strings.Fields(sanitized) {
		if IsIndexable(tok) {
			tokens[tok] = struct{}{}
		}
	}

	return tokens
}

// TokenizeWithOrder sanitizes s and returns the morph analyzer's output,
// in order, without deduplication and without the whitespace split,
// filtered to indexable tokens. Phrase search uses this to recover the
// position of each query token inside a candidate document.
func TokenizeWithOrder(analyzer MorphAnalyzer, s string) []string {
	sanitized := Sanitize(s)

	out := make([]string, 0, len(sanitized))
	for _, tok := range analyzer.Morphs(sanitized) {
		if IsIndexable(tok) {
			out = append(out, tok)
		}
	}
	return out
}
