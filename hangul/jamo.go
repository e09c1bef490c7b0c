// Package hangul decomposes precomposed Hangul syllables into their
// constituent jamo (initial consonant, medial vowel, optional final
// consonant) so that an incomplete query is a true string prefix of the
// completed token.
//
// Precomposed Hangul syllables occupy a single contiguous Unicode block,
// U+AC00 ("가") through U+D7A3 ("힣"), laid out as a fixed radix:
// syllable = base + (initial*21 + medial)*28 + final. This package inverts
// that formula directly; it needs no external decomposition table.
package hangul

const (
	syllableBase = 0xAC00
	syllableLast = 0xD7A3

	initialCount = 19
	medialCount  = 21
	finalCount   = 28
)

// initials, medials and finals hold the jamo code points in the same order
// the Unicode composition algorithm assigns them.
var (
	initials = [initialCount]rune{
		'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
		'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
	}
	medials = [medialCount]rune{
		'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ',
		'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ',
	}
	// finals[0] is "no final consonant" and contributes nothing to the
	// decomposition.
	finals = [finalCount]rune{
		0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ',
		'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ',
		'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
	}
)

// Decompose returns s with every precomposed Hangul syllable replaced by
// its initial/medial/final jamo sequence, in code-point order. Characters
// outside the syllable block (Latin letters, digits, already-decomposed
// jamo, punctuation) pass through unchanged. The result carries no
// composition marker between syllables, so an incomplete trailing syllable
// in the input (e.g. just an initial consonant) is a genuine prefix of the
// full decomposition of the complete word.
func Decompose(s string) string {
	out := make([]rune, 0, len(s))

	for _, r := range s {
		if r < syllableBase || r > syllableLast {
			out = append(out, r)
			continue
		}

		offset := r - syllableBase
		finalIdx := offset % finalCount
		medialIdx := (offset / finalCount) % medialCount
		initialIdx := offset / (finalCount * medialCount)

		out = append(out, initials[initialIdx], medials[medialIdx])
		if finalIdx != 0 {
			out = append(out, finals[finalIdx])
		}
	}

	return string(out)
}

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}
