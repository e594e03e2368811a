// Package textclean implements the Unicode-folding Normalizer and the
// word/punctuation Tokenizer that turn cleaned article text into a
// restricted ASCII-like alphabet suitable for downstream NLP tooling.
package textclean

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes Unicode combining marks left behind by NFD
// decomposition, so that e.g. "é" (e + combining acute accent) becomes
// plain "e". This is the base transliteration layer the normalizer falls
// back to for any rune the override table doesn't special-case.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldRune folds a single rune to its normalized replacement string, per
// §4.8: override table first, then NFD-decompose-and-strip-marks, then the
// 128-entry control/ASCII remap. Codepoints above U+EFFFF or within the
// UTF-16 surrogate range fold to empty, matching malformed or exotic
// astral-plane input the reference alphabet was never meant to cover.
func foldRune(r rune) string {
	if r > maxCodepoint || (r >= surrogateLow && r <= surrogateHigh) {
		return ""
	}
	if s, ok := overrideTable[r]; ok {
		return s
	}

	decomposed, _, err := transform.String(stripMarks, string(r))
	if err != nil || decomposed == "" {
		return ""
	}

	var out strings.Builder
	for _, b := range []byte(decomposed) {
		if b < 128 {
			out.WriteString(controlRemap[b])
		}
	}
	return out.String()
}

// Normalize folds s character-by-character through foldRune, then
// collapses runs of Unicode whitespace to a single space and trims the
// result. It never fails: unmapped input silently folds to empty.
func Normalize(s string) string {
	var out strings.Builder
	for _, r := range s {
		out.WriteString(foldRune(r))
	}
	return strings.Join(strings.Fields(out.String()), " ")
}
