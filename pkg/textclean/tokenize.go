package textclean

import (
	"regexp"
	"strings"
)

// tokenRe matches the tokenizer's scan rule: either a maximal run of
// letters-or-digits or exactly one other character. A whitespace character
// matches the single-character alternative too (newline aside, which "."
// does not match); Tokenize filters those matches out.
var tokenRe = regexp.MustCompile(`[\p{L}\p{Nd}]+|.`)

var digitRunRe = regexp.MustCompile(`[\p{Nd}]+`)

// Tokenize scans s left to right, yielding each letter/digit run or lone
// punctuation character as a separate token. Whitespace between tokens is
// dropped: tokenRe matches it as a single character, and such matches are
// discarded here.
func Tokenize(s string) []string {
	matches := tokenRe.FindAllString(s, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m) == "" {
			continue
		}
		tokens = append(tokens, m)
	}
	return tokens
}

// Simplify lowercases a token and folds every run of digits to a single
// "0", so that e.g. "2024" and "7" both simplify to "0".
func Simplify(token string) string {
	return digitRunRe.ReplaceAllString(strings.ToLower(token), "0")
}

// TokenizeSimplified is a convenience that tokenizes and simplifies in one
// pass, matching the CLI's "tokenize" command output.
func TokenizeSimplified(s string) []string {
	toks := Tokenize(s)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = Simplify(t)
	}
	return out
}
