package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the minimum token length counted toward lexical similarity.
// Shorter tokens (single letters, stray digits) carry no signal.
const minTokenRunes = 2

// foldDiacritics strips combining marks, turning accented letters into their
// base letter (xin chào -> xin chao). Covers the Vietnamese tone-mark groups
// for a/e/i/o/u; đ is handled separately because it is not a combining mark.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text for comparison: lowercase, trimmed, single
// internal spaces, diacritics folded, punctuation stripped. Deterministic and
// idempotent; empty input yields the empty string.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Join(strings.Fields(s), " ")

	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == 'đ':
			return 'd'
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return ' '
		}
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// Tokenize normalizes text and splits it into usable tokens, dropping tokens
// shorter than minTokenRunes.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// splitAliases splits a stored question variant into its comma-delimited
// alias phrases, trimmed, empty phrases dropped.
func splitAliases(variant string) []string {
	parts := strings.Split(variant, ",")
	aliases := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			aliases = append(aliases, trimmed)
		}
	}
	return aliases
}
