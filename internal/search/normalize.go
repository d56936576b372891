package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds a game name or query for matching: accents are removed,
// letters are lower-cased, apostrophes are dropped and any other
// punctuation becomes a space. Runs of whitespace collapse to one space.
//
// "Baldur's Gate 3" -> "baldurs gate 3", "Pokémon: Scarlet" -> "pokemon scarlet".
func Normalize(s string) string {
	s = norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			// combining marks and anything without an ASCII fold
		case r == '\'':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the normalized words of s.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}

// IsBlank reports whether s has nothing to match on once normalized.
func IsBlank(s string) bool {
	return Normalize(s) == ""
}
