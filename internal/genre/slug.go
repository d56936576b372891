// Package genre normalizes game genre labels and defines the genre landing pages.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a label to a URL-safe slug.
// "Role-Playing (RPG)" -> "role-playing-rpg".
// "Shoot 'em up" -> "shoot-em-up".
// "Pokémon" -> "pokemon".
func Slugify(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if r == '\'' {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
