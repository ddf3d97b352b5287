package entities

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Garde lettres, chiffres, tiret. Le reste → tiret.
var slugSanitize = regexp.MustCompile(`[^\p{L}\p{N}-]+`)

const maxSlugRunes = 60

// Slugify turns an invite title into the human-readable part of its slug.
// Accents are stripped so "Soirée" becomes "soiree".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = slugSanitize.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if r := []rune(s); len(r) > maxSlugRunes {
		s = strings.TrimRight(string(r[:maxSlugRunes]), "-")
	}
	if s == "" {
		s = "invitation"
	}
	return s
}
