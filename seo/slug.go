package seo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated slugs, cut at a word boundary when possible.
const MaxSlugLength = 80

// Slug converts a title into a lowercase, hyphen separated URL path segment.
// Diacritics are stripped and anything which is not a letter or digit becomes a separator.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	plain = strings.NewReplacer("&", " and ", "'", "", "’", "").Replace(plain)

	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(plain) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	slug := b.String()
	if r := []rune(slug); len(r) > MaxSlugLength {
		slug = string(r[:MaxSlugLength])
		if i := strings.LastIndexByte(slug, '-'); i > 0 {
			slug = slug[:i]
		}
		slug = strings.TrimRight(slug, "-")
	}
	return slug
}
