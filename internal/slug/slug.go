// Package slug turns article titles into URL path segments.
package slug

import (
	"html"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Make returns a lowercase, hyphen separated form of title made only of
// ASCII letters and digits. Non-Latin text is transliterated first, quotes
// separate words and commas inside numbers are dropped, so "1,000 l'été"
// becomes "1000-l-ete". Empty input gives an empty slug. Distinct titles
// may share a slug.
func Make(title string) string {
	if title == "" {
		return ""
	}

	s := html.UnescapeString(title)
	s = unidecode.Unidecode(norm.NFKC.String(s))
	s = strings.ToLower(s)
	s = dropDigitCommas(s)

	var b strings.Builder
	b.Grow(len(s))
	sep := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteByte(c)

			continue
		}
		sep = true
	}

	return b.String()
}

// dropDigitCommas removes thousands separators: a comma between two digits.
func dropDigitCommas(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && i > 0 && i < len(s)-1 && isDigit(s[i-1]) && isDigit(s[i+1]) {
			continue
		}
		b.WriteByte(s[i])
	}

	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
