package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives the URL slug used as the natural key of brands and the
// display path of products. Latin accents are folded; letters, digits and
// spacing marks of any script are kept, anything else becomes a single hyphen.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if r == '&' || r == '\'' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || (unicode.IsMark(r) && b.Len() > 0) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
