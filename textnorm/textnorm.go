// Package textnorm cleans user-supplied term text before it is validated.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer cleans term text.
type Normalizer struct{}

// Normalize replaces invalid UTF-8, applies NFC, trims surrounding
// whitespace and collapses inner whitespace runs into a single space.
func (Normalizer) Normalize(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.In(r, unicode.Zs) {
			space = true
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
