// Package content turns raw markdown documents into the pieces an article is
// built from: frontmatter, slugs, reading time, excerpts and the table of
// contents.
package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts text to a URL-safe slug. Letters and digits from any
// script are kept, so "风险 管理" becomes "风险-管理".
//
// It is the only slug function in mdblog: article slugs, TOC ids and rendered
// heading ids all come from here and must stay identical.
func Slugify(text string) string {
	s := strings.ToLower(norm.NFKC.String(text))
	var b strings.Builder
	sep := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			sep = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}
