package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/eringen/mdblog/content"
)

// headingIDs sets the id of every top-level ATX heading to the slug of its
// source text, the same value content.ExtractTOC produces for it. Setext
// headings, headings nested in lists or quotes and headings whose slug is
// empty get no id, since the table of contents has no entry for them.
type headingIDs struct{}

func (headingIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || !isATX(h, source) {
			continue
		}
		if id := content.Slugify(headingText(h, source)); id != "" {
			h.SetAttributeString("id", []byte(id))
		}
	}
}

// isATX reports whether h was written with leading '#' markers rather than
// a setext underline.
func isATX(h *ast.Heading, source []byte) bool {
	lines := h.Lines()
	if lines.Len() == 0 {
		return false
	}
	i := lines.At(0).Start
	for i > 0 && (source[i-1] == ' ' || source[i-1] == '\t') {
		i--
	}
	return i > 0 && source[i-1] == '#'
}

// headingText returns the raw markdown of a heading, before inline parsing
// and typographic substitution.
func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	lines := h.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}
