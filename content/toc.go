package content

import (
	"regexp"
	"strings"
)

var reHeading = regexp.MustCompile(`^(#{1,6})(?:[ \t]+(.*))?$`)

// Heading is an ATX heading line found in a markdown body.
type Heading struct {
	Level int
	Text  string
	ID    string
	Line  int // 1-indexed
}

// TOCNode is one entry of a table of contents.
type TOCNode struct {
	ID       string     `json:"id" yaml:"id"`
	Text     string     `json:"text" yaml:"text"`
	Level    int        `json:"level" yaml:"level"`
	Children []*TOCNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// ScanHeadings returns the top-level ATX headings of body in document order.
// A heading is a line indented at most three spaces that starts with one to
// six '#' followed by whitespace or the end of the line. Lines inside fenced
// code, $$ math, HTML blocks and list items are skipped.
func ScanHeadings(body string) []Heading {
	var headings []Heading
	var scan blockScanner
	for i, raw := range strings.Split(body, "\n") {
		level, text, ok := scan.next(trimCR(raw))
		if !ok {
			continue
		}
		headings = append(headings, Heading{
			Level: level,
			Text:  text,
			ID:    Slugify(text),
			Line:  i + 1,
		})
	}
	return headings
}

// ExtractTOC builds the table of contents for a markdown body.
func ExtractTOC(body string) []*TOCNode {
	return BuildTOC(ScanHeadings(body))
}

// BuildTOC nests headings into a forest. A level-1 heading is always a root.
// Any other heading goes under the most recent node one level above it, or
// becomes a root when there is none, so "# A" followed by "### B" yields two
// roots. Headings with an empty id are left out; they have no anchor.
func BuildTOC(headings []Heading) []*TOCNode {
	roots := []*TOCNode{}
	for _, h := range headings {
		if h.ID == "" {
			continue
		}
		node := &TOCNode{ID: h.ID, Text: h.Text, Level: h.Level}
		if h.Level == 1 {
			roots = append(roots, node)
			continue
		}
		if parent := findParent(roots, h.Level-1); parent != nil {
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}

// findParent searches newest branches first, checking each node before its
// children.
func findParent(nodes []*TOCNode, level int) *TOCNode {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Level == level {
			return nodes[i]
		}
		if found := findParent(nodes[i].Children, level); found != nil {
			return found
		}
	}
	return nil
}

// Flatten lists every node of the forest in pre-order.
func Flatten(nodes []*TOCNode) []*TOCNode {
	var out []*TOCNode
	for _, n := range nodes {
		out = append(out, n)
		out = append(out, Flatten(n.Children)...)
	}
	return out
}

// trimClosingHashes drops an optional closing "###" sequence, which must be
// preceded by whitespace to count.
func trimClosingHashes(text string) string {
	t := strings.TrimRight(text, "#")
	if t == text {
		return text
	}
	if t == "" || strings.HasSuffix(t, " ") || strings.HasSuffix(t, "\t") {
		return strings.TrimSpace(t)
	}
	return text
}

