package content

import (
	"regexp"
	"strings"
)

const htmlAttr = `(?:[ \t]+[a-zA-Z_:][a-zA-Z0-9:._-]*(?:[ \t]*=[ \t]*(?:[^"'=<>` + "`" + `\x00-\x20]+|'[^']*'|"[^"]*"))?)`

var (
	reHTMLRaw      = regexp.MustCompile(`(?i)^<(?:script|pre|style|textarea)(?:\s|>|/>|$)`)
	reHTMLRawClose = regexp.MustCompile(`(?i)</(?:script|pre|style|textarea)>`)
	reHTMLDecl     = regexp.MustCompile(`^<![A-Z]`)
	reHTMLTag      = regexp.MustCompile(`^<(/ *)?([a-zA-Z][a-zA-Z0-9-]*)(` + htmlAttr + `*) *(?:>|/>) *$`)
	reHTMLBlockTag = regexp.MustCompile(`^<(?:/ *)?([a-zA-Z][a-zA-Z0-9-]*)(?: |>|/>|$)`)
)

var htmlBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true,
	"basefont": true, "blockquote": true, "body": true, "caption": true,
	"center": true, "col": true, "colgroup": true, "dd": true,
	"details": true, "dialog": true, "dir": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true,
	"frameset": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "head": true,
	"header": true, "hr": true, "html": true, "iframe": true,
	"legend": true, "li": true, "link": true, "main": true,
	"menu": true, "menuitem": true, "meta": true, "nav": true,
	"noframes": true, "ol": true, "optgroup": true, "option": true,
	"p": true, "param": true, "search": true, "section": true,
	"summary": true, "table": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "title": true,
	"tr": true, "track": true, "ul": true,
}

// blockScanner follows the block structure of a markdown body line by line,
// closely enough to tell a top-level ATX heading from a line that only looks
// like one. It knows fenced code, $$ math, HTML blocks, list items, setext
// underlines and paragraph continuation, the same way the renderer parses
// them.
type blockScanner struct {
	fence    byte // '`', '~' or '$'
	fenceLen int  // 0 outside a fenced block

	htmlEnd func(line string) bool // nil outside an HTML block

	para bool // the previous line was paragraph text

	item       *blockScanner // content of the open list item
	itemIndent int
}

// next consumes one line and returns it as a heading when it is a top-level
// ATX heading.
func (s *blockScanner) next(line string) (level int, text string, ok bool) {
	indent, rest := splitIndent(line)
	blank := strings.TrimSpace(rest) == ""

	if s.fenceLen > 0 {
		if indent < 4 && closesFence(rest, s.fence, s.fenceLen) {
			s.fenceLen = 0
		}
		return 0, "", false
	}
	if s.htmlEnd != nil {
		if s.htmlEnd(line) {
			s.htmlEnd = nil
		}
		return 0, "", false
	}
	if s.item != nil {
		switch {
		case blank:
			s.item.next("")
			return 0, "", false
		case indent >= s.itemIndent:
			s.item.next(dedent(line, s.itemIndent))
			return 0, "", false
		case indent < 4 && !isThematicBreak(rest) && isListMarker(rest):
			s.item = nil
		case s.item.lazy() && continuesParagraph(line):
			return 0, "", false
		default:
			s.item = nil
		}
	}

	switch {
	case blank:
		s.para = false
		return 0, "", false
	case indent >= 4:
		return 0, "", false
	}
	if m := reHeading.FindStringSubmatch(strings.TrimRight(rest, " \t")); m != nil {
		s.para = false
		return len(m[1]), trimClosingHashes(strings.TrimSpace(m[2])), true
	}
	if s.openFence(rest) || s.openHTML(line, rest) {
		s.para = false
		return 0, "", false
	}
	if s.para && isSetextUnderline(rest) || isThematicBreak(rest) {
		s.para = false
		return 0, "", false
	}
	if width, content, ok := listMarker(rest, s.para); ok {
		s.item = &blockScanner{}
		s.itemIndent = indent + width
		s.item.next(content)
		s.para = false
		return 0, "", false
	}
	s.para = true
	return 0, "", false
}

// lazy reports whether the innermost open block is a paragraph, which an
// unindented line may continue.
func (s *blockScanner) lazy() bool {
	if s.item != nil {
		return s.item.lazy()
	}
	return s.para
}

// continuesParagraph reports whether line would be paragraph continuation
// text after an open paragraph.
func continuesParagraph(line string) bool {
	trial := blockScanner{para: true}
	if _, _, ok := trial.next(line); ok {
		return false
	}
	return trial.para && trial.fenceLen == 0 && trial.htmlEnd == nil && trial.item == nil
}

func (s *blockScanner) openFence(rest string) bool {
	if strings.TrimSpace(rest) == "$$" {
		s.fence, s.fenceLen = '$', 2
		return true
	}
	for _, c := range []byte{'`', '~'} {
		n := fenceRun(rest, c)
		if n < 3 {
			continue
		}
		if c == '`' && strings.ContainsRune(rest[n:], '`') {
			return false
		}
		s.fence, s.fenceLen = c, n
		return true
	}
	return false
}

// closesFence reports whether rest ends the open fence. A math block closes
// only on a bare "$$".
func closesFence(rest string, c byte, length int) bool {
	if c == '$' {
		return strings.TrimSpace(rest) == "$$"
	}
	n := fenceRun(rest, c)
	return n >= length && strings.TrimSpace(rest[n:]) == ""
}

// openHTML starts an HTML block when rest opens one. Blocks with an end
// marker may close on their first line.
func (s *blockScanner) openHTML(line, rest string) bool {
	if !strings.HasPrefix(rest, "<") {
		return false
	}
	var end func(string) bool
	switch {
	case reHTMLRaw.MatchString(rest):
		end = reHTMLRawClose.MatchString
	case strings.HasPrefix(rest, "<!--"):
		end = containsFunc("-->")
	case strings.HasPrefix(rest, "<?"):
		end = containsFunc("?>")
	case reHTMLDecl.MatchString(rest):
		end = containsFunc(">")
	case strings.HasPrefix(rest, "<![CDATA["):
		end = containsFunc("]]>")
	default:
		if !s.htmlTagBlock(rest) {
			return false
		}
		s.htmlEnd = isBlank
		return true
	}
	if !end(line) {
		s.htmlEnd = end
	}
	return true
}

// htmlTagBlock reports whether rest opens an HTML block that runs to the
// next blank line: a known block-level tag, or any other lone tag that does
// not interrupt a paragraph.
func (s *blockScanner) htmlTagBlock(rest string) bool {
	if m := reHTMLTag.FindStringSubmatch(rest); m != nil {
		name := strings.ToLower(m[2])
		if htmlBlockTags[name] {
			return true
		}
		closing, hasAttr := m[1] != "", m[3] != ""
		if name != "script" && name != "style" && name != "pre" && !s.para && !(closing && hasAttr) {
			return true
		}
	}
	m := reHTMLBlockTag.FindStringSubmatch(rest)
	return m != nil && htmlBlockTags[strings.ToLower(m[1])]
}

func containsFunc(marker string) func(string) bool {
	return func(line string) bool { return strings.Contains(line, marker) }
}

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }

// listMarker parses a bullet or ordered list marker at the start of rest and
// returns the width up to the item's content along with that content. When
// interrupting a paragraph, an ordered list must start at 1 and an item may
// not be empty.
func listMarker(rest string, interrupting bool) (width int, content string, ok bool) {
	n := 0
	if rest != "" && strings.IndexByte("-+*", rest[0]) >= 0 {
		n = 1
	} else {
		for n < len(rest) && n < 9 && rest[n] >= '0' && rest[n] <= '9' {
			n++
		}
		if n == 0 || n == len(rest) || (rest[n] != '.' && rest[n] != ')') {
			return 0, "", false
		}
		if interrupting && rest[:n] != "1" {
			return 0, "", false
		}
		n++
	}
	after := rest[n:]
	if strings.TrimSpace(after) == "" {
		if interrupting {
			return 0, "", false
		}
		return n + 1, "", true
	}
	if after[0] != ' ' && after[0] != '\t' {
		return 0, "", false
	}
	spaces := len(after) - len(strings.TrimLeft(after, " "))
	if spaces == 0 || spaces > 4 {
		return n + 1, after[1:], true
	}
	return n + spaces, after[spaces:], true
}

func isListMarker(rest string) bool {
	_, _, ok := listMarker(rest, false)
	return ok
}

func isThematicBreak(rest string) bool {
	var c byte
	n := 0
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		switch {
		case ch == ' ' || ch == '\t':
		case (ch == '-' || ch == '*' || ch == '_') && (c == 0 || ch == c):
			c = ch
			n++
		default:
			return false
		}
	}
	return n >= 3
}

func isSetextUnderline(rest string) bool {
	t := strings.TrimRight(rest, " \t")
	return t != "" && (strings.Trim(t, "=") == "" || strings.Trim(t, "-") == "")
}

// splitIndent returns the indentation width of line in columns, with tabs
// stopping at multiples of four, and the rest of the line.
func splitIndent(line string) (int, string) {
	col := 0
	i := 0
	for ; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			col += 4 - col%4
		default:
			return col, line[i:]
		}
	}
	return col, ""
}

// dedent strips up to n leading spaces.
func dedent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}

func fenceRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}
