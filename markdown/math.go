package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the NodeKind of inline math.
var KindMath = ast.NewNodeKind("Math")

// Math is a $...$ or $$...$$ expression inside a paragraph.
type Math struct {
	ast.BaseInline
	Display bool
	Segment text.Segment
}

func (n *Math) Kind() ast.NodeKind { return KindMath }

func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": boolString(n.Display),
		"TeX":     string(n.Segment.Value(source)),
	}, nil)
}

// KindMathBlock is the NodeKind of display math blocks.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// MathBlock is display math fenced by lines of "$$".
type MathBlock struct {
	ast.BaseBlock
	indent int
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

func (n *MathBlock) IsRaw() bool { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type mathExtension struct{}

// MathExtension is a goldmark extension for TeX math. The expressions are escaped and
// wrapped as \(...\) or \[...\] for a client-side typesetter, so a malformed
// expression never fails the render.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(mathBlockParser{}, 701)),
		parser.WithInlineParsers(util.Prioritized(mathInlineParser{}, 501)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(mathRenderer{}, 500)),
	)
}

type mathInlineParser struct{}

func (mathInlineParser) Trigger() []byte {
	return []byte{'$'}
}

func (mathInlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	end := closingDollar(line, delim)
	if end < 0 {
		return nil
	}
	node := &Math{
		Display: delim == 2,
		Segment: text.NewSegment(segment.Start+delim, segment.Start+end),
	}
	block.Advance(end + delim)
	return node
}

// closingDollar returns the offset of the closing delimiter in line, or -1.
// Single-dollar math must not start or end with a space and must not be
// followed by a digit, so prices like "$5 and $10" stay text.
func closingDollar(line []byte, delim int) int {
	if delim == 2 {
		i := bytes.Index(line[2:], []byte("$$"))
		if i <= 0 {
			return -1
		}
		return i + 2
	}
	if len(line) < 3 || isSpace(line[1]) {
		return -1
	}
	for i := 2; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			if isSpace(line[i-1]) {
				continue
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			return i
		}
	}
	return -1
}

type mathBlockParser struct{}

func (mathBlockParser) Trigger() []byte {
	return []byte{'$'}
}

func (mathBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !isMathFence(line[pos:]) {
		return nil, parser.NoChildren
	}
	return &MathBlock{indent: pos}, parser.NoChildren
}

func (mathBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && isMathFence(line[pos:]) {
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	pos, padding := util.IndentPosition(line, reader.LineOffset(), node.(*MathBlock).indent)
	if pos < 0 {
		pos, padding = 0, 0
	}
	node.Lines().Append(text.NewSegmentPadding(segment.Start+pos, segment.Stop, padding))
	reader.AdvanceAndSetPadding(segment.Stop-segment.Start-pos-1, padding)
	return parser.Continue | parser.NoChildren
}

func (mathBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (mathBlockParser) CanInterruptParagraph() bool { return true }

func (mathBlockParser) CanAcceptIndentedLine() bool { return false }

// isMathFence reports whether line is "$$" with nothing but whitespace after.
func isMathFence(line []byte) bool {
	return len(line) >= 2 && line[0] == '$' && line[1] == '$' && util.IsBlank(line[2:])
}

type mathRenderer struct{}

func (mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, renderMath)
	reg.Register(KindMathBlock, renderMathBlock)
}

func renderMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Math)
	tex := util.EscapeHTML(n.Segment.Value(source))
	if n.Display {
		_, _ = w.WriteString(`<span class="math math-display">\[`)
		_, _ = w.Write(tex)
		_, _ = w.WriteString(`\]</span>`)
	} else {
		_, _ = w.WriteString(`<span class="math math-inline">\(`)
		_, _ = w.Write(tex)
		_, _ = w.WriteString(`\)</span>`)
	}
	return ast.WalkSkipChildren, nil
}

func renderMathBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<div class="math math-display">\[`)
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	_, _ = w.WriteString("\\]</div>\n")
	return ast.WalkSkipChildren, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
