package markdown

import (
	"bytes"
	"html"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeRenderer replaces goldmark's code block output with chroma markup
// inside the code-block wrapper.
type codeRenderer struct {
	r *Renderer
}

func (c *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, c.renderCodeBlock)
	reg.Register(ast.KindCodeBlock, c.renderCodeBlock)
}

func (c *codeRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var lang string
	if n, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(n.Language(source))
	}
	var code bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	if lang != "" {
		escapedLang := html.EscapeString(lang)
		_, _ = w.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + escapedLang + `">` + escapedLang + `</span>`)
		_, _ = w.WriteString(`<pre class="code-block chroma"><code class="language-` + escapedLang + `">`)
	} else {
		_, _ = w.WriteString(`<pre class="code-block chroma"><code>`)
	}
	_, _ = w.WriteString(c.r.highlight(lang, code.String()))
	_, _ = w.WriteString("</code></pre>")
	if lang != "" {
		_, _ = w.WriteString("</div>")
	}
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

// highlight returns code as chroma markup. When the lexer for the declared
// language fails, the language is guessed from the code instead. Failures
// are logged and, if guessing fails too, the code is returned escaped but
// otherwise untouched.
func (r *Renderer) highlight(lang, code string) string {
	out, err := r.format(r.lexerFor(lang, code), code)
	if err != nil && lang != "" {
		r.logger.Warnf("highlight %q: %v, guessing the language", lang, err)
		out, err = r.format(r.lexerFor("", code), code)
	}
	if err != nil {
		r.logger.Warnf("highlight %q: %v", lang, err)
		return html.EscapeString(code)
	}
	return out
}

func (r *Renderer) format(lexer chroma.Lexer, code string) (string, error) {
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// lexerFor picks the lexer for the declared language, guessing from the code
// when the language is missing or unknown.
func (r *Renderer) lexerFor(lang, code string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = r.lookup(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}
