// Package markdown renders article bodies to HTML with goldmark. Code blocks
// are highlighted with chroma, $-delimited math is passed through for a
// client-side typesetter, and every heading gets an id from content.Slugify.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/labstack/gommon/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "github"

// Logger receives highlighting failures. *log.Logger from gommon satisfies it.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	style     *chroma.Style
	formatter *chromahtml.Formatter
	lookup    func(lang string) chroma.Lexer
	logger    Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCodeStyle selects the chroma style by name. Unknown names fall back to
// chroma's default style.
func WithCodeStyle(name string) Option {
	return func(r *Renderer) {
		r.style = styles.Get(name)
	}
}

// WithLogger sets where highlighting failures are reported.
func WithLogger(l Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		style:  styles.Get(DefaultCodeStyle),
		lookup: lexers.Get,
		logger: log.New("markdown"),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			MathExtension,
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingIDs{}, 100)),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&codeRenderer{r: r}, 200),
				util.Prioritized(linkRenderer{}, 200),
			),
		),
	)
	return r
}

// Render converts md to an HTML fragment.
func (r *Renderer) Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderMarkdown(&buf, md); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderMarkdown writes the HTML representation of md to buf.
func (r *Renderer) RenderMarkdown(buf *bytes.Buffer, md string) error {
	return r.md.Convert([]byte(md), buf)
}

// Markdown returns a templ.Component that renders md as HTML.
func (r *Renderer) Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := r.RenderMarkdown(&buf, md); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// WriteCSS writes the stylesheet for highlighted code blocks.
func (r *Renderer) WriteCSS(w io.Writer) error {
	return r.formatter.WriteCSS(w, r.style)
}

var defaultRenderer = New()

// Render converts md to HTML with the default renderer.
func Render(md string) (string, error) {
	return defaultRenderer.Render(md)
}

// Markdown returns a templ.Component that renders md with the default
// renderer.
func Markdown(md string) templ.Component {
	return defaultRenderer.Markdown(md)
}
