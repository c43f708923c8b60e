package mdblog

import (
	"time"

	"github.com/eringen/mdblog/content"
)

// Article is a loaded blog post. Articles are values and are never mutated
// after the Loader builds them.
type Article struct {
	Slug        string   `json:"slug" yaml:"slug"`
	Title       string   `json:"title" yaml:"title"`
	Excerpt     string   `json:"excerpt" yaml:"excerpt"`
	Content     string   `json:"content" yaml:"content"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
	Date        string   `json:"date" yaml:"date"`
	ReadingTime int      `json:"readingTime" yaml:"readingTime"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty" yaml:"coverImage,omitempty"`
	Cover       *Cover   `json:"cover,omitempty" yaml:"cover,omitempty"`

	// Source is the document path inside the content tree.
	Source string `json:"-" yaml:"-"`

	published time.Time
}

// Published returns the parsed Date. ok is false when Date matched none of
// the accepted layouts.
func (a Article) Published() (t time.Time, ok bool) {
	return a.published, !a.published.IsZero()
}

// Cover describes a cover image found in the content tree.
type Cover struct {
	Src    string `json:"src" yaml:"src"` // served under /media/
	Path   string `json:"-" yaml:"-"`     // path inside the content tree
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Category is a distinct category with the number of posts in it.
type Category struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	Slug  string `json:"slug" yaml:"slug"`
}

// RenderedPost is an article with its HTML and table of contents.
type RenderedPost struct {
	Article Article            `json:"post" yaml:"post"`
	HTML    string             `json:"html" yaml:"html"`
	TOC     []*content.TOCNode `json:"toc" yaml:"toc"`
}

// PageMeta carries per-page OpenGraph and SEO metadata for a page layer.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`    // canonical + og:url
	OGType      string `json:"ogType"` // "website" or "article"
	Image       string `json:"image,omitempty"`
	JSONLD      string `json:"jsonLd,omitempty"`
}
