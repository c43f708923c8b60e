package mdblog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/eringen/mdblog/content"
)

const (
	// DefaultTitle is used when a document has neither a title nor a level-1
	// heading.
	DefaultTitle = "Untitled"
	// DefaultCategory is used when a document has no category.
	DefaultCategory = "General"

	dateLayout = "2006-01-02"
)

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
}

// Loader turns the markdown documents of a content tree into Articles.
type Loader struct {
	fsys   fs.FS
	now    func() time.Time
	logger Logger
	covers bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithClock sets the clock used for the default date.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// WithLoaderLogger sets where the Loader reports skipped files and slug
// collisions.
func WithLoaderLogger(logger Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithoutCovers disables cover image probing.
func WithoutCovers() LoaderOption {
	return func(l *Loader) {
		l.covers = false
	}
}

// NewLoader creates a Loader over fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:   fsys,
		now:    time.Now,
		logger: defaultLogger,
		covers: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every *.md file in lexical order and returns the articles sorted
// newest first. A missing content root yields no articles and no error.
func (l *Loader) Load(ctx context.Context) ([]Article, error) {
	var articles []Article
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(path.Ext(p), ".md") {
			return nil
		}
		raw, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			l.logger.Warnf("mdblog: skip %s: %v", p, err)
			return nil
		}
		articles = append(articles, l.parse(p, string(raw)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mdblog: load content: %w", err)
	}
	l.dedupeSlugs(articles)
	sortByDate(articles)
	return articles, nil
}

func (l *Loader) parse(p, raw string) Article {
	fm, body := content.ParseFrontmatter(raw)

	title := fm.String("title")
	if title == "" {
		title = titleFromBody(body)
	}
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))

	date := fm.String("date")
	if date == "" {
		date = l.now().Format(dateLayout)
	}
	category := fm.String("category")
	if category == "" {
		category = DefaultCategory
	}
	explicit := fm.String("slug")
	if fm.Has("slug") && content.Slugify(explicit) == "" {
		l.logger.Warnf("mdblog: %s: ignoring slug %q without letters or digits", p, explicit)
	}

	a := Article{
		Slug:        articleSlug(explicit, name, title),
		Title:       title,
		Excerpt:     content.Excerpt(body, content.ExcerptLength),
		Content:     body,
		Category:    category,
		Tags:        uniqueTags(fm.List("tags")),
		Date:        date,
		ReadingTime: content.ReadingTime(body),
		Author:      fm.String("author"),
		CoverImage:  fm.String("coverImage"),
		Source:      p,
		published:   parseDate(date),
	}
	if l.covers && a.CoverImage != "" {
		a.Cover = l.probeCover(p, a.CoverImage)
	}
	return a
}

// articleSlug picks the first non-empty candidate: the frontmatter slug, the
// file name, then the title. When all of them slugify to nothing the file
// name is used verbatim.
func articleSlug(explicit, name, title string) string {
	for _, candidate := range []string{explicit, name, title} {
		if s := content.Slugify(candidate); s != "" {
			return s
		}
	}
	if s := strings.TrimSpace(name); s != "" {
		return s
	}
	return "untitled"
}

func titleFromBody(body string) string {
	for _, h := range content.ScanHeadings(body) {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	return DefaultTitle
}

// uniqueTags drops repeated tags, keeping the first spelling.
func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		key := normalizeTag(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// dedupeSlugs gives later documents with a taken slug a -2, -3, ... suffix.
func (l *Loader) dedupeSlugs(articles []Article) {
	taken := make(map[string]bool, len(articles))
	for i := range articles {
		slug := articles[i].Slug
		if taken[slug] {
			n := 2
			for taken[fmt.Sprintf("%s-%d", slug, n)] {
				n++
			}
			renamed := fmt.Sprintf("%s-%d", slug, n)
			l.logger.Warnf("mdblog: slug %q of %s already taken, using %q", slug, articles[i].Source, renamed)
			articles[i].Slug = renamed
		}
		taken[articles[i].Slug] = true
	}
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sortByDate orders articles newest first. Articles with unparseable dates
// go last, and ties keep their order.
func sortByDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		ti, iok := articles[i].Published()
		tj, jok := articles[j].Published()
		if iok && jok {
			return ti.After(tj)
		}
		return iok && !jok
	})
}
