package mdblog

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/eringen/mdblog/content"
	"github.com/eringen/mdblog/markdown"
)

// Library holds the current Service and a cache of rendered posts. Reload
// swaps the whole collection at once, so readers never see a partial load.
type Library struct {
	mu       sync.RWMutex
	svc      *Service
	rendered map[string]RenderedPost
	loadedAt time.Time
	samples  bool
	files    fs.FS

	reloadMu sync.Mutex
	content  fs.FS
	sample   fs.FS
	renderer *markdown.Renderer
	popular  []string
	logger   Logger
	now      func() time.Time
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithRenderer sets the markdown renderer.
func WithRenderer(r *markdown.Renderer) LibraryOption {
	return func(l *Library) {
		l.renderer = r
	}
}

// WithPopularTags sets the list served by GetPopularTags.
func WithPopularTags(tags []string) LibraryOption {
	return func(l *Library) {
		l.popular = tags
	}
}

// WithLogger sets the Library's logger. It is also passed to the Loader.
func WithLogger(logger Logger) LibraryOption {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSamples replaces the built-in sample articles. A nil fsys disables
// the fallback.
func WithSamples(fsys fs.FS) LibraryOption {
	return func(l *Library) {
		l.sample = fsys
	}
}

// WithLibraryClock sets the clock used for default dates.
func WithLibraryClock(now func() time.Time) LibraryOption {
	return func(l *Library) {
		l.now = now
	}
}

// NewLibrary creates a Library over the content tree. It starts empty; call
// Reload to load it.
func NewLibrary(contentFS fs.FS, opts ...LibraryOption) *Library {
	samples, _ := fs.Sub(SampleContent, "samples")
	l := &Library{
		content: contentFS,
		sample:  samples,
		popular: DefaultPopularTags,
		logger:  defaultLogger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.renderer == nil {
		l.renderer = markdown.New(markdown.WithLogger(l.logger))
	}
	l.svc = NewService(nil, l.popular)
	return l
}

// Reload reads the content tree and replaces the collection. When the tree
// has no documents the sample articles are used instead. Concurrent reloads
// run one at a time.
func (l *Library) Reload(ctx context.Context) error {
	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()

	opts := []LoaderOption{WithClock(l.now), WithLoaderLogger(l.logger)}
	posts, err := NewLoader(l.content, opts...).Load(ctx)
	if err != nil {
		return err
	}
	files, samples := l.content, false
	if len(posts) == 0 && l.sample != nil {
		posts, err = NewLoader(l.sample, opts...).Load(ctx)
		if err != nil {
			return fmt.Errorf("mdblog: load samples: %w", err)
		}
		files, samples = l.sample, true
	}
	svc := NewService(posts, l.popular)

	l.mu.Lock()
	l.svc = svc
	l.rendered = nil
	l.loadedAt = l.now()
	l.samples = samples
	l.files = files
	l.mu.Unlock()

	l.logger.Infof("mdblog: loaded %d posts (samples: %t)", svc.Len(), samples)
	return nil
}

// Service returns the current collection.
func (l *Library) Service() *Service {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.svc
}

// UsingSamples reports whether the last Reload fell back to the samples.
func (l *Library) UsingSamples() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.samples
}

// LoadedAt returns the time of the last successful Reload.
func (l *Library) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}

// Files returns the tree the current collection was loaded from: the content
// tree, or the samples after a fallback.
func (l *Library) Files() fs.FS {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.files == nil {
		return l.content
	}
	return l.files
}

// Renderer returns the markdown renderer used for posts.
func (l *Library) Renderer() *markdown.Renderer {
	return l.renderer
}

// Invalidate clears the render cache so the next Render re-renders.
func (l *Library) Invalidate() {
	l.mu.Lock()
	l.rendered = nil
	l.mu.Unlock()
}

// Render returns the HTML and table of contents for slug, rendering it on
// first use. It tries a read lock first and only takes the write lock to
// fill the cache.
func (l *Library) Render(slug string) (RenderedPost, error) {
	l.mu.RLock()
	if rp, ok := l.rendered[slug]; ok {
		l.mu.RUnlock()
		return rp, nil
	}
	svc := l.svc
	l.mu.RUnlock()

	post, err := svc.GetPostBySlug(slug)
	if err != nil {
		return RenderedPost{}, err
	}
	html, err := l.renderer.Render(post.Content)
	if err != nil {
		return RenderedPost{}, fmt.Errorf("mdblog: render %s: %w", slug, err)
	}
	rp := RenderedPost{
		Article: post,
		HTML:    html,
		TOC:     content.ExtractTOC(post.Content),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.svc != svc {
		// Reloaded meanwhile; don't cache a post from the old collection.
		return rp, nil
	}
	if l.rendered == nil {
		l.rendered = make(map[string]RenderedPost)
	}
	l.rendered[slug] = rp
	return rp, nil
}
