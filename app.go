// Package mdblog is a markdown blog engine built with Go and Echo. It loads
// a tree of markdown documents with frontmatter, answers queries over them
// and serves the posts, their HTML and tables of contents as a JSON API.
//
// The text pipeline lives in the content and markdown packages; this
// package loads, holds and serves the collection.
package mdblog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/markdown"
)

// App is the central mdblog application. It wires together the library,
// handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Library *Library

	searchLimiter *SearchLimiter
	customRoutes  []func(*App)
}

// New creates a new mdblog App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init loads the content and sets up middleware and routes. Start calls it;
// it is exported so the App can be served by other means, such as httptest.
func (a *App) Init(ctx context.Context) error {
	if a.Library == nil {
		renderer := markdown.New(
			markdown.WithCodeStyle(a.Config.CodeStyle),
			markdown.WithLogger(a.Echo.Logger),
		)
		a.Library = NewLibrary(os.DirFS(a.Config.ContentDir),
			WithRenderer(renderer),
			WithPopularTags(a.Config.PopularTags),
			WithLogger(a.Echo.Logger),
		)
	}
	if err := a.Library.Reload(ctx); err != nil {
		return fmt.Errorf("mdblog: init library: %w", err)
	}

	a.searchLimiter = NewSearchLimiter(a.Config.SearchRate, a.Config.SearchBurst, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	defer a.Close()

	if a.Config.Watch {
		go func() {
			if err := Watch(ctx, a.Config.ContentDir, a.Library, a.Config.Debounce.Duration); err != nil {
				a.Echo.Logger.Warnf("mdblog: watch disabled: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Echo.Shutdown(shutdownCtx)
	}()

	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.searchLimiter != nil {
		a.searchLimiter.Stop()
	}
	return nil
}
