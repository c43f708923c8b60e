package mdblog

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/mdblog/content"
)

const relatedLimit = 2

var mediaTypes = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

type postList struct {
	Posts []Article `json:"posts"`
	Count int       `json:"count"`
}

type postResponse struct {
	Post    Article            `json:"post"`
	HTML    string             `json:"html"`
	TOC     []*content.TOCNode `json:"toc"`
	Related []Article          `json:"related"`
	Meta    PageMeta           `json:"meta"`
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", a.handleHealth)
	e.GET("/media/*", a.handleMedia)

	api := e.Group("/api")
	api.GET("/site", a.handleSite)
	api.GET("/posts", a.handlePosts, a.searchLimit)
	api.GET("/posts/recent", a.handleRecentPosts)
	api.GET("/posts/:slug", a.handlePost)
	api.GET("/posts/:slug/html", a.handlePostHTML)
	api.GET("/posts/:slug/cover", a.handleCover)
	api.GET("/categories", a.handleCategories)
	api.GET("/categories/:name/posts", a.handleCategoryPosts)
	api.GET("/tags", a.handleTags)
	api.GET("/tags/popular", a.handlePopularTags)
	api.GET("/tags/:name/posts", a.handleTagPosts)
	api.GET("/highlight.css", a.handleHighlightCSS)
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"posts":    a.Library.Service().Len(),
		"samples":  a.Library.UsingSamples(),
		"loadedAt": a.Library.LoadedAt(),
	})
}

func (a *App) handleSite(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":        a.Config.Name,
		"url":         a.Config.URL,
		"description": a.Config.Description,
		"meta":        SiteMeta(a.Config),
	})
}

func (a *App) handlePosts(c echo.Context) error {
	limit, err := queryLimit(c, 0)
	if err != nil {
		return err
	}
	svc := a.Library.Service()
	var posts []Article
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		posts = svc.SearchPosts(q)
	} else {
		posts = svc.GetAllPosts()
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return c.JSON(http.StatusOK, postList{Posts: posts, Count: len(posts)})
}

func (a *App) handleRecentPosts(c echo.Context) error {
	limit, err := queryLimit(c, DefaultRecentLimit)
	if err != nil {
		return err
	}
	posts := a.Library.Service().GetRecentPosts(limit)
	return c.JSON(http.StatusOK, postList{Posts: posts, Count: len(posts)})
}

func (a *App) handlePost(c echo.Context) error {
	rp, err := a.Library.Render(c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postResponse{
		Post:    rp.Article,
		HTML:    rp.HTML,
		TOC:     rp.TOC,
		Related: a.Library.Service().GetRelatedPosts(rp.Article, relatedLimit),
		Meta:    PostMeta(rp.Article, a.Config),
	})
}

func (a *App) handlePostHTML(c echo.Context) error {
	post, err := a.Library.Service().GetPostBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	return Render(c, a.Library.Renderer().Markdown(post.Content))
}

func (a *App) handleCover(c echo.Context) error {
	post, err := a.Library.Service().GetPostBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	if post.Cover == nil {
		return echo.NewHTTPError(http.StatusNotFound, "post has no cover image")
	}
	width := 0
	if v := c.QueryParam("w"); v != "" {
		width, err = strconv.Atoi(v)
		if err != nil || width <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "w must be a positive integer")
		}
	}

	files := a.Library.Files()
	f, err := files.Open(post.Cover.Path)
	if err != nil {
		return fmt.Errorf("mdblog: open cover: %w", err)
	}
	defer f.Close()
	if width > 0 {
		data, resized, err := resizeCover(f, width)
		if err != nil {
			return fmt.Errorf("mdblog: resize cover: %w", err)
		}
		if resized {
			return c.Blob(http.StatusOK, "image/jpeg", data)
		}
	}
	return serveFile(c, files, post.Cover.Path)
}

func (a *App) handleMedia(c echo.Context) error {
	p := path.Clean(strings.TrimPrefix(c.Param("*"), "/"))
	if !fs.ValidPath(p) || !mediaTypes[strings.ToLower(path.Ext(p))] {
		return echo.ErrNotFound
	}
	return serveFile(c, a.Library.Files(), p)
}

func serveFile(c echo.Context, files fs.FS, p string) error {
	f, err := files.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && info.IsDir() {
		return echo.ErrNotFound
	}
	ctype := mime.TypeByExtension(path.Ext(p))
	if ctype == "" {
		ctype = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, ctype, f)
}

func (a *App) handleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"categories": a.Library.Service().GetCategories()})
}

func (a *App) handleCategoryPosts(c echo.Context) error {
	posts := a.Library.Service().GetPostsByCategory(pathParam(c, "name"))
	return c.JSON(http.StatusOK, postList{Posts: posts, Count: len(posts)})
}

func (a *App) handleTags(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tags": a.Library.Service().GetAllTags()})
}

func (a *App) handlePopularTags(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tags": a.Library.Service().GetPopularTags()})
}

func (a *App) handleTagPosts(c echo.Context) error {
	posts := a.Library.Service().GetPostsByTag(pathParam(c, "name"))
	return c.JSON(http.StatusOK, postList{Posts: posts, Count: len(posts)})
}

func (a *App) handleHighlightCSS(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/css; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return a.Library.Renderer().WriteCSS(c.Response())
}

// pathParam returns the named path parameter with percent-escapes decoded.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// queryLimit parses the limit query parameter, returning def when absent.
func queryLimit(c echo.Context, def int) (int, error) {
	v := c.QueryParam("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
	}
	return n, nil
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		msg = fmt.Sprint(he.Message)
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
		msg = "post not found"
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		msg = http.StatusText(code)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}
