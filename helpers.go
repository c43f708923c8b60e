package mdblog

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL returns the canonical URL of a post.
func PostURL(cfg SiteConfig, slug string) string {
	return BuildURL(cfg.URL, "posts", slug)
}

// PostMeta returns the page metadata for a post page.
func PostMeta(post Article, cfg SiteConfig) PageMeta {
	meta := PageMeta{
		Title:       post.Title + " | " + cfg.Name,
		Description: post.Excerpt,
		URL:         PostURL(cfg, post.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(post, cfg),
	}
	if post.Cover != nil {
		meta.Image = strings.TrimRight(cfg.URL, "/") + post.Cover.Src
	} else if u, err := url.Parse(post.CoverImage); err == nil && u.IsAbs() {
		meta.Image = post.CoverImage
	}
	return meta
}

// SiteMeta returns the page metadata for the site's front page.
func SiteMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(cfg),
	}
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema. The
// post's author wins over the site author.
func BlogPostingJsonLD(post Article, cfg SiteConfig) string {
	postURL := PostURL(cfg, post.Slug)
	data := map[string]interface{}{
		"@context":       "https://schema.org",
		"@type":          "BlogPosting",
		"headline":       post.Title,
		"description":    post.Excerpt,
		"datePublished":  post.Date,
		"articleSection": post.Category,
		"timeRequired":   "PT" + strconv.Itoa(post.ReadingTime) + "M",
		"url":            postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
