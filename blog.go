package mdblog

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("mdblog: post not found")

// DefaultRecentLimit is the number of posts GetRecentPosts callers use when
// they have no preference.
const DefaultRecentLimit = 5

// DefaultPopularTags is the curated tag list served by GetPopularTags when
// the configuration does not name one.
var DefaultPopularTags = []string{"FRM一级", "FRM", "风险管理", "量化", "投资", "工具", "笔记"}

// Service answers queries over an immutable, date-sorted collection of
// articles. All methods are safe for concurrent use and return fresh slices.
type Service struct {
	posts   []Article
	popular []string
}

// NewService copies posts, sorts them newest first and serves popular as the
// popular tag list.
func NewService(posts []Article, popular []string) *Service {
	s := &Service{
		posts:   append([]Article(nil), posts...),
		popular: append([]string(nil), popular...),
	}
	sortByDate(s.posts)
	return s
}

// Len returns the number of articles.
func (s *Service) Len() int {
	return len(s.posts)
}

// GetAllPosts returns every article, newest first.
func (s *Service) GetAllPosts() []Article {
	return s.filter(func(Article) bool { return true })
}

// GetPostBySlug returns the article with the given slug, or ErrNotFound.
func (s *Service) GetPostBySlug(slug string) (Article, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Article{}, ErrNotFound
}

// GetPostsByCategory returns the articles whose category equals name,
// ignoring case.
func (s *Service) GetPostsByCategory(name string) []Article {
	want := strings.ToLower(name)
	return s.filter(func(p Article) bool {
		return strings.ToLower(p.Category) == want
	})
}

// GetPostsByTag returns the articles carrying tag. Tags are compared after
// NFKC normalization, lowercasing and trimming.
func (s *Service) GetPostsByTag(tag string) []Article {
	want := normalizeTag(tag)
	return s.filter(func(p Article) bool {
		for _, t := range p.Tags {
			if normalizeTag(t) == want {
				return true
			}
		}
		return false
	})
}

// SearchPosts returns the articles whose title, content or any tag contains
// query, ignoring case. An empty query matches everything.
func (s *Service) SearchPosts(query string) []Article {
	q := strings.ToLower(query)
	return s.filter(func(p Article) bool {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Content), q) {
			return true
		}
		for _, t := range p.Tags {
			if strings.Contains(strings.ToLower(t), q) {
				return true
			}
		}
		return false
	})
}

// GetRelatedPosts returns up to limit other articles in the same category or
// sharing at least one tag with post, in collection order.
func (s *Service) GetRelatedPosts(post Article, limit int) []Article {
	related := []Article{}
	if limit <= 0 {
		return related
	}
	tags := make(map[string]struct{}, len(post.Tags))
	for _, t := range post.Tags {
		tags[t] = struct{}{}
	}
	for _, p := range s.posts {
		if p.Slug == post.Slug {
			continue
		}
		if p.Category == post.Category || sharesTag(p.Tags, tags) {
			related = append(related, p)
			if len(related) == limit {
				break
			}
		}
	}
	return related
}

func sharesTag(tags []string, set map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// GetRecentPosts returns the limit newest articles.
func (s *Service) GetRecentPosts(limit int) []Article {
	if limit <= 0 {
		return []Article{}
	}
	if limit > len(s.posts) {
		limit = len(s.posts)
	}
	return append([]Article{}, s.posts[:limit]...)
}

// GetCategories returns each distinct category with its post count, in the
// order categories first appear.
func (s *Service) GetCategories() []Category {
	categories := []Category{}
	index := make(map[string]int)
	for _, p := range s.posts {
		if i, ok := index[p.Category]; ok {
			categories[i].Count++
			continue
		}
		index[p.Category] = len(categories)
		categories = append(categories, Category{
			Name:  p.Category,
			Count: 1,
			Slug:  url.PathEscape(p.Category),
		})
	}
	return categories
}

// GetAllTags returns the distinct tags of all articles, sorted.
func (s *Service) GetAllTags() []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, p := range s.posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	sort.Strings(tags)
	return tags
}

// GetPopularTags returns the configured popular tag list. It does not look
// at the collection.
func (s *Service) GetPopularTags() []string {
	return append([]string{}, s.popular...)
}

func (s *Service) filter(keep func(Article) bool) []Article {
	out := []Article{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func normalizeTag(t string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFKC.String(t)))
}
