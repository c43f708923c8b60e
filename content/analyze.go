package content

import (
	"regexp"
	"strings"
)

const (
	// WordsPerMinute is the reading speed used by ReadingTime.
	WordsPerMinute = 200
	// ExcerptLength is the default excerpt size in characters.
	ExcerptLength = 150
	// Ellipsis is appended to clipped excerpts.
	Ellipsis = "..."
)

var (
	reFencedCode  = regexp.MustCompile("(?s)```.*?```")
	reHeadingMark = regexp.MustCompile(`#{1,6}\s+`)
	reLink        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reBold        = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic      = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode  = regexp.MustCompile("`([^`]+)`")
	reNewlines    = regexp.MustCompile(`\n+`)
)

// ReadingTime estimates minutes to read body at WordsPerMinute, rounded up.
// An empty body reads in 0 minutes.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// Excerpt returns up to maxLength characters of plain text from a markdown
// body. Clipped text is cut mid-word and ends with Ellipsis.
func Excerpt(body string, maxLength int) string {
	text := PlainText(body)
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength < 0 {
		maxLength = 0
	}
	return strings.TrimSpace(string(runes[:maxLength])) + Ellipsis
}

// PlainText strips the common markdown syntax from body and joins its lines.
func PlainText(body string) string {
	text := reFencedCode.ReplaceAllString(body, "")
	text = reHeadingMark.ReplaceAllString(text, "")
	text = reLink.ReplaceAllString(text, "$1")
	text = reBold.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reInlineCode.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reNewlines.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
