package notify

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^<]+?>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// HTMLToPlain derives the plain-text alternative body from an HTML email:
// strip tags, unescape the four basic entities, collapse whitespace.
func HTMLToPlain(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
