package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every tag; script and style contents go with them.
var strict = bluemonday.StrictPolicy()

var (
	anchorTag     = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["'](https?://[^"']+)["'][^>]*>(.*?)</a\s*>`)
	blockBoundary = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/div|/h[1-6]|/li|/tr|/blockquote|/pre|/table)\s*>`)
	inlineSpace   = regexp.MustCompile(`[ \t]+`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// PlainText renders an HTML email body as a readable plain-text alternative.
// Block elements end a line and http(s) links keep their target in
// parentheses after the link text.
func PlainText(s string) string {
	s = anchorTag.ReplaceAllString(s, "$2 ($1)")
	s = blockBoundary.ReplaceAllStringFunc(s, func(m string) string { return m + "\n" })

	text := html.UnescapeString(strict.Sanitize(s))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}
	text = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(text)
}

// HeaderText makes s safe for a single-line mail header such as Subject or
// the From display name. Tags are removed, entities decoded, and control
// characters including CR and LF become spaces, so a value cannot start a
// new header. Runs of whitespace collapse to one space.
func HeaderText(s string) string {
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(strict.Sanitize(s))
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
