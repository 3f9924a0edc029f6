// Package render turns stored article bodies (markdown or editor HTML) into
// sanitized HTML, plain text and excerpts.
package render

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = contentPolicy()
)

func contentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-embed", "data-video-platform", "data-video-source").OnElements("div")
	policy.AllowAttrs("src").Matching(embedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "frameborder", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

// Sanitize strips anything outside the content policy from editor HTML.
func Sanitize(raw string) string {
	return sanitizer.Sanitize(raw)
}

// HTML renders an article body. Bodies that already start with a tag are
// treated as editor HTML; everything else is markdown. Standalone video links
// become player iframes in both cases.
func HTML(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", nil
	}
	if IsHTML(trimmed) {
		return sanitizer.Sanitize(applyVideoEmbeds(trimmed)), nil
	}

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(applyVideoEmbeds(trimmed)), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// PlainText returns the visible text of a body with whitespace collapsed.
func PlainText(content string) string {
	rendered, err := HTML(content)
	if err != nil {
		rendered = content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return strings.Join(strings.Fields(content), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns at most limit runes of plain text, cut at a word boundary
// when possible and suffixed with an ellipsis when shortened.
func Excerpt(content string, limit int) string {
	text := PlainText(content)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// IsHTML reports whether a body was written by the rich text editor rather
// than as markdown.
func IsHTML(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") || len(s) < 3 {
		return false
	}
	next := s[1]
	return next == '/' || next == '!' || (next|0x20 >= 'a' && next|0x20 <= 'z')
}
