// Package markdown renders README markdown into sanitized HTML and produces
// plain-text excerpts for summaries.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
	tagStripper   *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
	tagStripper = bluemonday.StrictPolicy()
}

// Render converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func Render(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// StripTags removes all HTML markup from src, unescapes entities, and trims
// surrounding whitespace, leaving plain text suitable for a short summary.
func StripTags(src string) string {
	if src == "" {
		return ""
	}

	return strings.TrimSpace(html.UnescapeString(tagStripper.Sanitize(src)))
}
