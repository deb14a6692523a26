package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Render(""))
}

func TestRender_PlainText(t *testing.T) {
	result := Render("hello world")
	assert.Contains(t, result, "hello world")
}

func TestRender_Bold(t *testing.T) {
	result := Render("**bold text**")
	assert.Contains(t, result, "<strong>bold text</strong>")
}

func TestRender_Link(t *testing.T) {
	result := Render("[click](https://example.com)")
	assert.Contains(t, result, `<a href="https://example.com"`)
	assert.Contains(t, result, "click</a>")
}

func TestRender_SanitizesScript(t *testing.T) {
	result := Render(`<script>alert("xss")</script>`)
	assert.NotContains(t, result, "<script>")
}

func TestRender_GFMStrikethrough(t *testing.T) {
	result := Render("~~deleted~~")
	assert.Contains(t, result, "<del>deleted</del>")
}

func TestStripTags_EmptyInput(t *testing.T) {
	assert.Equal(t, "", StripTags(""))
}

func TestStripTags_RemovesMarkup(t *testing.T) {
	result := StripTags("<h1>My Project</h1>\n<p>Does <strong>things</strong>.</p>")

	assert.NotContains(t, result, "<")
	assert.Contains(t, result, "My Project")
	assert.Contains(t, result, "things")
}

func TestStripTags_UnescapesEntities(t *testing.T) {
	result := StripTags("<p>this &amp; that</p>")
	assert.Contains(t, result, "this & that")
}

func TestStripTags_TrimsWhitespace(t *testing.T) {
	result := StripTags("  <p>padded</p>  ")
	assert.Equal(t, "padded", result)
}
