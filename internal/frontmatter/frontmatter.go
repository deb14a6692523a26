// Package frontmatter extracts and parses the YAML metadata block at the top
// of a markdown blog post.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for unparseable posts. Callers drop the post in both cases.
var (
	// ErrNoFrontMatter indicates the document has no "---" delimited block.
	ErrNoFrontMatter = errors.New("no front matter block")

	// ErrBadFrontMatter indicates the block exists but cannot be parsed, or
	// lacks a usable date.
	ErrBadFrontMatter = errors.New("malformed front matter")
)

// blockPattern matches a leading front-matter block and captures the YAML
// payload and the remaining body.
var blockPattern = regexp.MustCompile(`(?s)\A---[ \t]*\n(.*?)\n---[ \t]*\n?(.*)\z`)

// Meta is the parsed front-matter metadata of a post.
type Meta struct {
	Title       string
	Summary     string
	Tags        []string
	PublishedAt time.Time
}

// Document is a parsed post: metadata plus the markdown body with the
// front-matter block removed.
type Document struct {
	Meta Meta
	Body string
}

// rawMeta mirrors the YAML field names accepted in the block. summary,
// excerpt, and description are synonyms; date and publishedAt are synonyms.
type rawMeta struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	PublishedAt string   `yaml:"publishedAt"`
	Excerpt     string   `yaml:"excerpt"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

// dateFormats lists accepted date layouts, tried in order.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Parse splits raw into front matter and body. It returns ErrNoFrontMatter
// when the document does not begin with a "---" delimited block, and
// ErrBadFrontMatter when the block is not valid YAML or its date is missing
// or unparseable. Title may be empty; callers supply their own fallback.
func Parse(raw string) (*Document, error) {
	m := blockPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, ErrNoFrontMatter
	}

	var fm rawMeta
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrontMatter, err)
	}

	dateStr := strings.TrimSpace(fm.Date)
	if dateStr == "" {
		dateStr = strings.TrimSpace(fm.PublishedAt)
	}
	if dateStr == "" {
		return nil, fmt.Errorf("%w: missing date", ErrBadFrontMatter)
	}

	publishedAt, err := parseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrontMatter, err)
	}

	summary := firstNonEmpty(fm.Excerpt, fm.Summary, fm.Description)

	return &Document{
		Meta: Meta{
			Title:       strings.TrimSpace(fm.Title),
			Summary:     strings.TrimSpace(summary),
			Tags:        fm.Tags,
			PublishedAt: publishedAt,
		},
		Body: strings.TrimSpace(m[2]),
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
