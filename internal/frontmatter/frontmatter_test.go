package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormed(t *testing.T) {
	raw := `---
title: "Shipping a Side Project"
date: 2026-02-10
excerpt: Lessons from launching on a weekend
tags: [go, indie]
---
The body starts here.

Second paragraph.`

	doc, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Shipping a Side Project", doc.Meta.Title)
	assert.Equal(t, "Lessons from launching on a weekend", doc.Meta.Summary)
	assert.Equal(t, []string{"go", "indie"}, doc.Meta.Tags)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), doc.Meta.PublishedAt)
	assert.Equal(t, "The body starts here.\n\nSecond paragraph.", doc.Body)
}

func TestParse_NoDelimiters(t *testing.T) {
	_, err := Parse("# Just a heading\n\nRegular markdown, no metadata.")
	assert.ErrorIs(t, err, ErrNoFrontMatter)
}

func TestParse_DelimiterNotAtStart(t *testing.T) {
	_, err := Parse("intro text\n---\ntitle: x\ndate: 2026-01-01\n---\nbody")
	assert.ErrorIs(t, err, ErrNoFrontMatter)
}

func TestParse_MissingDate(t *testing.T) {
	raw := `---
title: No Date Here
---
body`

	_, err := Parse(raw)
	assert.ErrorIs(t, err, ErrBadFrontMatter)
}

func TestParse_UnparseableDate(t *testing.T) {
	raw := `---
title: Bad Date
date: sometime last spring
---
body`

	_, err := Parse(raw)
	assert.ErrorIs(t, err, ErrBadFrontMatter)
}

func TestParse_InvalidYAML(t *testing.T) {
	raw := `---
title: [unclosed
date: 2026-01-01
---
body`

	_, err := Parse(raw)
	assert.ErrorIs(t, err, ErrBadFrontMatter)
}

func TestParse_DateFormats(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"rfc3339", "2026-02-10T08:30:00Z", time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC)},
		{"date only", "2026-02-10", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"long form", "February 10, 2026", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("---\ntitle: t\ndate: " + tt.date + "\n---\nbody")
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Meta.PublishedAt)
		})
	}
}

func TestParse_SummarySynonyms(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"excerpt", "excerpt: from excerpt", "from excerpt"},
		{"summary", "summary: from summary", "from summary"},
		{"description", "description: from description", "from description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse("---\ntitle: t\ndate: 2026-01-01\n" + tt.line + "\n---\nbody")
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Meta.Summary)
		})
	}
}

func TestParse_PublishedAtSynonym(t *testing.T) {
	doc, err := Parse("---\ntitle: t\npublishedAt: 2026-01-05\n---\nbody")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), doc.Meta.PublishedAt)
}

func TestParse_EmptyTitleAllowed(t *testing.T) {
	doc, err := Parse("---\ndate: 2026-01-05\n---\nbody")
	require.NoError(t, err)
	assert.Empty(t, doc.Meta.Title)
	assert.Equal(t, "body", doc.Body)
}

func TestParse_EmptyBody(t *testing.T) {
	doc, err := Parse("---\ntitle: t\ndate: 2026-01-05\n---\n")
	require.NoError(t, err)
	assert.Empty(t, doc.Body)
}
