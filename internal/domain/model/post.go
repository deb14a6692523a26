package model

import (
	"fmt"
	"time"
)

// ContentCapBytes is the byte budget for a post's markdown body.
const ContentCapBytes = 20 * 1024

// Post represents one blog article derived from a markdown file with front
// matter. The collection for a user is fully replaced on every sync run;
// files without parseable front matter never become posts.
type Post struct {
	ID          int64
	Username    string
	Slug        string
	Title       string
	Summary     string
	ContentMdx  string
	Tags        []string
	PublishedAt time.Time
}

// Validate checks the invariants every stored post must satisfy.
func (p *Post) Validate() error {
	if p.Slug == "" {
		return fmt.Errorf("post has empty slug")
	}
	if p.Title == "" {
		return fmt.Errorf("post %q: empty title", p.Slug)
	}
	if p.PublishedAt.IsZero() {
		return fmt.Errorf("post %q: missing publishedAt", p.Slug)
	}
	if len(p.Summary) > SummaryCapBytes {
		return fmt.Errorf("post %q: summary exceeds %d bytes", p.Slug, SummaryCapBytes)
	}
	if len(p.ContentMdx) > ContentCapBytes {
		return fmt.Errorf("post %q: content exceeds %d bytes", p.Slug, ContentCapBytes)
	}
	return nil
}

// ValidatePosts validates every post and the collection-level invariant that
// slug is unique within the user.
func ValidatePosts(posts []Post) error {
	seen := make(map[string]struct{}, len(posts))
	for i := range posts {
		if err := posts[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[posts[i].Slug]; dup {
			return fmt.Errorf("duplicate post slug %q", posts[i].Slug)
		}
		seen[posts[i].Slug] = struct{}{}
	}
	return nil
}
