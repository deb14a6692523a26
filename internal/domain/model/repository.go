package model

import "time"

// Repository is a user's repository as listed by the upstream source, before
// normalization into a Project. The sync pipeline filters out private, forked,
// and archived entries.
type Repository struct {
	Name        string
	FullName    string
	Description string
	Language    string
	Topics      []string
	Stars       int
	PushedAt    time.Time
	HomepageURL string
	IsPrivate   bool
	IsFork      bool
	IsArchived  bool
}
