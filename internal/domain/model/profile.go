package model

import "time"

// Profile is the per-user portfolio configuration record. It is stored as a
// single serialized blob capped at 4 KiB; Bio gets its own per-field cap.
type Profile struct {
	Bio               string            `json:"bio,omitempty"`
	TwitterURL        string            `json:"twitterUrl,omitempty"`
	LinkedinURL       string            `json:"linkedinUrl,omitempty"`
	InstagramURL      string            `json:"instagramUrl,omitempty"`
	IncludeRepos      []string          `json:"includeRepos,omitempty"`
	ExcludeRepos      []string          `json:"excludeRepos,omitempty"`
	CustomPreviewURLs map[string]string `json:"customPreviewUrls,omitempty"`
}

// ProfileCapBytes is the byte budget for a serialized profile record.
const ProfileCapBytes = 4 * 1024

// ProfileBioCapBytes is the per-field byte budget for the bio.
const ProfileBioCapBytes = 1024

// SyncSummary reports what a sync run actually persisted.
type SyncSummary struct {
	Projects int
	Posts    int
	RanAt    time.Time
}
