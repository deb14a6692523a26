package model

import (
	"fmt"
	"strings"
	"time"
)

// SummaryCapBytes is the byte budget for a project or post summary.
const SummaryCapBytes = 800

// Project represents one synced public repository in a user's portfolio.
// The collection for a user is fully replaced on every sync run.
type Project struct {
	ID              int64
	Username        string
	FullName        string
	Name            string
	DescriptionHTML string
	Language        string
	Topics          []string
	Stars           int
	PushedAt        time.Time
	HomepageURL     string
	PreviewURL      string
	Summary         string
}

// Owner returns the owner half of FullName, or empty when FullName is malformed.
func (p *Project) Owner() string {
	owner, _, ok := strings.Cut(p.FullName, "/")
	if !ok {
		return ""
	}
	return owner
}

// Validate checks the invariants every stored project must satisfy.
func (p *Project) Validate() error {
	if p.FullName == "" {
		return fmt.Errorf("project has empty fullName")
	}
	if !strings.Contains(p.FullName, "/") {
		return fmt.Errorf("project %q: fullName is not owner/name", p.FullName)
	}
	if p.Name == "" {
		return fmt.Errorf("project %q: empty name", p.FullName)
	}
	if p.Stars < 0 {
		return fmt.Errorf("project %q: negative stars %d", p.FullName, p.Stars)
	}
	if len(p.Summary) > SummaryCapBytes {
		return fmt.Errorf("project %q: summary exceeds %d bytes", p.FullName, SummaryCapBytes)
	}
	return nil
}

// ValidateProjects validates every project and the collection-level invariant
// that fullName is unique within the user.
func ValidateProjects(projects []Project) error {
	seen := make(map[string]struct{}, len(projects))
	for i := range projects {
		if err := projects[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[projects[i].FullName]; dup {
			return fmt.Errorf("duplicate project fullName %q", projects[i].FullName)
		}
		seen[projects[i].FullName] = struct{}{}
	}
	return nil
}
