// Package preview resolves a "live demo" URL for a project from explicit
// metadata, free-text README content, or a GitHub Pages convention fallback.
package preview

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// labeledURLPattern matches a labeled URL in README text, e.g. "Demo: https://x.com"
// or "live - https://y.com/app". The label separator may be ":", "-", or "–".
var labeledURLPattern = regexp.MustCompile(`(?i)\b(?:demo|preview|live|site)\s*[:\-–]\s*(https?://\S+)`)

// Input carries everything the resolver may consult.
type Input struct {
	Owner     string
	Repo      string
	Homepage  string
	ReadmeRaw string
}

// Resolve picks a preview URL using a priority chain: a valid absolute http(s)
// homepage wins, then the first labeled URL found in the raw README, then the
// GitHub Pages convention for the repository. It always returns a URL.
func Resolve(in Input) string {
	if isValidHTTPURL(in.Homepage) {
		return in.Homepage
	}

	if u := findLabeledURL(in.ReadmeRaw); u != "" {
		return u
	}

	return pagesURL(in.Owner, in.Repo)
}

// findLabeledURL returns the first URL following a demo/preview/live/site label,
// with trailing punctuation stripped. Empty string when no match.
func findLabeledURL(text string) string {
	m := labeledURLPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	u := strings.TrimRight(m[1], `)]>"'`+"`.,;")
	if !isValidHTTPURL(u) {
		return ""
	}

	return u
}

// pagesURL builds the GitHub Pages URL for owner/repo. When the repository is
// the user pages repo itself (<owner>.github.io) the root form is returned.
func pagesURL(owner, repo string) string {
	if strings.EqualFold(repo, owner+".github.io") {
		return fmt.Sprintf("https://%s.github.io", owner)
	}
	return fmt.Sprintf("https://%s.github.io/%s", owner, repo)
}

func isValidHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
