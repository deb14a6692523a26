package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_HomepageWins(t *testing.T) {
	got := Resolve(Input{
		Owner:     "alice",
		Repo:      "app",
		Homepage:  "https://x.com",
		ReadmeRaw: "demo: https://y.com",
	})

	assert.Equal(t, "https://x.com", got)
}

func TestResolve_InvalidHomepageFallsThrough(t *testing.T) {
	tests := []struct {
		name     string
		homepage string
	}{
		{"empty", ""},
		{"relative path", "/docs"},
		{"no scheme", "example.com"},
		{"ftp scheme", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(Input{
				Owner:     "alice",
				Repo:      "app",
				Homepage:  tt.homepage,
				ReadmeRaw: "Demo: https://y.com/app",
			})
			assert.Equal(t, "https://y.com/app", got)
		})
	}
}

func TestResolve_ReadmeLabels(t *testing.T) {
	tests := []struct {
		name   string
		readme string
		want   string
	}{
		{"demo colon", "Demo: https://y.com/app", "https://y.com/app"},
		{"live with trailing paren", "Check it out (Live: https://y.com/app)", "https://y.com/app"},
		{"preview dash", "preview - https://p.example.io", "https://p.example.io"},
		{"site en-dash", "Site – https://s.example.io/x", "https://s.example.io/x"},
		{"markdown bracket", "[demo: https://y.com/app]", "https://y.com/app"},
		{"trailing quote", `demo: https://y.com/app"`, "https://y.com/app"},
		{"case insensitive", "DEMO: https://y.com/APP", "https://y.com/APP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(Input{Owner: "alice", Repo: "app", ReadmeRaw: tt.readme})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_PagesFallback(t *testing.T) {
	got := Resolve(Input{Owner: "alice", Repo: "site"})
	assert.Equal(t, "https://alice.github.io/site", got)
}

func TestResolve_PagesRootRepo(t *testing.T) {
	got := Resolve(Input{Owner: "alice", Repo: "alice.github.io"})
	assert.Equal(t, "https://alice.github.io", got)
}

func TestResolve_UnlabeledURLIgnored(t *testing.T) {
	got := Resolve(Input{
		Owner:     "alice",
		Repo:      "app",
		ReadmeRaw: "See https://unrelated.example.com for details",
	})

	assert.Equal(t, "https://alice.github.io/app", got)
}
