package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ghAdapter "github.com/ericfisherdev/gitfolio/internal/adapter/driven/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"blog-posts",
	)
	require.NoError(t, err)

	return client
}

// repoJSON is a helper struct for building GitHub API repository responses.
type repoJSON struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stargazers_count"`
	PushedAt    string   `json:"pushed_at,omitempty"`
	Homepage    string   `json:"homepage"`
	Private     bool     `json:"private"`
	Fork        bool     `json:"fork"`
	Archived    bool     `json:"archived"`
}

// contentJSON is a helper struct for building contents API responses.
type contentJSON struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content,omitempty"`
}

func fileContent(name, text string) contentJSON {
	return contentJSON{
		Type:     "file",
		Name:     name,
		Encoding: "base64",
		Content:  base64.StdEncoding.EncodeToString([]byte(text)),
	}
}

func TestListRepositories_MapsFields(t *testing.T) {
	repos := []repoJSON{
		{
			Name:        "widget",
			FullName:    "alice/widget",
			Description: "makes widgets",
			Language:    "Go",
			Topics:      []string{"cli", "tools"},
			Stars:       42,
			PushedAt:    "2026-01-02T12:00:00Z",
			Homepage:    "https://widget.example.com",
		},
		{
			Name:     "old-fork",
			FullName: "alice/old-fork",
			Fork:     true,
			Archived: true,
		},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/alice/repos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(repos)
	})

	client := newTestClient(t, handler)
	result, err := client.ListRepositories(context.Background(), "alice")

	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "widget", result[0].Name)
	assert.Equal(t, "alice/widget", result[0].FullName)
	assert.Equal(t, "makes widgets", result[0].Description)
	assert.Equal(t, "Go", result[0].Language)
	assert.Equal(t, []string{"cli", "tools"}, result[0].Topics)
	assert.Equal(t, 42, result[0].Stars)
	assert.Equal(t, "https://widget.example.com", result[0].HomepageURL)
	assert.False(t, result[0].IsFork)

	// Filtering flags are mapped, not applied here.
	assert.True(t, result[1].IsFork)
	assert.True(t, result[1].IsArchived)
}

func TestListRepositories_Pagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		page := r.URL.Query().Get("page")
		if page == "" || page == "1" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/users/alice/repos?page=2>; rel="next"`, r.Host))
			json.NewEncoder(w).Encode([]repoJSON{{Name: "one", FullName: "alice/one"}})
			return
		}

		json.NewEncoder(w).Encode([]repoJSON{{Name: "two", FullName: "alice/two"}})
	})

	client := newTestClient(t, handler)
	result, err := client.ListRepositories(context.Background(), "alice")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "alice/one", result[0].FullName)
	assert.Equal(t, "alice/two", result[1].FullName)
}

func TestListRepositories_UnknownUser(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, handler)
	result, err := client.ListRepositories(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestListRepositories_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})

	client := newTestClient(t, handler)
	_, err := client.ListRepositories(context.Background(), "alice")

	assert.Error(t, err)
}

func TestGetReadme_DecodesContent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/widget/readme", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fileContent("README.md", "# Widget\n\nDemo: https://w.example.com"))
	})

	client := newTestClient(t, handler)
	got, err := client.GetReadme(context.Background(), "alice", "widget")

	require.NoError(t, err)
	assert.Equal(t, "# Widget\n\nDemo: https://w.example.com", got)
}

func TestGetReadme_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, handler)
	got, err := client.GetReadme(context.Background(), "alice", "widget")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBlogFiles_FiltersMarkdown(t *testing.T) {
	entries := []contentJSON{
		{Type: "file", Name: "first-post.md"},
		{Type: "file", Name: "second-post.mdx"},
		{Type: "file", Name: "image.png"},
		{Type: "dir", Name: "drafts"},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/blog-posts/contents/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})

	client := newTestClient(t, handler)
	got, err := client.ListBlogFiles(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"first-post.md", "second-post.mdx"}, got)
}

func TestListBlogFiles_NoBlogRepo(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, handler)
	got, err := client.ListBlogFiles(context.Background(), "alice")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetBlogFile_DecodesContent(t *testing.T) {
	raw := "---\ntitle: Hello\ndate: 2026-01-01\n---\nbody"

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/blog-posts/contents/first-post.md", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fileContent("first-post.md", raw))
	})

	client := newTestClient(t, handler)
	got, err := client.GetBlogFile(context.Background(), "alice", "first-post.md")

	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestGetBlogFile_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	client := newTestClient(t, handler)
	got, err := client.GetBlogFile(context.Background(), "alice", "missing.md")

	require.NoError(t, err)
	assert.Empty(t, got)
}
