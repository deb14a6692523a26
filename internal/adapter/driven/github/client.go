// Package github implements the SourceClient port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/ericfisherdev/gitfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SourceClient = (*Client)(nil)

// Client implements the driven.SourceClient port using the go-github library.
type Client struct {
	gh       *gh.Client
	blogRepo string
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// blogRepo is the name of the repository holding markdown blog posts.
func NewClient(token, blogRepo string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		gh:       client,
		blogRepo: blogRepo,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, blogRepo string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:       client,
		blogRepo: blogRepo,
	}, nil
}

// ListRepositories retrieves all repositories owned by the user, sorted by
// last push. It handles pagination automatically and maps go-github types to
// domain model types. A nonexistent user yields an empty slice, not an error.
func (c *Client) ListRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	opts := &gh.RepositoryListByUserOptions{
		Type:      "owner",
		Sort:      "pushed",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var allRepos []model.Repository

	for {
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, opts)
		if isNotFound(err) {
			return []model.Repository{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s (page %d): %w", username, opts.Page, err)
		}

		logRateLimit(resp, username, opts.Page, len(repos))

		for _, repo := range repos {
			allRepos = append(allRepos, mapRepository(repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allRepos == nil {
		allRepos = []model.Repository{}
	}

	return allRepos, nil
}

// GetReadme retrieves the raw markdown of owner/repo's README. Returns empty
// string when the repository has no README.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	readme, _, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting readme for %s/%s: %w", owner, repo, err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding readme for %s/%s: %w", owner, repo, err)
	}

	return content, nil
}

// ListBlogFiles lists the markdown files (.md, .mdx) at the root of the user's
// blog repository. A missing blog repository yields an empty slice.
func (c *Client) ListBlogFiles(ctx context.Context, username string) ([]string, error) {
	_, entries, _, err := c.gh.Repositories.GetContents(ctx, username, c.blogRepo, "", nil)
	if isNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing blog files for %s/%s: %w", username, c.blogRepo, err)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		name := entry.GetName()
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".mdx") {
			files = append(files, name)
		}
	}

	return files, nil
}

// GetBlogFile retrieves the raw text of one file in the user's blog
// repository. Returns empty string when the file does not exist.
func (c *Client) GetBlogFile(ctx context.Context, username, filename string) (string, error) {
	file, _, _, err := c.gh.Repositories.GetContents(ctx, username, c.blogRepo, filename, nil)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting blog file %s/%s/%s: %w", username, c.blogRepo, filename, err)
	}
	if file == nil {
		// Path resolved to a directory.
		return "", nil
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding blog file %s/%s/%s: %w", username, c.blogRepo, filename, err)
	}

	return content, nil
}

// mapRepository converts a go-github repository to the domain model type.
func mapRepository(repo *gh.Repository) model.Repository {
	topics := repo.Topics
	if topics == nil {
		topics = []string{}
	}

	return model.Repository{
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		Language:    repo.GetLanguage(),
		Topics:      topics,
		Stars:       repo.GetStargazersCount(),
		PushedAt:    repo.GetPushedAt().Time,
		HomepageURL: repo.GetHomepage(),
		IsPrivate:   repo.GetPrivate(),
		IsFork:      repo.GetFork(),
		IsArchived:  repo.GetArchived(),
	}
}

// isNotFound reports whether err is a GitHub API 404 response.
func isNotFound(err error) bool {
	var errResp *gh.ErrorResponse
	return errors.As(err, &errResp) &&
		errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusNotFound
}

// logRateLimit warns when the remaining API quota is running low.
func logRateLimit(resp *gh.Response, username string, page, count int) {
	if resp == nil {
		return
	}

	if resp.Rate.Remaining > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit running low",
			"remaining", resp.Rate.Remaining,
			"reset", resp.Rate.Reset.Time,
			"username", username,
			"page", page,
			"results", count,
		)
	}
}
