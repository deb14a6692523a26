// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/gitfolio/internal/bytecap"
	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/ericfisherdev/gitfolio/internal/domain/port/driven"
	"github.com/ericfisherdev/gitfolio/internal/frontmatter"
	"github.com/ericfisherdev/gitfolio/internal/markdown"
	"github.com/ericfisherdev/gitfolio/internal/preview"
	"github.com/ericfisherdev/gitfolio/internal/ratelimit"
)

// descriptionCapBytes is the per-field budget for a project's rendered README.
const descriptionCapBytes = 16 * 1024

// SyncConfig tunes one SyncService instance.
type SyncConfig struct {
	// RepoLimit caps how many repositories are enriched per run.
	RepoLimit int
	// BlogRepo is the repository name holding markdown blog posts; it is
	// excluded from the project list.
	BlogRepo string
	// RateLimitMax / RateLimitWindow bound how often a user may trigger a sync.
	RateLimitMax    int
	RateLimitWindow time.Duration
	// CallTimeout bounds each enrichment call; RunTimeout bounds the whole run.
	CallTimeout time.Duration
	RunTimeout  time.Duration
	// FetchConcurrency bounds the enrichment fan-out.
	FetchConcurrency int
	// ProjectsCapBytes / PostsCapBytes are the serialized collection budgets.
	ProjectsCapBytes int
	PostsCapBytes    int
}

// SyncService orchestrates one sync run: rate-limit check, concurrent fetch
// and enrichment, normalization under byte budgets, ordering, and
// reconciliation against the stores.
type SyncService struct {
	source   driven.SourceClient
	projects driven.ProjectStore
	posts    driven.PostStore
	profiles driven.ProfileStore
	limiter  *ratelimit.Limiter
	cfg      SyncConfig
	logger   *slog.Logger
}

// NewSyncService creates a SyncService with all required dependencies.
func NewSyncService(
	source driven.SourceClient,
	projects driven.ProjectStore,
	posts driven.PostStore,
	profiles driven.ProfileStore,
	limiter *ratelimit.Limiter,
	cfg SyncConfig,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		source:   source,
		projects: projects,
		posts:    posts,
		profiles: profiles,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run performs a full sync for username and returns what was persisted.
// A denied rate limit returns *RateLimitedError before any fetch. Listing,
// validation, and reconciliation failures are fatal (ErrUpstream,
// ErrValidation, ErrPersistence); a single item's enrichment failure only
// degrades or drops that item.
func (s *SyncService) Run(ctx context.Context, username string) (model.SyncSummary, error) {
	rl := s.limiter.Check("sync:"+username, ratelimit.Config{
		Max:    s.cfg.RateLimitMax,
		Window: s.cfg.RateLimitWindow,
	})
	if !rl.Allowed {
		return model.SyncSummary{}, &RateLimitedError{ResetAt: rl.ResetAt}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("sync started", "username", username)

	profile := s.loadProfile(ctx, username)

	projectCount, err := s.syncProjects(ctx, username, profile)
	if err != nil {
		return model.SyncSummary{}, err
	}

	postCount, err := s.syncPosts(ctx, username)
	if err != nil {
		return model.SyncSummary{}, err
	}

	s.logger.Info("sync finished",
		"username", username,
		"projects", projectCount,
		"posts", postCount,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return model.SyncSummary{Projects: projectCount, Posts: postCount, RanAt: start.UTC()}, nil
}

// loadProfile fetches the user's profile config. The profile only refines the
// sync (repo filters, preview overrides), so a read failure degrades to nil.
func (s *SyncService) loadProfile(ctx context.Context, username string) *model.Profile {
	profile, err := s.profiles.Get(ctx, username)
	if err != nil {
		s.logger.Warn("profile load failed, syncing without filters", "username", username, "error", err)
		return nil
	}
	return profile
}

func (s *SyncService) syncProjects(ctx context.Context, username string, profile *model.Profile) (int, error) {
	repos, err := s.source.ListRepositories(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%w: listing repositories: %v", ErrUpstream, err)
	}

	selected := s.selectRepos(repos, profile)
	s.logger.Info("repositories selected", "username", username, "listed", len(repos), "selected", len(selected))

	outcomes := fanOut(ctx, s.cfg.FetchConcurrency, selected, func(ctx context.Context, repo model.Repository) (model.Project, error) {
		return s.enrichRepo(ctx, username, repo, profile)
	})

	projects := make([]model.Project, 0, len(outcomes))
	for i, out := range outcomes {
		if out.err != nil {
			// Enrichment never fails a project outright; an error here means
			// the whole run is being torn down (context canceled).
			s.logger.Warn("project enrichment failed", "repo", selected[i].FullName, "error", out.err)
			continue
		}
		projects = append(projects, out.value)
	}

	if err := model.ValidateProjects(projects); err != nil {
		return 0, fmt.Errorf("%w: projects: %v", ErrValidation, err)
	}

	// Stable sort keeps the fetch order for equal star counts.
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Stars > projects[j].Stars
	})

	capped, err := bytecap.CapArray(projects, projectPayload, s.cfg.ProjectsCapBytes)
	if err != nil {
		return 0, fmt.Errorf("%w: capping projects: %v", ErrValidation, err)
	}
	if len(capped) < len(projects) {
		s.logger.Warn("project collection capped",
			"username", username, "before", len(projects), "after", len(capped))
	}

	if err := s.projects.ReplaceAll(ctx, username, capped); err != nil {
		return 0, fmt.Errorf("%w: reconciling projects: %v", ErrPersistence, err)
	}

	return len(capped), nil
}

// selectRepos filters out private, forked, and archived repositories plus the
// blog repo itself, applies the profile's include/exclude lists, and caps the
// result at RepoLimit.
func (s *SyncService) selectRepos(repos []model.Repository, profile *model.Profile) []model.Repository {
	selected := make([]model.Repository, 0, len(repos))

	for _, repo := range repos {
		if repo.IsPrivate || repo.IsFork || repo.IsArchived {
			continue
		}
		if repo.Name == s.cfg.BlogRepo {
			continue
		}
		if profile != nil {
			if len(profile.IncludeRepos) > 0 && !matchesRepo(profile.IncludeRepos, repo) {
				continue
			}
			if matchesRepo(profile.ExcludeRepos, repo) {
				continue
			}
		}

		selected = append(selected, repo)
		if s.cfg.RepoLimit > 0 && len(selected) == s.cfg.RepoLimit {
			break
		}
	}

	return selected
}

// enrichRepo fetches the repository's README and builds the normalized
// project. A failed README fetch degrades to the repository's stored
// description rather than failing the repository.
func (s *SyncService) enrichRepo(ctx context.Context, username string, repo model.Repository, profile *model.Profile) (model.Project, error) {
	if err := ctx.Err(); err != nil {
		return model.Project{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	owner, name, ok := strings.Cut(repo.FullName, "/")
	if !ok {
		owner, name = username, repo.Name
	}

	readmeRaw, err := s.source.GetReadme(callCtx, owner, name)
	if err != nil {
		s.logger.Warn("readme fetch failed, using stored description", "repo", repo.FullName, "error", err)
		readmeRaw = ""
	}

	descriptionHTML := markdown.Render(readmeRaw)

	summarySource := markdown.StripTags(descriptionHTML)
	if summarySource == "" {
		summarySource = repo.Description
	}
	if descriptionHTML == "" {
		descriptionHTML = repo.Description
	}

	previewURL := ""
	if profile != nil {
		previewURL = profile.CustomPreviewURLs[repo.Name]
	}
	if previewURL == "" {
		previewURL = preview.Resolve(preview.Input{
			Owner:     owner,
			Repo:      name,
			Homepage:  repo.HomepageURL,
			ReadmeRaw: readmeRaw,
		})
	}

	return model.Project{
		Username:        username,
		FullName:        repo.FullName,
		Name:            repo.Name,
		DescriptionHTML: bytecap.CapString(descriptionHTML, descriptionCapBytes),
		Language:        repo.Language,
		Topics:          repo.Topics,
		Stars:           repo.Stars,
		PushedAt:        repo.PushedAt,
		HomepageURL:     repo.HomepageURL,
		PreviewURL:      previewURL,
		Summary:         bytecap.CapString(summarySource, model.SummaryCapBytes),
	}, nil
}

func (s *SyncService) syncPosts(ctx context.Context, username string) (int, error) {
	files, err := s.source.ListBlogFiles(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%w: listing blog files: %v", ErrUpstream, err)
	}

	outcomes := fanOut(ctx, s.cfg.FetchConcurrency, files, func(ctx context.Context, filename string) (model.Post, error) {
		return s.fetchPost(ctx, username, filename)
	})

	posts := make([]model.Post, 0, len(outcomes))
	for i, out := range outcomes {
		if out.err != nil {
			// Unparseable or missing posts are dropped, never synthesized.
			s.logger.Warn("blog post dropped", "file", files[i], "error", out.err)
			continue
		}
		posts = append(posts, out.value)
	}

	if err := model.ValidatePosts(posts); err != nil {
		return 0, fmt.Errorf("%w: posts: %v", ErrValidation, err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})

	capped, err := bytecap.CapArray(posts, postPayload, s.cfg.PostsCapBytes)
	if err != nil {
		return 0, fmt.Errorf("%w: capping posts: %v", ErrValidation, err)
	}
	if len(capped) < len(posts) {
		s.logger.Warn("post collection capped",
			"username", username, "before", len(posts), "after", len(capped))
	}

	if err := s.posts.ReplaceAll(ctx, username, capped); err != nil {
		return 0, fmt.Errorf("%w: reconciling posts: %v", ErrPersistence, err)
	}

	return len(capped), nil
}

// fetchPost retrieves and parses one blog file. Any failure drops the post.
func (s *SyncService) fetchPost(ctx context.Context, username, filename string) (model.Post, error) {
	if err := ctx.Err(); err != nil {
		return model.Post{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	raw, err := s.source.GetBlogFile(callCtx, username, filename)
	if err != nil {
		return model.Post{}, fmt.Errorf("fetching %s: %w", filename, err)
	}
	if raw == "" {
		return model.Post{}, fmt.Errorf("%s: empty or missing file", filename)
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return model.Post{}, fmt.Errorf("parsing %s: %w", filename, err)
	}

	slug := strings.TrimSuffix(filename, path.Ext(filename))

	title := doc.Meta.Title
	if title == "" {
		title = slug
	}

	return model.Post{
		Username:    username,
		Slug:        slug,
		Title:       title,
		Summary:     bytecap.CapString(doc.Meta.Summary, model.SummaryCapBytes),
		ContentMdx:  bytecap.CapString(doc.Body, model.ContentCapBytes),
		Tags:        doc.Meta.Tags,
		PublishedAt: doc.Meta.PublishedAt,
	}, nil
}

// outcome is the per-item result of a fan-out batch: value or error, never
// both meaningful at once.
type outcome[T any] struct {
	value T
	err   error
}

// fanOut runs fn over items with bounded concurrency and returns one outcome
// per item, in input order. Individual failures are recorded, not propagated;
// the batch itself always completes.
func fanOut[I, O any](ctx context.Context, limit int, items []I, fn func(context.Context, I) (O, error)) []outcome[O] {
	outcomes := make([]outcome[O], len(items))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			value, err := fn(gctx, item)
			outcomes[i] = outcome[O]{value: value, err: err}
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes completion.
	_ = g.Wait()

	return outcomes
}

// projectPayload is the compact serialized form used to measure a project
// against the collection byte budget. The rendered README is deliberately
// excluded; it is bounded by its own per-field cap.
func projectPayload(p model.Project) any {
	return struct {
		FullName    string   `json:"fullName"`
		Name        string   `json:"name"`
		Language    string   `json:"language,omitempty"`
		Topics      []string `json:"topics,omitempty"`
		Stars       int      `json:"stars"`
		PushedAt    string   `json:"pushedAt,omitempty"`
		HomepageURL string   `json:"homepageUrl,omitempty"`
		PreviewURL  string   `json:"previewUrl,omitempty"`
		Summary     string   `json:"summary,omitempty"`
	}{
		FullName:    p.FullName,
		Name:        p.Name,
		Language:    p.Language,
		Topics:      p.Topics,
		Stars:       p.Stars,
		PushedAt:    formatOptionalTime(p.PushedAt),
		HomepageURL: p.HomepageURL,
		PreviewURL:  p.PreviewURL,
		Summary:     p.Summary,
	}
}

// postPayload is the serialized form used to measure a post against the
// collection byte budget. The body is included; posts are dominated by it.
func postPayload(p model.Post) any {
	return struct {
		Slug        string   `json:"slug"`
		Title       string   `json:"title"`
		Summary     string   `json:"summary,omitempty"`
		ContentMdx  string   `json:"contentMdx"`
		Tags        []string `json:"tags,omitempty"`
		PublishedAt string   `json:"publishedAt"`
	}{
		Slug:        p.Slug,
		Title:       p.Title,
		Summary:     p.Summary,
		ContentMdx:  p.ContentMdx,
		Tags:        p.Tags,
		PublishedAt: p.PublishedAt.UTC().Format(time.RFC3339),
	}
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// matchesRepo reports whether the repository's name or full name appears in
// the list.
func matchesRepo(list []string, repo model.Repository) bool {
	for _, entry := range list {
		if entry == repo.Name || entry == repo.FullName {
			return true
		}
	}
	return false
}
