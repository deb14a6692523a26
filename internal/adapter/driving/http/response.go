package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/gitfolio/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeSyncError writes the 500 body shape for fatal sync failures.
func writeSyncError(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusInternalServerError, syncErrorResponse{
		Error:   code,
		Message: message,
	})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// syncErrorResponse is the error body for fatal sync failures.
type syncErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// rateLimitedResponse is the 429 body for denied sync triggers.
type rateLimitedResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	ResetAt string `json:"resetAt"`
}

// SyncResponse is the JSON body returned by a successful sync trigger.
type SyncResponse struct {
	OK       bool `json:"ok"`
	Projects int  `json:"projects"`
	Posts    int  `json:"posts"`
}

// ProjectResponse is the JSON representation of a synced project.
type ProjectResponse struct {
	FullName        string   `json:"fullName"`
	Name            string   `json:"name"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
	Language        string   `json:"language,omitempty"`
	Topics          []string `json:"topics"`
	Stars           int      `json:"stars"`
	PushedAt        string   `json:"pushedAt,omitempty"`
	HomepageURL     string   `json:"homepageUrl,omitempty"`
	PreviewURL      string   `json:"previewUrl,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// PostResponse is the JSON representation of a synced blog post.
type PostResponse struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary,omitempty"`
	ContentMdx  string   `json:"contentMdx"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"publishedAt"`
}

// ProfileRequest is the JSON body for the profile update endpoint.
type ProfileRequest struct {
	Bio               string            `json:"bio"`
	TwitterURL        string            `json:"twitterUrl"`
	LinkedinURL       string            `json:"linkedinUrl"`
	InstagramURL      string            `json:"instagramUrl"`
	IncludeRepos      []string          `json:"includeRepos"`
	ExcludeRepos      []string          `json:"excludeRepos"`
	CustomPreviewURLs map[string]string `json:"customPreviewUrls"`
}

func (r ProfileRequest) toModel() model.Profile {
	return model.Profile{
		Bio:               r.Bio,
		TwitterURL:        r.TwitterURL,
		LinkedinURL:       r.LinkedinURL,
		InstagramURL:      r.InstagramURL,
		IncludeRepos:      r.IncludeRepos,
		ExcludeRepos:      r.ExcludeRepos,
		CustomPreviewURLs: r.CustomPreviewURLs,
	}
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toProjectResponse converts a domain Project to its JSON response representation.
func toProjectResponse(p model.Project) ProjectResponse {
	topics := p.Topics
	if topics == nil {
		topics = []string{}
	}

	pushedAt := ""
	if !p.PushedAt.IsZero() {
		pushedAt = p.PushedAt.UTC().Format(time.RFC3339)
	}

	return ProjectResponse{
		FullName:        p.FullName,
		Name:            p.Name,
		DescriptionHTML: p.DescriptionHTML,
		Language:        p.Language,
		Topics:          topics,
		Stars:           p.Stars,
		PushedAt:        pushedAt,
		HomepageURL:     p.HomepageURL,
		PreviewURL:      p.PreviewURL,
		Summary:         p.Summary,
	}
}

// toPostResponse converts a domain Post to its JSON response representation.
func toPostResponse(p model.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return PostResponse{
		Slug:        p.Slug,
		Title:       p.Title,
		Summary:     p.Summary,
		ContentMdx:  p.ContentMdx,
		Tags:        tags,
		PublishedAt: p.PublishedAt.UTC().Format(time.RFC3339),
	}
}
