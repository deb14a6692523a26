package httphandler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/gitfolio/internal/application"
	"github.com/ericfisherdev/gitfolio/internal/domain/model"
	"github.com/ericfisherdev/gitfolio/internal/domain/port/driven"
)

// SyncRunner triggers a full sync run. Satisfied by application.SyncService.
type SyncRunner interface {
	Run(ctx context.Context, username string) (model.SyncSummary, error)
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	syncSvc  SyncRunner
	projects driven.ProjectStore
	posts    driven.PostStore
	profiles driven.ProfileStore
	username string
	apiToken string
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	syncSvc SyncRunner,
	projects driven.ProjectStore,
	posts driven.PostStore,
	profiles driven.ProfileStore,
	username string,
	apiToken string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		syncSvc:  syncSvc,
		projects: projects,
		posts:    posts,
		profiles: profiles,
		username: username,
		apiToken: apiToken,
		logger:   logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/sync", h.requireAuth(h.TriggerSync))
	mux.HandleFunc("GET /api/v1/projects", h.ListProjects)
	mux.HandleFunc("GET /api/v1/posts", h.ListPosts)
	mux.HandleFunc("GET /api/v1/profile", h.GetProfile)
	mux.HandleFunc("PUT /api/v1/profile", h.requireAuth(h.PutProfile))
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// requireAuth rejects requests that lack the configured bearer token. The
// comparison is constant-time.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(h.apiToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// TriggerSync runs a full sync for the configured user. Rate-limited triggers
// return 429 with the reset timestamp; fatal failures return 500 with a
// generic message so upstream detail never reaches the caller.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.syncSvc.Run(r.Context(), h.username)
	if err != nil {
		var rle *application.RateLimitedError
		switch {
		case errors.As(err, &rle):
			writeJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
				Error:   "rate_limited",
				Message: "sync was triggered too recently; try again later",
				ResetAt: rle.ResetAt.UTC().Format(time.RFC3339),
			})
		case errors.Is(err, application.ErrUpstream):
			h.logger.Error("sync failed upstream", "error", err)
			writeSyncError(w, "upstream_error", "fetching from the source failed")
		case errors.Is(err, application.ErrValidation):
			h.logger.Error("sync failed validation", "error", err)
			writeSyncError(w, "validation_error", "synced data failed validation")
		case errors.Is(err, application.ErrPersistence):
			h.logger.Error("sync failed persistence", "error", err)
			writeSyncError(w, "persistence_error", "storing synced data failed")
		default:
			h.logger.Error("sync failed", "error", err)
			writeSyncError(w, "internal_error", "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		OK:       true,
		Projects: summary.Projects,
		Posts:    summary.Posts,
	})
}

// ListProjects returns the synced projects in stored (stars-descending) order.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListByUser(r.Context(), h.username)
	if err != nil {
		h.logger.Error("failed to list projects", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, toProjectResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPosts returns the synced blog posts in stored (newest-first) order.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListByUser(r.Context(), h.username)
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetProfile returns the stored profile config, or 404 when none exists.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), h.username)
	if err != nil {
		h.logger.Error("failed to get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// PutProfile stores the profile config. Oversized configs are capped by the
// store, not rejected.
func (h *Handler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profiles.Set(r.Context(), h.username, req.toModel()); err != nil {
		h.logger.Error("failed to store profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
