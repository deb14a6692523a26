package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/gitfolio/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/gitfolio/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/gitfolio/internal/adapter/driving/http"
	"github.com/ericfisherdev/gitfolio/internal/application"
	"github.com/ericfisherdev/gitfolio/internal/config"
	"github.com/ericfisherdev/gitfolio/internal/ratelimit"
)

// sweepInterval is how often expired rate-limit entries are garbage collected.
const sweepInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"github_username", cfg.GitHubUsername,
		"blog_repo", cfg.BlogRepo,
		"repo_limit", cfg.RepoLimit,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	projectStore := sqliteadapter.NewProjectRepo(db)
	postStore := sqliteadapter.NewPostRepo(db)
	profileStore := sqliteadapter.NewProfileRepo(db)

	ghClient := githubadapter.NewClient(cfg.GitHubToken, cfg.BlogRepo)
	if cfg.GitHubToken == "" {
		slog.Warn("no github token configured, running unauthenticated at a reduced quota")
	}

	// 6. Create the rate limiter and its background sweep.
	limiter := ratelimit.New()
	go limiter.Start(ctx, sweepInterval)

	// 7. Create the sync service.
	syncSvc := application.NewSyncService(
		ghClient,
		projectStore,
		postStore,
		profileStore,
		limiter,
		application.SyncConfig{
			RepoLimit:        cfg.RepoLimit,
			BlogRepo:         cfg.BlogRepo,
			RateLimitMax:     cfg.RateLimitMax,
			RateLimitWindow:  cfg.RateLimitWindow,
			CallTimeout:      cfg.CallTimeout,
			RunTimeout:       cfg.RunTimeout,
			FetchConcurrency: 8,
			ProjectsCapBytes: 32 * 1024,
			PostsCapBytes:    64 * 1024,
		},
		slog.Default(),
	)

	// 8. Create HTTP handler and server.
	apiHandler := httphandler.NewHandler(
		syncSvc,
		projectStore,
		postStore,
		profileStore,
		cfg.GitHubUsername,
		cfg.APIToken,
		slog.Default(),
	)
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("gitfolio started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
