// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken    string
	GitHubUsername string
	APIToken       string
	ListenAddr     string
	DBPath         string
	BlogRepo       string
	RepoLimit      int

	RateLimitMax    int
	RateLimitWindow time.Duration
	CallTimeout     time.Duration
	RunTimeout      time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. GITFOLIO_GITHUB_USERNAME and GITFOLIO_API_TOKEN are required.
// GITFOLIO_GITHUB_TOKEN is optional; without it the GitHub client runs
// unauthenticated at a much lower quota. Optional variables with defaults:
// GITFOLIO_LISTEN_ADDR (127.0.0.1:8080), GITFOLIO_DB_PATH (gitfolio.db),
// GITFOLIO_BLOG_REPO (blog-posts), GITFOLIO_REPO_LIMIT (20),
// GITFOLIO_RATE_LIMIT_MAX (1), GITFOLIO_RATE_LIMIT_WINDOW (60s),
// GITFOLIO_CALL_TIMEOUT (10s), GITFOLIO_RUN_TIMEOUT (2m).
func Load() (*Config, error) {
	username := os.Getenv("GITFOLIO_GITHUB_USERNAME")
	if username == "" {
		return nil, fmt.Errorf("GITFOLIO_GITHUB_USERNAME is required")
	}

	apiToken := os.Getenv("GITFOLIO_API_TOKEN")
	if apiToken == "" {
		return nil, fmt.Errorf("GITFOLIO_API_TOKEN is required")
	}

	cfg := &Config{
		GitHubToken:     os.Getenv("GITFOLIO_GITHUB_TOKEN"),
		GitHubUsername:  username,
		APIToken:        apiToken,
		ListenAddr:      "127.0.0.1:8080",
		DBPath:          "gitfolio.db",
		BlogRepo:        "blog-posts",
		RepoLimit:       20,
		RateLimitMax:    1,
		RateLimitWindow: 60 * time.Second,
		CallTimeout:     10 * time.Second,
		RunTimeout:      2 * time.Minute,
	}

	if v, ok := os.LookupEnv("GITFOLIO_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("GITFOLIO_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("GITFOLIO_BLOG_REPO"); ok {
		cfg.BlogRepo = v
	}

	if v, ok := os.LookupEnv("GITFOLIO_REPO_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("GITFOLIO_REPO_LIMIT has invalid value %q: must be a positive integer", v)
		}
		cfg.RepoLimit = n
	}

	if v, ok := os.LookupEnv("GITFOLIO_RATE_LIMIT_MAX"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("GITFOLIO_RATE_LIMIT_MAX has invalid value %q: must be a positive integer", v)
		}
		cfg.RateLimitMax = n
	}

	durations := []struct {
		key  string
		dest *time.Duration
	}{
		{"GITFOLIO_RATE_LIMIT_WINDOW", &cfg.RateLimitWindow},
		{"GITFOLIO_CALL_TIMEOUT", &cfg.CallTimeout},
		{"GITFOLIO_RUN_TIMEOUT", &cfg.RunTimeout},
	}
	for _, d := range durations {
		v, ok := os.LookupEnv(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s has invalid duration %q", d.key, v)
		}
		*d.dest = parsed
	}

	return cfg, nil
}
