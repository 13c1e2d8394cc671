package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/newsdesk/app/api"
	"github.com/lysyi3m/newsdesk/app/cache"
	"github.com/lysyi3m/newsdesk/app/cfg"
	"github.com/lysyi3m/newsdesk/app/database"
	"github.com/lysyi3m/newsdesk/app/feed"
	"github.com/lysyi3m/newsdesk/app/metrics"
	"github.com/lysyi3m/newsdesk/app/newscache"
	"github.com/lysyi3m/newsdesk/app/summary"
	"github.com/lysyi3m/newsdesk/app/tasks"
)

func main() {
	// Load configuration from environment variables and command-line flags
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appConfig.Debug)

	slog.Info("Starting Newsdesk server", "version", appConfig.Version)

	ctx := context.Background()

	// Database connection
	slog.Info("Opening database", "path", appConfig.DBPath)
	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		fatal("Failed to open database", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		fatal("Failed to run migrations", err)
	}
	slog.Info("Database ready", "schema_version", version, "dirty", dirty)

	snapshotRepo := database.NewSnapshotRepository(db)

	// Restore the last snapshot so the API has data before the first update
	newsCache := newscache.New()
	if snapshot, err := snapshotRepo.Load(ctx); err != nil {
		slog.Warn("Failed to load stored snapshot", "error", err)
	} else if snapshot != nil {
		newsCache.Replace(snapshot)
		metrics.SetCachedNews(len(snapshot.All), len(snapshot.Top))
		slog.Info("Restored news snapshot", "news", len(snapshot.All), "top", len(snapshot.Top), "last_update", snapshot.LastUpdate)
	}

	// Response cache is optional
	var responseCache cache.ResponseCache
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewCache(ctx, appConfig.RedisAddr)
		if err != nil {
			slog.Warn("Response cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			responseCache = redisCache
			health := redisCache.Health(ctx)
			slog.Info("Response cache enabled", "addr", appConfig.RedisAddr, "status", health["status"], "keys", health["key_count"])
		}
	}

	// Summaries come from Gemini when a key is configured
	var summarizer summary.Summarizer = summary.NewLead()
	if appConfig.GeminiAPIKey != "" {
		gemini, err := summary.NewGemini(ctx, appConfig.GeminiAPIKey, appConfig.GeminiModel)
		if err != nil {
			slog.Warn("Gemini unavailable, using lead summaries", "error", err)
		} else {
			defer gemini.Close()
			summarizer = gemini
			slog.Info("Using Gemini summaries", "model", appConfig.GeminiModel)
		}
	}

	// Sources configuration
	configCache := feed.NewConfigCache(appConfig.SourcesFile)
	if err := configCache.Run(); err != nil {
		fatal("Failed to load sources", err)
	}
	if sources, err := configCache.GetConfig(); err == nil {
		slog.Info("Loaded sources", "file", appConfig.SourcesFile, "categories", len(sources.Categories), "sources", sources.SourceCount())
	}

	deps := tasks.UpdateDeps{
		ConfigCache:      configCache,
		Fetcher:          feed.NewFetcher(&http.Client{}, appConfig.UserAgent),
		Parser:           feed.NewParser(),
		Filterer:         feed.NewFilterer(),
		ContentExtractor: feed.NewContentExtractor(),
		Summarizer:       summarizer,
		SnapshotRepo:     snapshotRepo,
		NewsCache:        newsCache,
		ResponseCache:    responseCache,
	}

	// Initialize and start scheduler
	slog.Info("Starting background scheduler", "workers", appConfig.WorkerCount, "interval_seconds", appConfig.SchedulerInterval)
	scheduler := tasks.NewScheduler(newsCache, func() tasks.TaskInterface {
		return tasks.NewUpdateNewsTask(deps)
	}, time.Duration(appConfig.SchedulerInterval)*time.Second, appConfig.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	apiHandler := api.NewHandler(newsCache, scheduler, appConfig.Version)
	server := api.NewServer(apiHandler, api.ServerOptions{
		APIAccessKey:  appConfig.APIAccessKey,
		ResponseCache: responseCache,
		CacheTTL:      time.Duration(appConfig.CacheTTL) * time.Second,
	})

	// Create HTTP server with timeouts
	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig)
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler, caches and database are closed via defer
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
