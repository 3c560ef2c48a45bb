// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/mdcms-go/internal/cache"
	"github.com/olegiv/mdcms-go/internal/config"
	"github.com/olegiv/mdcms-go/internal/disk"
	"github.com/olegiv/mdcms-go/internal/event"
	"github.com/olegiv/mdcms-go/internal/handler/api"
	"github.com/olegiv/mdcms-go/internal/logging"
	"github.com/olegiv/mdcms-go/internal/markdown"
	"github.com/olegiv/mdcms-go/internal/page"
	"github.com/olegiv/mdcms-go/internal/pkginfo"
	"github.com/olegiv/mdcms-go/internal/revision"
	"github.com/olegiv/mdcms-go/internal/scheduler"
	"github.com/olegiv/mdcms-go/internal/search"
	"github.com/olegiv/mdcms-go/internal/service"
	"github.com/olegiv/mdcms-go/internal/store"
	"github.com/olegiv/mdcms-go/internal/version"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "mdcms - Markdown content service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_DB_PATH            SQLite database path (default: ./data/mdcms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_PAGES_DIR          Root of the default pages disk (default: ./data/pages)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_PACKAGES_DIR       Root of the packages disk (default: ./data/packages)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_PROJECT_ROOT       Directory holding the dependency manifest (default: .)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MDCMS_REDIS_URL          Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("mdcms %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	// Source locations in log lines are only useful while developing.
	logOpts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: cfg.IsDevelopment(),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, logOpts)
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Cache backend
	backend, err := cache.NewCache(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
		MaxSize:    cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory", "max_size", cfg.CacheMaxSize)
	}
	pageCache := cache.NewPageCache(backend, cfg.CacheTTLDuration())

	// Storage disks
	pagesDisk, err := disk.NewFilesystem(disk.DefaultName, cfg.PagesDir)
	if err != nil {
		return fmt.Errorf("initializing pages disk: %w", err)
	}
	packagesDisk, err := disk.NewFilesystem("packages", cfg.PackagesDir)
	if err != nil {
		return fmt.Errorf("initializing packages disk: %w", err)
	}
	disks := disk.NewManager(pagesDisk, packagesDisk)
	slog.Info("storage disks ready", "disks", disks.Names())

	// Stores and services
	converter := markdown.NewConverter()
	pageStore := page.NewStore(converter)
	revisionStore := revision.NewStore(db)
	eventService := service.NewEventService(db, logger)

	// Search index
	index, err := search.Open(cfg.SearchIndexPath)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer func() {
		if err := index.Close(); err != nil {
			slog.Error("error closing search index", "error", err)
		}
	}()

	// Event bus with cache, audit, and search listeners
	bus := event.NewBus(logger, event.Config{
		Workers:   cfg.EventWorkers,
		QueueSize: cfg.EventQueueSize,
	})
	bus.Subscribe(cache.NewListener(pageCache, logger))
	bus.Subscribe(service.NewAuditListener(eventService))
	bus.Subscribe(search.NewListener(index))

	ctx := context.Background()
	bus.Start(ctx)
	defer bus.Stop()

	pageService := service.NewPageService(disks, pageStore, revisionStore, pageCache, bus, logger)

	// Package analyzer
	analyzer := pkginfo.NewAnalyzer(cfg.ProjectRoot, cfg.AnalysisDecay(), logger)

	// Maintenance scheduler
	sched := scheduler.New(eventService, pageStore, disks, index,
		time.Duration(cfg.EventRetentionDays)*24*time.Hour, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	apiHandler := api.NewHandler(db, pageService, converter, analyzer, index, logger)
	r.Route("/api/v1", func(r chi.Router) {
		apiHandler.Routes(r)
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
