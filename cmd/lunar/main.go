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

	"github.com/lunareve/lunar-go/internal/cache"
	"github.com/lunareve/lunar-go/internal/config"
	"github.com/lunareve/lunar-go/internal/geoip"
	"github.com/lunareve/lunar-go/internal/handler"
	"github.com/lunareve/lunar-go/internal/logging"
	"github.com/lunareve/lunar-go/internal/middleware"
	"github.com/lunareve/lunar-go/internal/moderation"
	"github.com/lunareve/lunar-go/internal/publish"
	"github.com/lunareve/lunar-go/internal/scheduler"
	"github.com/lunareve/lunar-go/internal/service"
	"github.com/lunareve/lunar-go/internal/session"
	"github.com/lunareve/lunar-go/internal/storage"
	"github.com/lunareve/lunar-go/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Lunar Reve - astrology blog backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_SESSION_SECRET        Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_DB_PATH               SQLite database path (default: ./data/lunar.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_UPLOADS_DIR           Upload storage directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_REDIS_URL             Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_GEOIP_DB_PATH         GeoLite2 country database path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LUNAR_EVENT_RETENTION_DAYS  Audit event retention in days (default: 90)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("lunar %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
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

	var baseHandler slog.Handler
	if cfg.IsDevelopment() {
		baseHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		baseHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(baseHandler)
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

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	logger = slog.New(logging.NewEventLogHandler(baseHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed default data
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	appCache := cache.New(cfg.RedisURL, cfg.CachePrefix, cacheTTL, logger)
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// Initialize GeoIP lookup. A missing database degrades country
	// resolution, nothing else.
	geo, err := geoip.NewLookup(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip lookup unavailable", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()
	slog.Info("geoip lookup initialized", "enabled", geo.IsEnabled())

	// Initialize audit event service
	events := service.NewEventService(db, geo, logger)

	// Initialize and start the retention scheduler
	sched := scheduler.New(events, cfg.EventRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Initialize upload storage
	objects, err := storage.NewLocalStore(cfg.UploadsDir, "/uploads")
	if err != nil {
		return fmt.Errorf("initializing upload storage: %w", err)
	}

	// Domain services
	queries := store.New(db)
	publisher := publish.NewService(queries, objects, logger)
	engine := moderation.NewEngine(queries, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(db, sessionManager, events, logger)
	userHandler := handler.NewUserHandler(db, events, logger)
	postHandler := handler.NewPostHandler(db, publisher, appCache, events, logger)
	commentHandler := handler.NewCommentHandler(db, engine, events, logger)
	testimonialHandler := handler.NewTestimonialHandler(db)
	serviceHandler := handler.NewServiceHandler(db)
	messageHandler := handler.NewMessageHandler(db, events, logger)
	eventHandler := handler.NewEventHandler(db)
	statsHandler := handler.NewStatsHandler(db)
	healthHandler := handler.NewHealthHandler(db, appVersion)

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadViewer(sessionManager, db))

	r.Get("/health", healthHandler.Check)

	// Authentication and registration
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(1, 5))
		r.Post("/login", authHandler.Login)
		r.Post("/register", userHandler.Register)
	})
	r.Post("/logout", authHandler.Logout)

	// Public API
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", authHandler.Me)
		r.Get("/posts", postHandler.List)
		r.Get("/posts/{slug}", postHandler.Get)
		r.Get("/posts/{postID}/comments", commentHandler.List)
		r.With(middleware.RateLimitByIP(0.5, 3)).
			Post("/posts/{postID}/comments", commentHandler.Submit)
		r.Get("/testimonials", testimonialHandler.List)
		r.Get("/services", serviceHandler.List)
		r.With(middleware.RateLimitByIP(0.2, 2)).
			Post("/contact", messageHandler.Submit)
	})

	// Admin API
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Use(middleware.CSRF([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))

		r.Get("/posts", postHandler.AdminList)
		r.Post("/posts", postHandler.Create)
		r.Put("/posts/{id}", postHandler.Update)
		r.Delete("/posts/{id}", postHandler.Delete)

		r.Get("/comments", commentHandler.Queue)
		r.Post("/comments/{id}/approve", commentHandler.Approve)
		r.Delete("/comments/{id}", commentHandler.Delete)

		r.Post("/testimonials", testimonialHandler.Create)
		r.Put("/testimonials/{id}", testimonialHandler.Update)
		r.Delete("/testimonials/{id}", testimonialHandler.Delete)

		r.Post("/services", serviceHandler.Create)
		r.Put("/services/{id}", serviceHandler.Update)
		r.Delete("/services/{id}", serviceHandler.Delete)

		r.Get("/messages", messageHandler.List)
		r.Delete("/messages/{id}", messageHandler.Delete)

		r.Get("/users", userHandler.List)
		r.Put("/users/{id}/role", userHandler.UpdateRole)
		r.Delete("/users/{id}", userHandler.Delete)

		r.Get("/events", eventHandler.List)
		r.Get("/stats", statsHandler.Overview)
	})

	// Serve uploaded media files
	uploadsHandler := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Handle("/uploads/*", uploadsHandler)

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

	// Start server in goroutine
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
