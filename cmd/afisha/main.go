// Copyright (c) 2025-2026 nikbelko
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
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/nikbelko/Minsk-event/internal/cache"
	"github.com/nikbelko/Minsk-event/internal/config"
	"github.com/nikbelko/Minsk-event/internal/fetch"
	"github.com/nikbelko/Minsk-event/internal/handler"
	"github.com/nikbelko/Minsk-event/internal/handler/api"
	"github.com/nikbelko/Minsk-event/internal/logging"
	"github.com/nikbelko/Minsk-event/internal/metrics"
	"github.com/nikbelko/Minsk-event/internal/refresh"
	"github.com/nikbelko/Minsk-event/internal/scheduler"
	"github.com/nikbelko/Minsk-event/internal/service"
	"github.com/nikbelko/Minsk-event/internal/source"
	"github.com/nikbelko/Minsk-event/internal/store"
	"github.com/nikbelko/Minsk-event/internal/version"
	"github.com/nikbelko/Minsk-event/internal/webhook"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// options are the command-line flags.
type options struct {
	once    bool
	sources string
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	var opts options
	flag.BoolVar(&opts.once, "once", false, "Run one refresh of the enabled sources and exit")
	flag.StringVar(&opts.sources, "source", "", "Comma-separated sources to refresh (overrides AFISHA_SOURCES)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "afisha - Minsk events catalog\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nSources (refresh order):\n  %s\n", strings.Join(source.Names(), "\n  "))
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_DB_PATH           SQLite database path (default: ./data/events.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_TIMEZONE          Zone defining \"today\" (default: Europe/Minsk)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_REFRESH_SCHEDULE  Cron schedule of the daily run (default: 0 6 * * *)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_EMPTY_POLICY      preserve|wipe for sources that yield nothing (default: preserve)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_SERVER_PORT       Query API port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_REDIS_URL         Redis URL for the query cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AFISHA_REPORT_WEBHOOK_URL  Endpoint receiving run reports (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if *showVersion {
		_, _ = fmt.Println(info.Banner("afisha"))
		os.Exit(0)
	}

	if err := run(opts, info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(opts options, info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	warnings := logging.NewWarningLog(logging.DefaultWarningLimit)
	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, os.Stdout, warnings)
	slog.SetDefault(logger)

	names := cfg.Sources
	if opts.sources != "" {
		names = strings.Split(opts.sources, ",")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	logger.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	queryCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = queryCache.Close() }()
	logger.Info("query cache ready", "backend", cache.Backend(queryCache), "redis", cache.SanitizeRedisURL(cfg.RedisURL))

	sources, err := source.Build(names, source.Deps{
		Fetcher:  fetch.New(cfg.FetchOptions(), logger),
		Logger:   logger,
		City:     cfg.City,
		MaxPages: cfg.MaxPages,
	})
	if err != nil {
		return fmt.Errorf("building sources: %w", err)
	}

	m := metrics.New()
	catalog := service.NewCatalog(db, queryCache, cfg.CacheTTL, logger)
	runner := newRunner(cfg, db, catalog, m, warnings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if counts, err := catalog.SourceCounts(ctx); err == nil {
		m.SetCatalogRows(counts)
	}

	if opts.once {
		rep := runner.Run(ctx, sources)
		if rep.Failed > 0 {
			return fmt.Errorf("%d of %d sources failed", rep.Failed, len(rep.Sources))
		}
		return nil
	}

	return serve(ctx, cfg, db, queryCache, catalog, m, func(ctx context.Context) {
		runner.Run(ctx, sources)
	}, info, logger)
}

// newRunner wires the per-source and per-run hooks around the refresher.
func newRunner(cfg *config.Config, db *sql.DB, catalog *service.Catalog, m *metrics.Metrics,
	warnings *logging.WarningLog, logger *slog.Logger) *scheduler.Runner {
	refresher := refresh.New(db, refresh.Options{
		Policy:   cfg.Policy(),
		City:     cfg.City,
		Location: cfg.Location(),
	}, logger)

	onReport := []func(context.Context, scheduler.Report) error{
		func(ctx context.Context, rep scheduler.Report) error {
			return scheduler.SaveReport(ctx, db, rep)
		},
		func(ctx context.Context, rep scheduler.Report) error {
			m.ObserveRun(rep)
			counts, err := catalog.SourceCounts(ctx)
			if err != nil {
				return fmt.Errorf("counting catalog rows: %w", err)
			}
			m.SetCatalogRows(counts)
			return nil
		},
	}
	if cfg.ReportWebhookEnabled() {
		notifier := webhook.NewNotifier(webhook.Config{
			URL:    cfg.ReportWebhookURL,
			Secret: cfg.ReportWebhookSecret,
		}, logger)
		onReport = append(onReport, func(ctx context.Context, rep scheduler.Report) error {
			return notifier.Notify(ctx, webhook.EventRefreshCompleted, rep)
		})
	}

	return scheduler.NewRunner(refresher, scheduler.RunnerOptions{
		Timeout:  cfg.SourceTimeout,
		Warnings: warnings,
		OnSource: []func(refresh.Result){
			m.ObserveRefresh,
			func(res refresh.Result) {
				if res.Added > 0 || res.Deleted > 0 {
					catalog.Invalidate(context.Background())
				}
			},
		},
		OnReport: onReport,
	}, logger)
}

// serve runs the query API and the refresh schedule until ctx is done.
func serve(ctx context.Context, cfg *config.Config, db *sql.DB, queryCache cache.Cacher, catalog *service.Catalog,
	m *metrics.Metrics, job func(context.Context), info version.Info, logger *slog.Logger) error {
	var cachePing handler.Pinger
	if rc, ok := queryCache.(*cache.RedisCache); ok {
		cachePing = rc
	}

	router := handler.NewRouter(handler.RouterConfig{
		API:            api.NewHandler(catalog, cfg.Location(), logger),
		Health:         handler.NewHealthHandler(db, cachePing, info),
		Metrics:        m.Handler(),
		RateLimit:      cfg.APIRate,
		RateBurst:      cfg.APIBurst,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	sched, err := scheduler.New(cfg.RefreshSchedule, cfg.Location(), job, logger)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := sched.Start(gctx); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		<-gctx.Done()
		sched.Stop()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
