package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"show_notifier/internal/bot"
	"show_notifier/internal/config"
	"show_notifier/internal/scheduler"
	"show_notifier/internal/scraper"
	"show_notifier/internal/storage"
	"show_notifier/internal/telemetry"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	b, err := bot.New(cfg.TelegramBotToken, store, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(newSource(cfg, log), b, store, scheduler.Options{
		LiveChatID:       cfg.LiveChatID,
		UpcomingChatID:   cfg.UpcomingChatID,
		Username:         cfg.Username,
		BroadcastTag:     cfg.BroadcastTag,
		LiveInterval:     cfg.LiveInterval,
		UpcomingInterval: cfg.UpcomingInterval,
		Location:         cfg.Location,
		Filters:          cfg.ShowFilters,
	}, log)
	b.SetMonitor(sched)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, log)
	}

	log.Info("starting notifier",
		"username", cfg.Username,
		"source", cfg.Source,
		"live_interval", cfg.LiveInterval,
		"upcoming_interval", cfg.UpcomingInterval,
	)

	go sched.Run(ctx)

	b.Run(ctx)

	log.Info("notifier stopped")
}

func newSource(cfg *config.Config, log *slog.Logger) scheduler.Source {
	switch cfg.Source {
	case config.SourceFeed:
		return scraper.NewFeed(http.DefaultClient, cfg.FeedURL, cfg.Location)
	case config.SourceStatic:
		log.Warn("using static demo source, no real pages will be scraped")
		return scraper.Demo(cfg.BaseURL, cfg.Username)
	default:
		return scraper.NewProfile(http.DefaultClient, cfg.BaseURL, cfg.Username)
	}
}

func serveMetrics(ctx context.Context, addr string, log *slog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           telemetry.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
