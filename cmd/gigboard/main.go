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

	"github.com/gigboard/gigboard/internal/config"
	"github.com/gigboard/gigboard/internal/favorite"
	"github.com/gigboard/gigboard/internal/job"
	"github.com/gigboard/gigboard/internal/notify"
	"github.com/gigboard/gigboard/internal/platform/sqlite"
	favoriterepo "github.com/gigboard/gigboard/internal/repository/favorite"
	jobrepo "github.com/gigboard/gigboard/internal/repository/job"
	userrepo "github.com/gigboard/gigboard/internal/repository/user"
	"github.com/gigboard/gigboard/internal/scraper"
	"github.com/gigboard/gigboard/internal/search"
	"github.com/gigboard/gigboard/internal/server"
	"github.com/gigboard/gigboard/internal/user"
)

func main() {
	cfg := config.Load()

	// Root context: cancelled on SIGINT/SIGTERM so in-flight scraper
	// processes stop promptly during graceful shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Open database
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	// Repositories
	jobRepo := jobrepo.NewRepository(db.DB)
	userRepo := userrepo.NewRepository(db.DB)
	favoriteRepo := favoriterepo.NewRepository(db.DB)

	// Scraper gateway: each configured scraper is an external process
	// writing its findings to a JSON file.
	scraperCfgs, err := config.LoadScrapers(cfg.ScrapersFile)
	if err != nil {
		slog.Warn("no scrapers configured, search is disabled", "file", cfg.ScrapersFile, "error", err)
	}
	scrapers := make([]scraper.Scraper, 0, len(scraperCfgs))
	for _, sc := range scraperCfgs {
		scrapers = append(scrapers, scraper.NewScript(sc, nil))
	}
	gateway := scraper.NewGateway(cfg.ScrapeTimeout, scrapers...)
	slog.Info("scraper gateway ready", "sources", gateway.Sources(), "timeout", cfg.ScrapeTimeout.String())

	// Notifications
	telegram := notify.NewTelegram(cfg.TelegramToken, notify.WithBaseURL(cfg.TelegramAPIURL))
	if !telegram.Enabled() {
		slog.Warn("telegram token not set, alerts are disabled")
	}

	// Services
	jobSvc := job.NewService(jobRepo, notify.LogSink{})
	userSvc := user.NewService(userRepo)
	favoriteSvc := favorite.NewService(favoriteRepo, jobRepo)
	searchSvc := search.NewService(gateway, jobRepo, userRepo, telegram)

	// HTTP server — rootCtx is used as BaseContext so every request context
	// inherits from it and is cancelled on shutdown.
	srv := server.New(rootCtx, cfg.Port, searchSvc, jobSvc, favoriteSvc, userSvc)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	<-done

	// Cancel root context first so in-flight searches (and their scraper
	// processes) begin winding down immediately.
	rootCancel()

	// Then drain connections with a deadline.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
