// Command edge serves the app through the offline cache controller. It
// precaches the shell at startup and refuses to serve if that fails.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier/slack"
	"github.com/mauv0809/touchline/internal/offline"
)

func main() {
	log.SetFormatter(log.JSONFormatter)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}
	log.SetLevel(cfg.ParseLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storage offline.Storage
	switch cfg.Offline.Store {
	case "sql":
		db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			log.Fatalf("Failed to initialize database: %s", err)
		}
		defer dbTeardown()
		storage = offline.NewSQLStorage(db)
	default:
		storage = offline.NewMemoryStorage()
	}

	metricsSvc := metrics.NewService()
	opts := []offline.Option{}
	if cfg.Slack.Token != "" {
		opts = append(opts, offline.WithNotifier(slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)))
	}

	controller, err := offline.NewController(offline.Config{
		APITTL:     cfg.Offline.APITTL,
		APIHost:    cfg.Offline.APIHost,
		ReadPath:   cfg.Offline.ReadPath,
		Manifest:   cfg.Offline.Manifest,
		OfflineURL: cfg.Offline.OfflineURL,
		Prefix:     cfg.Offline.Prefix,
		Version:    cfg.Offline.Version,
		Origin:     cfg.Offline.Origin,
	}, storage, &http.Client{Timeout: 15 * time.Second}, metricsSvc, opts...)
	if err != nil {
		log.Fatalf("Invalid offline config: %s", err)
	}

	if err := controller.Install(ctx); err != nil {
		log.Fatalf("Failed to install offline cache: %s", err)
	}
	names, err := controller.Activate(ctx)
	if err != nil {
		log.Fatalf("Failed to activate offline cache: %s", err)
	}
	log.Info("Offline cache active", "caches", names)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.NewMetricsHandler())
	mux.Handle("/", controller)

	srv := &http.Server{
		Addr:    cfg.Offline.Listen,
		Handler: mux,
	}
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Edge started", "addr", cfg.Offline.Listen, "origin", cfg.Offline.Origin)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Edge error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Edge shutdown failed", "error", err)
		}
	}
	log.Info("Edge stopped")
}
