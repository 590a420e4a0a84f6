// Package main is the entry point for the Feast Day API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/feastday-api/internal/api"
	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/config"
	"github.com/zapponejosh/feastday-api/internal/database"
	"github.com/zapponejosh/feastday-api/internal/i18n"
	"github.com/zapponejosh/feastday-api/internal/logger"
	"github.com/zapponejosh/feastday-api/internal/materialize"
	"github.com/zapponejosh/feastday-api/internal/metrics"
	"github.com/zapponejosh/feastday-api/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	log.Info("starting feast day API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("julian_offset_mode", cfg.JulianOffsetMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Engine and services
	registry := calendar.NewRegistry(calendar.WithJulianOffset(cfg.JulianOffset()))

	translator, err := i18n.New(cfg.DefaultLocale, log)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	m := metrics.New()
	materializer := materialize.NewService(registry, db, m, log)

	sched := scheduler.New(cfg.MaterializeSchedule, cfg.MaterializeYearsAhead, materializer, log)
	schedErr := make(chan error, 1)
	go func() {
		schedErr <- sched.Start(ctx)
	}()

	// Runs before db.Close: the first pass may still be writing.
	schedDone := false
	defer func() {
		stop()
		if !schedDone {
			<-schedErr
		}
		sched.Stop()
	}()

	// HTTP
	handlers := api.NewHandlers(api.Deps{
		DB:           db,
		Registry:     registry,
		Translator:   translator,
		Materializer: materializer,
		Metrics:      m,
		Config:       cfg,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("feast day API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case err := <-schedErr:
		schedDone = true
		if err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("feast day API stopped")
	return nil
}
