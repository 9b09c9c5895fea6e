package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/apikey-dashboard/internal/config"
	"github.com/dimitrije/apikey-dashboard/internal/database"
	"github.com/dimitrije/apikey-dashboard/internal/logging"
	"github.com/dimitrije/apikey-dashboard/internal/server"
	"github.com/dimitrije/apikey-dashboard/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Setup(cfg.LogLevel, !cfg.IsProduction())

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	apiKeyService := services.NewAPIKeyService(db)

	trackerCtx, stopTracker := context.WithCancel(context.Background())
	defer stopTracker()

	tracker := services.NewUsageTracker(apiKeyService, cfg.Usage.QueueSize, cfg.Usage.Timeout)
	trackerDone := make(chan struct{})
	go func() {
		defer close(trackerDone)
		tracker.Run(trackerCtx)
	}()
	go reportUsageErrors(trackerCtx, tracker.Errors())

	handler := server.New(cfg, server.Deps{
		Keys:  apiKeyService,
		Usage: tracker,
		DB:    db,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	stopTracker()
	<-trackerDone
}
