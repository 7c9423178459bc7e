package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aheyecare/internal/config"
	"aheyecare/internal/logging"
	"aheyecare/internal/media"
	"aheyecare/internal/storage"
)

func main() {
	cfg := config.LoadConfig()
	logging.Init(cfg.Logging.Level, cfg.Logging.Format, "media-server")
	log := logging.L()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("env", cfg.Server.Environment).Msg("refusing to start with unsafe configuration")
	}

	ctx := context.Background()
	store, cleanup, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open attachment storage")
	}
	defer cleanup()

	server := &http.Server{
		Addr:        cfg.Server.Host + ":" + cfg.Server.MediaPort,
		Handler:     logging.HTTPMiddleware(*log)(media.NewHTTPServer(store)),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("backend", cfg.Storage.Backend).Msg("media server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("media server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("media server forced to shutdown")
	}
	log.Info().Msg("media server stopped")
}
