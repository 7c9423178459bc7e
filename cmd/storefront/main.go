package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"aheyecare/internal/config"
	"aheyecare/internal/logging"
	"aheyecare/internal/wire"
)

func main() {
	cfg := config.LoadConfig()
	logging.Init(cfg.Logging.Level, cfg.Logging.Format, "storefront")
	log := logging.L()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Str("env", cfg.Server.Environment).Msg("refusing to start with unsafe configuration")
	}

	log.Info().Msg("initializing application")
	app, cleanup, err := wire.InitializeApplication(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer cleanup()

	if err := app.Admin.EnsureDefaultAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default admin")
	}

	server := &http.Server{
		Addr:           net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:        setupRouter(app),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	healthLis, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort))
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Server.HealthPort).Msg("failed to listen for health checks")
	}
	go func() {
		log.Info().Str("addr", healthLis.Addr().String()).Msg("grpc health server starting")
		if err := app.Health.Serve(healthLis); err != nil {
			log.Error().Err(err).Msg("grpc health server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	app.Health.Stop()

	// hijacked websocket connections are not tracked by Shutdown
	app.WS.Close()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server gracefully stopped")
}
