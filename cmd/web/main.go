package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/config"
	"github.com/stemsi/student-portal/internal/logger"
	"github.com/stemsi/student-portal/internal/router"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupWebRouter(cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().
			Str("addr", ":"+cfg.WebPort).
			Str("assets", cfg.AssetDir).
			Msgf("Server is running on port %s", cfg.WebPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
