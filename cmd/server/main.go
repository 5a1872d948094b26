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
	"github.com/stemsi/student-portal/internal/database"
	"github.com/stemsi/student-portal/internal/handler"
	"github.com/stemsi/student-portal/internal/logger"
	"github.com/stemsi/student-portal/internal/router"
	"github.com/stemsi/student-portal/internal/service"
	"github.com/stemsi/student-portal/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Student Records API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Store ──────────────────────────────────────────────
	store, err := database.OpenStudentStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.StoreDriver).Msg("Failed to open student store")
	}
	defer store.Close()

	var pinger handler.Pinger
	if store.Ping != nil {
		pinger = handler.PingFunc(store.Ping)
	}

	// ─── Initialize Services and Handlers ──────────────────────────────
	studentService := service.NewStudentService(store.Repo, log)

	handlers := &router.Handlers{
		Student: handler.NewStudentHandler(studentService),
		Health:  handler.NewHealthHandler(pinger, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
